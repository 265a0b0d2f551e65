package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/product"
)

type fakeGenerator struct {
	answer string
	err    error

	system string
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.answer, f.err
}

const profileJSON = `{
  "full_name": "Bosch GSB 13 RE (0601217100)",
  "description": "Компактная ударная дрель.",
  "key_features": ["Ударный режим", "Реверс"],
  "advantages": ["Лёгкая"],
  "specifications": {
    "Основные": {"Мощность": "600 Вт", "Обороты": 2800},
    "Комплектация": {"Кейс": "да"}
  },
  "visual_details": {"color": "синий", "material": "пластик"},
  "target_audience": "Домашние мастера",
  "use_cases": ["Сверление бетона"],
  "seo_meta": {"title": "Дрель Bosch", "description": "Купить дрель", "h1": "Дрель Bosch GSB 13 RE", "keywords": ["дрель", "bosch"]},
  "lsi_phrases": ["ударная дрель", "дрель для дома"],
  "selling_points": ["Гарантия 2 года"]
}`

func TestEnrich(t *testing.T) {
	gen := &fakeGenerator{answer: "```json\n" + profileJSON + "\n```"}
	e := NewEnricher(gen)

	p := e.Enrich(context.Background(), "<h1>Дрель</h1>", product.Basic{Name: "Дрель", Brand: "Bosch"})
	require.NotNil(t, p)

	assert.Equal(t, "Bosch GSB 13 RE (0601217100)", p.FullName)
	assert.True(t, strings.HasPrefix(gen.system, "Ты эксперт по SEO-копирайтингу"))
	assert.Contains(t, gen.prompt, "- Название: Дрель")
	assert.Contains(t, gen.prompt, "- Цена: Не найдено")
	assert.Contains(t, gen.prompt, "<h1>Дрель</h1>")

	require.Len(t, p.Specifications, 2)
	assert.Equal(t, SpecGroup{Name: "Основные", Params: []Param{
		{Key: "Мощность", Value: "600 Вт"},
		{Key: "Обороты", Value: "2800"},
	}}, p.Specifications[0])
}

func TestEnrichTruncatesHTML(t *testing.T) {
	gen := &fakeGenerator{answer: `{}`}
	page := strings.Repeat("ж", MaxHTMLRunes+100)

	p := NewEnricher(gen).Enrich(context.Background(), page, product.Basic{})
	require.NotNil(t, p)
	assert.Contains(t, gen.prompt, strings.Repeat("ж", MaxHTMLRunes))
	assert.NotContains(t, gen.prompt, strings.Repeat("ж", MaxHTMLRunes+1))
}

func TestEnrichReturnsNilOnFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"disabled", nil},
		{"call error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"not json", &fakeGenerator{answer: "Извините, не могу"}},
		{"schema violation", &fakeGenerator{answer: `{"key_features": "one string"}`}},
		{"bad specifications", &fakeGenerator{answer: `{"specifications": {"Основные": "600 Вт"}}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnricher(tt.gen)
			assert.Nil(t, e.Enrich(context.Background(), "<html></html>", product.Basic{}))
		})
	}
}

func TestNilEnricherDisabled(t *testing.T) {
	var e *Enricher
	assert.False(t, e.Enabled())
	assert.Nil(t, e.Enrich(context.Background(), "", product.Basic{}))
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), config.AIConfig{Model: "gemini-2.5-flash"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSpecificationsRoundTripKeepsOrder(t *testing.T) {
	in := `{"Я":{"б":"1","а":"2"},"А":{"в":"3"}}`
	var specs Specifications
	require.NoError(t, json.Unmarshal([]byte(in), &specs))
	assert.Equal(t, "Я", specs[0].Name)
	assert.Equal(t, "б", specs[0].Params[0].Key)

	out, err := json.Marshal(specs)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
	assert.Equal(t, in, string(out))
}

func TestFormatReport(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(profileJSON), &p))

	got := FormatReport(&p, product.Basic{Name: "Дрель", Brand: "Bosch", Price: "4 990 ₽"})
	want := "=== ПОЛНЫЙ АНАЛИЗ ТОВАРА ===\n\n" +
		"📦 ТОЧНОЕ НАЗВАНИЕ\nBosch GSB 13 RE (0601217100)\n\n" +
		"💰 ЦЕНА: 4 990 ₽\n🏷️ БРЕНД: Bosch\n\n" +
		"📝 ПОДРОБНОЕ ОПИСАНИЕ\nКомпактная ударная дрель.\n\n" +
		"✨ КЛЮЧЕВЫЕ ОСОБЕННОСТИ\n• Ударный режим\n• Реверс\n" +
		"\n🎯 ПРЕИМУЩЕСТВА\n✓ Лёгкая\n" +
		"\n📊 ТЕХНИЧЕСКИЕ ХАРАКТЕРИСТИКИ\n" +
		"\nОсновные:\n  - Мощность: 600 Вт\n  - Обороты: 2800\n" +
		"\nКомплектация:\n  - Кейс: да\n" +
		"\n🎨 ВИЗУАЛЬНЫЕ ДЕТАЛИ\nЦвет: синий\nМатериал: пластик\nФорм-фактор: Не указан\n" +
		"\n👥 ЦЕЛЕВАЯ АУДИТОРИЯ\nДомашние мастера\n" +
		"\n💡 ПРИМЕРЫ ИСПОЛЬЗОВАНИЯ\n• Сверление бетона\n" +
		"\n🔍 SEO-ОПТИМИЗАЦИЯ\nTitle: Дрель Bosch\nDescription: Купить дрель\nH1: Дрель Bosch GSB 13 RE\nKeywords: дрель, bosch\n" +
		"\n🔑 LSI-ФРАЗЫ ДЛЯ SEO\nударная дрель, дрель для дома" +
		"\n\n💎 УНИКАЛЬНЫЕ ТОРГОВЫЕ ПРЕДЛОЖЕНИЯ\n★ Гарантия 2 года\n"
	assert.Equal(t, want, got)
}

func TestFormatReportDefaults(t *testing.T) {
	got := FormatReport(&Profile{}, product.Basic{})
	want := "=== ПОЛНЫЙ АНАЛИЗ ТОВАРА ===\n\n" +
		"📦 ТОЧНОЕ НАЗВАНИЕ\nНе указано\n\n" +
		"💰 ЦЕНА: Уточняйте\n🏷️ БРЕНД: Не указан\n\n" +
		"📝 ПОДРОБНОЕ ОПИСАНИЕ\nОписание не найдено\n\n" +
		"✨ КЛЮЧЕВЫЕ ОСОБЕННОСТИ\n" +
		"\n🎯 ПРЕИМУЩЕСТВА\n" +
		"\n👥 ЦЕЛЕВАЯ АУДИТОРИЯ\nНе определена\n"
	assert.Equal(t, want, got)

	got = FormatReport(&Profile{}, product.Basic{Name: "Дрель"})
	assert.Contains(t, got, "📦 ТОЧНОЕ НАЗВАНИЕ\nДрель\n")
}

func TestFormatReportCapsLSI(t *testing.T) {
	lsi := make([]string, 20)
	for i := range lsi {
		lsi[i] = "фраза"
	}
	got := FormatReport(&Profile{LSIPhrases: lsi}, product.Basic{})
	assert.True(t, strings.HasSuffix(got, strings.TrimSuffix(strings.Repeat("фраза, ", MaxLSIPhrases), ", ")))
}

func TestFormatReportNilProfile(t *testing.T) {
	basic := product.Basic{Name: "Дрель"}
	assert.Equal(t, FormatBasic(basic), FormatReport(nil, basic))
}

func TestFormatBasic(t *testing.T) {
	got := FormatBasic(product.Basic{
		Name:           "Дрель",
		Specifications: []string{"Мощность: 600 Вт", "Вес: 1.8 кг"},
	})
	want := "Название: Дрель\nБренд: Не указан\nЦена: Не указана\n\n" +
		"Описание:\nНе найдено\n\n" +
		"Характеристики:\nМощность: 600 Вт\nВес: 1.8 кг\n"
	assert.Equal(t, want, got)
}
