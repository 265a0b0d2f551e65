package enrich

import (
	"fmt"
	"strings"

	"github.com/fpang/seo-content-helper/internal/product"
)

// MaxLSIPhrases caps the LSI phrases printed in a report.
const MaxLSIPhrases = 15

// FormatReport renders the full copywriter report for a profile. A nil
// profile renders the basic fields only.
func FormatReport(p *Profile, basic product.Basic) string {
	if p == nil {
		return FormatBasic(basic)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== ПОЛНЫЙ АНАЛИЗ ТОВАРА ===\n\n📦 ТОЧНОЕ НАЗВАНИЕ\n%s\n\n",
		orDefault(p.FullName, orDefault(basic.Name, "Не указано")))
	fmt.Fprintf(&b, "💰 ЦЕНА: %s\n🏷️ БРЕНД: %s\n\n",
		orDefault(basic.Price, "Уточняйте"), orDefault(basic.Brand, "Не указан"))
	fmt.Fprintf(&b, "📝 ПОДРОБНОЕ ОПИСАНИЕ\n%s\n\n", orDefault(p.Description, "Описание не найдено"))

	b.WriteString("✨ КЛЮЧЕВЫЕ ОСОБЕННОСТИ\n")
	bullets(&b, "•", p.KeyFeatures)

	b.WriteString("\n🎯 ПРЕИМУЩЕСТВА\n")
	bullets(&b, "✓", p.Advantages)

	if len(p.Specifications) > 0 {
		b.WriteString("\n📊 ТЕХНИЧЕСКИЕ ХАРАКТЕРИСТИКИ\n")
		for _, g := range p.Specifications {
			fmt.Fprintf(&b, "\n%s:\n", g.Name)
			for _, param := range g.Params {
				fmt.Fprintf(&b, "  - %s: %s\n", param.Key, param.Value)
			}
		}
	}

	if v := p.VisualDetails; v != nil && *v != (VisualDetails{}) {
		b.WriteString("\n🎨 ВИЗУАЛЬНЫЕ ДЕТАЛИ\n")
		fmt.Fprintf(&b, "Цвет: %s\n", orDefault(v.Color, "Не указан"))
		fmt.Fprintf(&b, "Материал: %s\n", orDefault(v.Material, "Не указан"))
		fmt.Fprintf(&b, "Форм-фактор: %s\n", orDefault(v.FormFactor, "Не указан"))
	}

	fmt.Fprintf(&b, "\n👥 ЦЕЛЕВАЯ АУДИТОРИЯ\n%s\n", orDefault(p.TargetAudience, "Не определена"))

	if len(p.UseCases) > 0 {
		b.WriteString("\n💡 ПРИМЕРЫ ИСПОЛЬЗОВАНИЯ\n")
		bullets(&b, "•", p.UseCases)
	}

	if s := p.SEOMeta; s != nil && !s.empty() {
		b.WriteString("\n🔍 SEO-ОПТИМИЗАЦИЯ\n")
		fmt.Fprintf(&b, "Title: %s\n", s.Title)
		fmt.Fprintf(&b, "Description: %s\n", s.Description)
		fmt.Fprintf(&b, "H1: %s\n", s.H1)
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(s.Keywords, ", "))
	}

	if lsi := p.LSIPhrases; len(lsi) > 0 {
		b.WriteString("\n🔑 LSI-ФРАЗЫ ДЛЯ SEO\n")
		b.WriteString(strings.Join(lsi[:min(len(lsi), MaxLSIPhrases)], ", "))
	}

	if len(p.SellingPoints) > 0 {
		b.WriteString("\n\n💎 УНИКАЛЬНЫЕ ТОРГОВЫЕ ПРЕДЛОЖЕНИЯ\n")
		bullets(&b, "★", p.SellingPoints)
	}
	return b.String()
}

// FormatBasic renders the short summary used when no profile is available.
func FormatBasic(basic product.Basic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Название: %s\n", orDefault(basic.Name, "Не указано"))
	fmt.Fprintf(&b, "Бренд: %s\n", orDefault(basic.Brand, "Не указан"))
	fmt.Fprintf(&b, "Цена: %s\n\n", orDefault(basic.Price, "Не указана"))
	fmt.Fprintf(&b, "Описание:\n%s\n\n", orDefault(basic.Description, notFound))
	b.WriteString("Характеристики:\n")
	for _, spec := range basic.Specifications {
		b.WriteString(spec)
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *SEOMeta) empty() bool {
	return s.Title == "" && s.Description == "" && s.H1 == "" && len(s.Keywords) == 0
}

func bullets(b *strings.Builder, mark string, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "%s %s\n", mark, item)
	}
}
