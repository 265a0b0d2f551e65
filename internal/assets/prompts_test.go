package assets

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderEnrichmentPrompt(t *testing.T) {
	got := RenderEnrichmentPrompt(EnrichmentData{
		Name:  "Дрель Bosch GSB 13 RE",
		Brand: "Bosch",
		Price: "4 990 ₽",
		HTML:  "<h1>Дрель</h1>",
	})
	for _, want := range []string{
		"- Название: Дрель Bosch GSB 13 RE",
		"- Бренд: Bosch",
		"- Цена: 4 990 ₽",
		"HTML-фрагмент страницы:\n<h1>Дрель</h1>",
		`"selling_points"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEmbeddedAssetsPresent(t *testing.T) {
	if !strings.Contains(EnrichmentSystemPrompt, "SEO-копирайтингу") {
		t.Error("system prompt not embedded")
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(ProductProfileSchema), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("schema type = %v, want object", schema["type"])
	}
}
