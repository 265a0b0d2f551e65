package catalog

import (
	"fmt"
	"strings"
)

const (
	descriptionBrands   = 5
	descriptionKeywords = 5
)

const descriptionBody = `

Широкий ассортимент качественной продукции с доставкой по России. В нашем каталоге вы найдёте проверенные товары от надёжных производителей.

Ключевые особенности:
• Большой выбор моделей и брендов
• Актуальные цены и характеристики
• Гарантия качества на все товары
• Быстрая доставка по всей России
• Профессиональная консультация

Популярные запросы: `

const descriptionCallToAction = `

Оформите заказ онлайн или получите консультацию наших специалистов!`

// Describe writes the category description for categoryName from a.
func Describe(categoryName string, a *Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "В категории %s представлено %d товаров.", categoryName, a.TotalProducts)
	if len(a.Brands) > 0 {
		b.WriteString(" Популярные бренды: ")
		b.WriteString(strings.Join(capped(a.Brands, descriptionBrands), ", "))
		b.WriteString(".")
	}
	b.WriteString(descriptionBody)
	b.WriteString(strings.Join(capped(a.Keywords, descriptionKeywords), " "))
	b.WriteString(descriptionCallToAction)
	return b.String()
}
