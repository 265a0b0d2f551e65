package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1Pattern    = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	tagPattern   = regexp.MustCompile(`<[^>]+>`)

	// brandPatterns are tried in order; matches from all of them are kept.
	brandPatterns = []brandPattern{
		{re: regexp.MustCompile(`(?i)"brand"[:\s]+"([^"]+)"`)},
		{re: regexp.MustCompile(`(?i)data-brand="([^"]+)"`)},
		{re: regexp.MustCompile(`(?i)"manufacturer"[:\s]+"([^"]+)"`)},
		{
			re:    regexp.MustCompile(`(?i)(Apple|Samsung|Xiaomi|Huawei|Sony|LG|Nokia|Realme|OPPO|Vivo|OnePlus|Google|Asus|Lenovo|Motorola|HTC|Honor|ZTE|Meizu|TCL)`),
			words: true,
		},
	}

	// pricePattern matches an amount followed by the rouble sign or its
	// abbreviation. Thousands are often separated by no-break spaces.
	pricePattern = regexp.MustCompile(`(\d[\d\s\x{00A0}\x{202F}]{3,})[\s\x{00A0}\x{202F}]*(?:₽|руб)`)

	wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// brandPattern captures a brand in group 1. With words set, a match only
// counts when it stands as a whole word.
type brandPattern struct {
	re    *regexp.Regexp
	words bool
}

// stopWords are frequent words that say nothing about a category.
var stopWords = map[string]bool{
	"этот": true, "того": true, "этого": true, "можно": true, "есть": true,
	"быть": true, "очень": true, "более": true, "самый": true, "который": true,
	"весь": true, "товар": true, "цена": true, "рубль": true, "купить": true,
}

const (
	minKeywordLen     = 4
	minKeywordCount   = 6
	keywordCandidates = 50
	maxKeywords       = 10
	minProductFloor   = 10
)

// PageTitle returns the trimmed contents of the first <title>.
func PageTitle(page string) string {
	if m := titlePattern.FindStringSubmatch(page); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// H1 returns the text of the first <h1> with nested tags removed.
func H1(page string) string {
	if m := h1Pattern.FindStringSubmatch(page); m != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
	}
	return ""
}

// Brands returns brand names found by brandPatterns, unique and in
// first-seen order. Trimmed candidates of one character or less are skipped.
func Brands(page string) []string {
	var brands []string
	seen := make(map[string]bool)
	for _, p := range brandPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(page, -1) {
			if p.words && !wordBounded(page, m[0], m[1]) {
				continue
			}
			b := strings.TrimSpace(page[m[2]:m[3]])
			if utf8.RuneCountInString(b) <= 1 || seen[b] {
				continue
			}
			seen[b] = true
			brands = append(brands, b)
		}
	}
	return brands
}

// EstimateProducts guesses the product count from price occurrences,
// assuming two prices per product card, never going below 10.
func EstimateProducts(page string) int {
	n := len(pricePattern.FindAllStringIndex(page, -1))
	if n == 0 {
		return minProductFloor
	}
	return max(n/2, minProductFloor)
}

// Keywords returns up to 10 frequent Russian words from the page.
// Ties keep the order of first appearance.
func Keywords(page string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(page), -1) {
		if !isCyrillicWord(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > keywordCandidates {
		order = order[:keywordCandidates]
	}

	keywords := make([]string, 0, maxKeywords)
	for _, w := range order {
		if stopWords[w] || counts[w] < minKeywordCount {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// isCyrillicWord reports whether w is at least four lowercase Russian letters.
func isCyrillicWord(w string) bool {
	if utf8.RuneCountInString(w) < minKeywordLen {
		return false
	}
	for _, r := range w {
		if (r < 'а' || r > 'я') && r != 'ё' {
			return false
		}
	}
	return true
}

// wordBounded reports whether s[start:end] has no word character directly
// before or after it. RE2's \b only knows ASCII, so "Appleфон" would
// otherwise yield "Apple".
func wordBounded(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
