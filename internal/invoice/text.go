package invoice

import (
	"regexp"
	"strings"
)

var (
	// Month words match any letters (\p{L}), not just A-Z, so "1. März 2024" is found
	textDateRe = regexp.MustCompile(`(?i)(Invoice\s*Date|Date)[:\s]*(\p{L}{3,9}\s\d{1,2},?\s\d{4}|(\d{1,2}/\d{1,2}/\d{4})|(\d{1,2}\.\s?\p{L}{3,9}\s\d{4}))`)
	textTotalRe = regexp.MustCompile(`(?i)(?:total|subtotal)\s*[:\-]?\s*([€£¥₹$]?\s?[\d,]+(?:\.\d{2})?)`)
)

// DateFromText returns the first labelled date found in the page texts
func DateFromText(pages []string) (string, bool) {
	return firstSubmatch(textDateRe, 2, pages)
}

// TotalFromText returns the first labelled total amount, currency symbol
// included, found in the page texts
func TotalFromText(pages []string) (string, bool) {
	return firstSubmatch(textTotalRe, 1, pages)
}

func firstSubmatch(re *regexp.Regexp, group int, pages []string) (string, bool) {
	for _, text := range pages {
		if text == "" {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m != nil {
			return strings.TrimSpace(m[group]), true
		}
	}
	return "", false
}
