package invoice

import (
	"regexp"
	"strings"
	"time"

	"github.com/zombor/invoice-tracker/internal/document"
)

type monthName struct {
	re      *regexp.Regexp
	english string
}

func germanMonth(de, en string) monthName {
	return monthName{re: regexp.MustCompile(`\b` + de + `\b`), english: en}
}

// germanMonths maps German month names to English ones. Matching is
// case-sensitive and bound to whole words.
var germanMonths = []monthName{
	germanMonth("Januar", "January"),
	germanMonth("Februar", "February"),
	germanMonth("März", "March"),
	germanMonth("April", "April"),
	germanMonth("Mai", "May"),
	germanMonth("Juni", "June"),
	germanMonth("Juli", "July"),
	germanMonth("August", "August"),
	germanMonth("September", "September"),
	germanMonth("Oktober", "October"),
	germanMonth("November", "November"),
	germanMonth("Dezember", "December"),
}

// dateLayouts are tried in order and the first successful parse wins.
// Day-first numeric dates come before month-first ones, which keeps
// canonical output stable when fed back in.
var dateLayouts = []string{
	"2. January 2006",
	"Jan 2, 2006",
	"2/1/2006",
	"2006-1-2",
	"1/2/2006",
	"January 2, 2006",
}

const canonicalDateLayout = "02/01/2006"

// NormalizeDate renders a raw date as DD/MM/YYYY, or InvalidDate when it is
// absent or matches none of the known layouts
func NormalizeDate(raw *string) string {
	if raw == nil {
		return InvalidDate
	}

	s := strings.TrimSpace(document.NormalizeText(*raw))
	for _, m := range germanMonths {
		s = m.re.ReplaceAllString(s, m.english)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout)
		}
	}
	return InvalidDate
}
