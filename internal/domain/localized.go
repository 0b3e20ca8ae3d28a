package domain

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

const vietnamese = 1

var (
	// Order matters: Match returns an index into this slice.
	supportedLanguages = []language.Tag{language.English, language.Vietnamese}
	languageMatcher    = language.NewMatcher(supportedLanguages)

	// displayZone is Asia/Bangkok (UTC+7, no DST).
	displayZone = time.FixedZone("ICT", 7*60*60)
)

// Localized is a field stored in English and Vietnamese.
type Localized struct {
	EN string `json:"en"`
	VI string `json:"vi"`
}

// In returns the value for the best match of the accepted languages, e.g. an
// Accept-Language header or "vi". Falls back to the other language when the
// matched one is empty.
func (l Localized) In(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	_, idx, _ := languageMatcher.Match(tags...)

	primary, secondary := l.EN, l.VI
	if idx == vietnamese {
		primary, secondary = l.VI, l.EN
	}
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return secondary
}

// FormatDate renders an API timestamp the way the admin screens display it.
// Unparsable input is returned unchanged; empty input yields "".
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(displayZone).Format("02-01-2006 lúc 15:04:05")
		}
	}
	return raw
}
