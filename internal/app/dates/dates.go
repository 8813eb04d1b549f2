package dates

import (
	"time"

	"golang.org/x/text/language"
)

// NotAvailable is rendered for absent or unparsable dates.
const NotAvailable = "N/A"

var supported = []language.Tag{
	language.AmericanEnglish, // month first
	language.BritishEnglish,  // day first
	language.German,
	language.French,
	language.Spanish,
	language.Japanese, // year first
	language.Chinese,
	language.Korean,
}

var matcher = language.NewMatcher(supported)

// layoutFor resolves the day/month/year ordering for a BCP 47 locale tag.
// x/text carries no date rendering, so ordering maps onto three layouts.
func layoutFor(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "01/02/2006"
	}
	tag, _, _ = matcher.Match(tag)

	base, _ := tag.Base()
	switch base.String() {
	case "ja", "zh", "ko":
		return "2006/01/02"
	}

	if region, conf := tag.Region(); conf != language.No && region.String() == "US" {
		return "01/02/2006"
	}
	return "02/01/2006"
}

// Format renders a date using the locale's day/month/year ordering.
// A nil date renders as "N/A" — every date field is optional upstream.
func Format(t *time.Time, locale string) string {
	if t == nil {
		return NotAvailable
	}
	return t.Format(layoutFor(locale))
}

// PastDue reports whether a due date has passed relative to now. An absent
// due date is never past due.
func PastDue(due *time.Time, now time.Time) bool {
	if due == nil {
		return false
	}
	return due.Before(now)
}

// ParseISO parses an ISO-8601 timestamp or plain date, returning nil for
// anything unparsable.
func ParseISO(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
