package valuation

import (
	"strings"
	"time"
)

var orderTimeLayouts = []string{
	"2006/01/02 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
}

var orderDateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
}

// ParseOrderTime parses a bill timestamp. Date-only values parse to
// midnight, which keeps them before the 15:00 NAV cutoff. Returns false
// when nothing matches.
func ParseOrderTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return ParseOrderDate(s)
}

// ParseOrderDate parses only the date part of a bill timestamp.
func ParseOrderDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
