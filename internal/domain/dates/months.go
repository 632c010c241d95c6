package dates

import (
	"strings"
	"time"
)

var quarterLabels = [4]string{"Jan–Mar", "Apr–Jun", "Jul–Sep", "Oct–Dec"}

// ParseMonth accepts a full or three-letter English month name in any case.
func ParseMonth(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m, true
		}
	}
	return 0, false
}

// QuarterOfMonth returns the calendar quarter (1-4) holding m.
func QuarterOfMonth(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// QuarterOf returns the calendar quarter of t.
func QuarterOf(t time.Time) int {
	return QuarterOfMonth(t.Month())
}

// CalendarQuarter maps a month name to its calendar quarter, or 0 when the
// name is not a month.
func CalendarQuarter(month string) int {
	m, ok := ParseMonth(month)
	if !ok {
		return 0
	}
	return QuarterOfMonth(m)
}

// QuarterLabel returns the short label of calendar quarter q, e.g. "Jan–Mar".
func QuarterLabel(q int) string {
	if q < 1 || q > 4 {
		return ""
	}
	return quarterLabels[q-1]
}

// MonthsOfQuarter lists the full month names of calendar quarter q.
func MonthsOfQuarter(q int) []string {
	if q < 1 || q > 4 {
		return nil
	}
	first := time.Month((q-1)*3 + 1)
	return []string{first.String(), (first + 1).String(), (first + 2).String()}
}

// QuarterMonths returns the months of the calendar quarter that contains
// month, with its label. An unknown name comes back alone with no label.
func QuarterMonths(month string) ([]string, string) {
	q := CalendarQuarter(month)
	if q == 0 {
		return []string{month}, ""
	}
	return MonthsOfQuarter(q), QuarterLabel(q)
}
