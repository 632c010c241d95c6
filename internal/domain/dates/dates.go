// Package dates holds the date helpers shared by the job board and the
// tracker. Every function takes the reference time explicitly and treats the
// zero time.Time as an absent date.
package dates

import (
	"math"
	"strings"
	"time"
)

// Sentinel is returned by the day-count helpers when the date is absent, so
// undated jobs sort after every dated one.
const Sentinel = 999

const day = 24 * time.Hour

var inputLayouts = []string{
	"2006-01-02",
	"2/1/2006",
}

// Parse reads a wire date. It accepts ISO dates, RFC 3339 timestamps and
// D/M/YYYY. Empty input, "TBC" and anything unparseable yield the zero time.
func Parse(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "tbc") {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc)
	}
	return time.Time{}
}

// Midnight truncates t to the start of its day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntilDue rounds the time left before due up to whole days.
func DaysUntilDue(due, now time.Time) int {
	if due.IsZero() {
		return Sentinel
	}
	return int(math.Ceil(float64(due.Sub(now)) / float64(day)))
}

// DaysSinceUpdate rounds the time since updated down to whole days.
func DaysSinceUpdate(updated, now time.Time) int {
	if updated.IsZero() {
		return Sentinel
	}
	return int(math.Floor(float64(now.Sub(updated)) / float64(day)))
}

// DueDateLabel renders a due date the way job cards show it.
func DueDateLabel(due, now time.Time) string {
	if due.IsZero() {
		return "TBC"
	}
	today := Midnight(now)
	d := Midnight(due.In(now.Location()))
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case d.Before(today):
		return "Overdue"
	}
	return d.Format("Mon, 2 Jan")
}
