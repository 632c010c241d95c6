package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/job"
)

// The job store writes rollover quarters as calendar ranges.
var calendarRanges = [4]string{"JAN-MAR", "APR-JUN", "JUL-SEP", "OCT-DEC"}

func labelNumber(label string) int {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) != 2 || label[0] != 'Q' || label[1] < '1' || label[1] > '4' {
		return 0
	}
	return int(label[1] - '0')
}

// currentLabel is the client's own number for the calendar quarter holding
// now. Without a declared current quarter it is derived from the year end;
// without either it is the calendar number.
func currentLabel(c job.Client, now time.Time) int {
	if n := labelNumber(c.CurrentQuarter); n > 0 {
		return n
	}
	if end, ok := dates.ParseMonth(c.YearEnd); ok {
		firstQuarter := dates.QuarterOfMonth(end%12 + 1)
		return mod4(dates.QuarterOf(now)-firstQuarter) + 1
	}
	return dates.QuarterOf(now)
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}

// TranslateQuarterLabel names calendar quarter q (1-4) in the client's own
// quarter labels, using the fixed offset between the calendar quarter of now
// and the client's declared current quarter.
func TranslateQuarterLabel(c job.Client, q int, now time.Time) string {
	offset := currentLabel(c, now) - dates.QuarterOf(now)
	return fmt.Sprintf("Q%d", mod4(q-1+offset)+1)
}

// RolloverVisible reports whether the rollover credit applies to the viewed
// quarter. It needs a positive rollover and a matching use-in label, given
// either in the client's labels ("Q4") or as a calendar range ("JAN-MAR").
func RolloverVisible(c job.Client, view View, now time.Time) bool {
	if c.Rollover <= 0 {
		return false
	}
	q := dates.CalendarQuarter(view.Month)
	if q == 0 {
		return false
	}
	useIn := strings.TrimSpace(c.RolloverUseIn)
	if useIn == "" {
		return false
	}
	return useIn == TranslateQuarterLabel(c, q, now) || strings.EqualFold(useIn, calendarRanges[q-1])
}
