package tracker

import (
	"math"
	"slices"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/job"
)

const highUsagePercent = 80

// fiscalOrder ranks months from October, the agency's financial year start.
var fiscalOrder = []time.Month{
	time.October, time.November, time.December,
	time.January, time.February, time.March,
	time.April, time.May, time.June,
	time.July, time.August, time.September,
}

func fiscalPosition(month string) int {
	m, ok := dates.ParseMonth(month)
	if !ok {
		return -1
	}
	return slices.Index(fiscalOrder, m)
}

// Months returns the months covered by view.
func Months(view View) []string {
	if !view.Quarter {
		return []string{view.Month}
	}
	months, _ := dates.QuarterMonths(view.Month)
	return months
}

func sameMonth(a, b string) bool {
	ma, okA := dates.ParseMonth(a)
	mb, okB := dates.ParseMonth(b)
	if okA && okB {
		return ma == mb
	}
	return a == b
}

func inMonths(month string, months []string) bool {
	for _, m := range months {
		if sameMonth(month, m) {
			return true
		}
	}
	return false
}

// MonthSpend sums the Project budget items of one month. Extra budget and
// Project on us spend never counts against the committed amount.
func MonthSpend(items []LineItem, month string) float64 {
	total := 0.0
	for _, it := range items {
		if it.SpendType == SpendProjectBudget && sameMonth(it.Month, month) {
			total += it.Spend
		}
	}
	return total
}

// QuarterSpend sums MonthSpend over the calendar quarter holding month.
func QuarterSpend(items []LineItem, month string) float64 {
	months, _ := dates.QuarterMonths(month)
	total := 0.0
	for _, m := range months {
		total += MonthSpend(items, m)
	}
	return total
}

// Summarize computes the budget card for a client and view.
func Summarize(c job.Client, items []LineItem, view View, now time.Time) Summary {
	months := Months(view)
	spend := MonthSpend(items, view.Month)
	period := view.Month
	if view.Quarter {
		spend = QuarterSpend(items, view.Month)
	}

	q := dates.CalendarQuarter(view.Month)
	quarterLabel := ""
	if q > 0 {
		quarterLabel = TranslateQuarterLabel(c, q, now)
		if view.Quarter {
			period = quarterLabel + " (" + dates.QuarterLabel(q) + ")"
		}
	}

	budget := c.Committed * float64(len(months))
	s := Summary{
		Client:       c.Code,
		ClientName:   job.DisplayName(c),
		Period:       period,
		Months:       months,
		Budget:       budget,
		Spend:        spend,
		Remaining:    budget - spend,
		Over:         spend > budget,
		QuarterLabel: quarterLabel,
	}
	if budget > 0 {
		ratio := spend / budget * 100
		s.Progress = math.Min(ratio, 100)
		s.PercentUsed = int(math.Round(ratio))
	}
	switch {
	case s.Over:
		s.Level = LevelOver
	case s.PercentUsed > highUsagePercent:
		s.Level = LevelHigh
	default:
		s.Level = LevelOK
	}
	if RolloverVisible(c, view, now) {
		s.ShowRollover = true
		s.Rollover = c.Rollover
		s.RolloverUseIn = c.RolloverUseIn
	}
	return s
}

// SpendToDate sums a job's spend in the months strictly before month, in
// October-first order.
func SpendToDate(items []LineItem, jobNumber, month string) float64 {
	pos := fiscalPosition(month)
	if pos < 0 {
		return 0
	}
	total := 0.0
	for _, it := range items {
		if it.JobNumber != jobNumber {
			continue
		}
		if p := fiscalPosition(it.Month); p >= 0 && p < pos {
			total += it.Spend
		}
	}
	return total
}

// Rows builds the project table. Month rows carry spend to date and can be
// edited. Quarter rows merge items sharing job number and project name and
// are read-only. Retainer rows (suffix 000) always sort last.
func Rows(items []LineItem, view View) []Row {
	months := Months(view)

	var rows []Row
	if view.Quarter {
		index := make(map[[2]string]int)
		for _, it := range items {
			if !inMonths(it.Month, months) {
				continue
			}
			key := [2]string{it.JobNumber, it.ProjectName}
			if i, ok := index[key]; ok {
				rows[i].Spend += it.Spend
				rows[i].Ballpark = rows[i].Ballpark || it.Ballpark
				if rows[i].Description == "" {
					rows[i].Description = it.Description
				}
				continue
			}
			merged := it
			merged.ID = ""
			merged.Month = ""
			index[key] = len(rows)
			rows = append(rows, Row{LineItem: merged, Grouped: true})
		}
	} else {
		for _, it := range items {
			if !inMonths(it.Month, months) {
				continue
			}
			rows = append(rows, Row{
				LineItem:    it,
				SpendToDate: SpendToDate(items, it.JobNumber, view.Month),
				Editable:    true,
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		ra, rb := retainerRank(a.JobNumber), retainerRank(b.JobNumber)
		return ra - rb
	})
	if rows == nil {
		rows = []Row{}
	}
	return rows
}

func retainerRank(jobNumber string) int {
	if job.Suffix(jobNumber) == "000" {
		return 1
	}
	return 0
}
