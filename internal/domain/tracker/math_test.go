package tracker_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"pgregory.net/rapid"
)

// January 2026 sits in calendar Q1, which this client calls Q4.
var now = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func TestTranslateQuarterLabel(t *testing.T) {
	c := job.Client{Code: "SKY", CurrentQuarter: "Q4"}

	require.Equal(t, "Q4", tracker.TranslateQuarterLabel(c, 1, now))
	require.Equal(t, "Q1", tracker.TranslateQuarterLabel(c, 2, now))
	require.Equal(t, "Q2", tracker.TranslateQuarterLabel(c, 3, now))
	require.Equal(t, "Q3", tracker.TranslateQuarterLabel(c, 4, now))

	plain := job.Client{Code: "ACM"}
	require.Equal(t, "Q3", tracker.TranslateQuarterLabel(plain, 3, now))

	marchYearEnd := job.Client{Code: "TOW", YearEnd: "March"}
	require.Equal(t, "Q4", tracker.TranslateQuarterLabel(marchYearEnd, 1, now))
	require.Equal(t, "Q1", tracker.TranslateQuarterLabel(marchYearEnd, 2, now))
}

func TestSummarize_OverBudget(t *testing.T) {
	c := job.Client{Code: "ONE", Committed: 10000}
	items := []tracker.LineItem{
		{JobNumber: "ONE 010", Month: "January", Spend: 12000, SpendType: tracker.SpendProjectBudget},
		{JobNumber: "ONE 011", Month: "January", Spend: 5000, SpendType: tracker.SpendExtraBudget},
		{JobNumber: "ONE 012", Month: "January", Spend: 700, SpendType: tracker.SpendProjectOnUs},
	}

	s := tracker.Summarize(c, items, tracker.View{Month: "January"}, now)
	require.True(t, s.Over)
	require.Equal(t, 12000.0, s.Spend)
	require.Equal(t, 100.0, s.Progress)
	require.Equal(t, 120, s.PercentUsed)
	require.Equal(t, -2000.0, s.Remaining)
	require.Equal(t, tracker.LevelOver, s.Level)
	require.Equal(t, "-$2,000", tracker.FormatMoney(s.Remaining))
	require.Equal(t, "One NZ (Marketing)", s.ClientName)
}

func TestSummarize_QuarterAndZeroBudget(t *testing.T) {
	c := job.Client{Code: "SKY", Committed: 5000, CurrentQuarter: "Q4"}
	items := []tracker.LineItem{
		{Month: "January", Spend: 4000, SpendType: tracker.SpendProjectBudget},
		{Month: "March", Spend: 9000, SpendType: tracker.SpendProjectBudget},
		{Month: "April", Spend: 9000, SpendType: tracker.SpendProjectBudget},
	}

	s := tracker.Summarize(c, items, tracker.View{Month: "February", Quarter: true}, now)
	require.Equal(t, 15000.0, s.Budget)
	require.Equal(t, 13000.0, s.Spend)
	require.False(t, s.Over)
	require.Equal(t, tracker.LevelHigh, s.Level)
	require.Equal(t, "Q4 (Jan–Mar)", s.Period)

	s = tracker.Summarize(job.Client{Code: "ACM"}, items, tracker.View{Month: "January"}, now)
	require.Zero(t, s.Progress)
	require.True(t, s.Over)
}

func TestRolloverVisible(t *testing.T) {
	c := job.Client{Code: "SKY", CurrentQuarter: "Q4", Rollover: 2500, RolloverUseIn: "Q1"}

	require.True(t, tracker.RolloverVisible(c, tracker.View{Month: "May"}, now))
	require.False(t, tracker.RolloverVisible(c, tracker.View{Month: "February"}, now))

	c.Rollover = 0
	require.False(t, tracker.RolloverVisible(c, tracker.View{Month: "May"}, now))

	ranged := job.Client{Code: "TOW", Rollover: 100, RolloverUseIn: "JAN-MAR"}
	require.True(t, tracker.RolloverVisible(ranged, tracker.View{Month: "March", Quarter: true}, now))
	require.False(t, tracker.RolloverVisible(ranged, tracker.View{Month: "April"}, now))

	s := tracker.Summarize(ranged, nil, tracker.View{Month: "March"}, now)
	require.True(t, s.ShowRollover)
	require.Equal(t, 100.0, s.Rollover)
}

func TestRows_QuarterMergesItems(t *testing.T) {
	items := []tracker.LineItem{
		{ID: "a", JobNumber: "TOW 000", ProjectName: "Retainer", Month: "October", Spend: 100},
		{ID: "b", JobNumber: "TOW 010", ProjectName: "Campaign", Month: "October", Spend: 500},
		{ID: "c", JobNumber: "TOW 010", ProjectName: "Campaign", Month: "November", Spend: 700, Ballpark: true},
		{ID: "d", JobNumber: "TOW 011", ProjectName: "Launch", Month: "January", Spend: 900},
	}

	rows := tracker.Rows(items, tracker.View{Month: "November", Quarter: true})
	require.Len(t, rows, 2)
	require.Equal(t, "TOW 010", rows[0].JobNumber)
	require.Equal(t, 1200.0, rows[0].Spend)
	require.True(t, rows[0].Grouped)
	require.False(t, rows[0].Editable)
	require.True(t, rows[0].Ballpark)
	require.Equal(t, "TOW 000", rows[1].JobNumber)
}

func TestRows_MonthSpendToDate(t *testing.T) {
	items := []tracker.LineItem{
		{ID: "a", JobNumber: "TOW 010", Month: "October", Spend: 500},
		{ID: "b", JobNumber: "TOW 010", Month: "December", Spend: 300},
		{ID: "c", JobNumber: "TOW 010", Month: "January", Spend: 200},
		{ID: "d", JobNumber: "TOW 010", Month: "February", Spend: 50},
		{ID: "e", JobNumber: "TOW 011", Month: "November", Spend: 999},
	}

	rows := tracker.Rows(items, tracker.View{Month: "January"})
	require.Len(t, rows, 1)
	require.Equal(t, "c", rows[0].ID)
	require.Equal(t, 800.0, rows[0].SpendToDate)
	require.True(t, rows[0].Editable)
	require.False(t, rows[0].Grouped)

	require.Zero(t, tracker.SpendToDate(items, "TOW 010", "October"))
	require.Equal(t, 1050.0, tracker.SpendToDate(items, "TOW 010", "September"))
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "$0", tracker.FormatMoney(0))
	require.Equal(t, "$12,000", tracker.FormatMoney(12000))
	require.Equal(t, "$1,234.50", tracker.FormatMoney(1234.5))
	require.Equal(t, "-$750", tracker.FormatMoney(-750))
	require.Equal(t, "$12.5K", tracker.FormatShortMoney(12500))
	require.Equal(t, "$3K", tracker.FormatShortMoney(3000))
	require.Equal(t, "$800", tracker.FormatShortMoney(800))
}

func TestExport_WritesWorkbook(t *testing.T) {
	d := tracker.Dashboard{
		Client: job.Client{Code: "SKY", Name: "Sky"},
		View:   tracker.View{Month: "January"},
		Summary: tracker.Summary{
			ClientName: "Sky", Period: "January", Budget: 5000, Spend: 1200, Remaining: 3800, PercentUsed: 24,
		},
		Rows: []tracker.Row{{LineItem: tracker.LineItem{JobNumber: "SKY 010", ProjectName: "Promo", Month: "January", Spend: 1200, SpendType: tracker.SpendProjectBudget}}},
	}

	var buf bytes.Buffer
	require.NoError(t, tracker.Export(&buf, d))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows("Tracker")
	require.NoError(t, err)
	require.Equal(t, "Job", rows[0][0])
	require.Equal(t, "SKY 010", rows[1][0])
	require.Equal(t, "1200", rows[1][6])
	require.Equal(t, "Client", rows[3][0])
	require.Equal(t, "Sky", rows[3][1])
}

func TestQuarterSpend_PropertyEqualsMonthSum(t *testing.T) {
	types := []tracker.SpendType{tracker.SpendProjectBudget, tracker.SpendExtraBudget, tracker.SpendProjectOnUs}
	months := dates.MonthsOfQuarter(1)
	months = append(months, dates.MonthsOfQuarter(2)...)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		items := make([]tracker.LineItem, n)
		for i := range items {
			items[i] = tracker.LineItem{
				Month:     rapid.SampledFrom(months).Draw(t, "month"),
				Spend:     float64(rapid.IntRange(0, 20000).Draw(t, "spend")),
				SpendType: rapid.SampledFrom(types).Draw(t, "type"),
			}
		}
		month := rapid.SampledFrom(months).Draw(t, "viewed")
		quarterMonths, _ := dates.QuarterMonths(month)

		sum := 0.0
		for _, m := range quarterMonths {
			sum += tracker.MonthSpend(items, m)
		}
		require.Equal(t, sum, tracker.QuarterSpend(items, month))
	})
}

func TestRollover_PropertyIff(t *testing.T) {
	allMonths := append(append(append(dates.MonthsOfQuarter(1), dates.MonthsOfQuarter(2)...), dates.MonthsOfQuarter(3)...), dates.MonthsOfQuarter(4)...)

	rapid.Check(t, func(t *rapid.T) {
		c := job.Client{
			Code:           "SKY",
			CurrentQuarter: rapid.SampledFrom([]string{"Q1", "Q2", "Q3", "Q4"}).Draw(t, "current"),
			Rollover:       float64(rapid.IntRange(-1, 3).Draw(t, "rollover")),
			RolloverUseIn:  rapid.SampledFrom([]string{"Q1", "Q2", "Q3", "Q4"}).Draw(t, "useIn"),
		}
		month := rapid.SampledFrom(allMonths).Draw(t, "month")
		label := tracker.TranslateQuarterLabel(c, dates.CalendarQuarter(month), now)

		want := c.Rollover > 0 && label == c.RolloverUseIn
		require.Equal(t, want, tracker.RolloverVisible(c, tracker.View{Month: month}, now))
	})
}
