package job

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
)

var (
	farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	epoch     = time.Unix(0, 0).UTC()
)

// Search weights per field.
const (
	weightJobNumber   = 20
	weightJobName     = 10
	weightDescription = 5
	weightUpdate      = 2
)

// Filter returns the jobs matching mods, sorted. The input is never modified
// and the result holds copies.
//
// Without a Status modifier only In Progress jobs are returned.
// IncludeAllStatuses turns status filtering off, including an explicit
// Status. Unknown enum values apply no filter.
func Filter(jobs []Job, mods Modifiers, opts FilterOptions) []Job {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := now.Location()

	status := mods.Status
	if !status.Valid() || opts.IncludeAllStatuses {
		status = ""
	}
	bound, bounded := dueBound(mods.DateRange, dates.Midnight(now))

	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if mods.Client != "" && j.ClientCode != mods.Client {
			continue
		}
		if status != "" && j.Status != status {
			continue
		}
		if status == "" && !opts.IncludeAllStatuses && j.Status != StatusInProgress {
			continue
		}
		if mods.WithClient != nil && j.WithClient != *mods.WithClient {
			continue
		}
		if bounded {
			due := j.Due(loc)
			if due.IsZero() || dates.Midnight(due).After(bound) {
				continue
			}
		}
		out = append(out, j.Clone())
	}

	sortJobs(out, mods.SortBy, mods.SortOrder, loc)
	return out
}

func dueBound(r DateRange, today time.Time) (time.Time, bool) {
	switch r {
	case RangeToday:
		return today, true
	case RangeTomorrow:
		return today.AddDate(0, 0, 1), true
	case RangeWeek:
		return today.AddDate(0, 0, 7), true
	}
	return time.Time{}, false
}

func sortJobs(jobs []Job, by SortField, order SortOrder, loc *time.Location) {
	var compare func(a, b Job) int
	switch by {
	case SortUpdated:
		compare = func(a, b Job) int {
			return orZero(a.Updated(loc), epoch).Compare(orZero(b.Updated(loc), epoch))
		}
	case SortJobNumber:
		compare = func(a, b Job) int { return cmp.Compare(a.JobNumber, b.JobNumber) }
	default:
		compare = func(a, b Job) int {
			return orZero(a.Due(loc), farFuture).Compare(orZero(b.Due(loc), farFuture))
		}
	}
	if order == SortDesc {
		asc := compare
		compare = func(a, b Job) int { return asc(b, a) }
	}
	slices.SortStableFunc(jobs, compare)
}

func orZero(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

// Search scores every job of the modifier's client, in any status, against
// terms and returns the hits best first. Ties keep input order. With no
// terms it returns all of the client's jobs in due-date order.
func Search(jobs []Job, mods Modifiers, terms []string) []Job {
	if len(terms) == 0 {
		return Filter(jobs, Modifiers{Client: mods.Client}, FilterOptions{IncludeAllStatuses: true})
	}

	type scored struct {
		job   Job
		score int
	}

	var hits []scored
	for _, j := range jobs {
		if mods.Client != "" && j.ClientCode != mods.Client {
			continue
		}
		if s := Score(j, terms); s > 0 {
			hits = append(hits, scored{job: j.Clone(), score: s})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int { return cmp.Compare(b.score, a.score) })

	out := make([]Job, len(hits))
	for i, h := range hits {
		out[i] = h.job
	}
	return out
}

// Score sums the weighted, case-insensitive substring hits of terms in j.
func Score(j Job, terms []string) int {
	number := strings.ToLower(j.JobNumber)
	name := strings.ToLower(j.JobName)
	desc := strings.ToLower(j.Description)
	update := strings.ToLower(j.Update)

	score := 0
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(number, term) {
			score += weightJobNumber
		}
		if strings.Contains(name, term) {
			score += weightJobName
		}
		if strings.Contains(desc, term) {
			score += weightDescription
		}
		if strings.Contains(update, term) {
			score += weightUpdate
		}
	}
	return score
}
