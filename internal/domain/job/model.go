package job

import (
	"strings"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusIncoming   Status = "Incoming"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusCompleted  Status = "Completed"
	StatusArchived   Status = "Archived"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIncoming, StatusInProgress, StatusOnHold, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Stage is where the work sits in the studio process.
type Stage string

const (
	StageClarify  Stage = "Clarify"
	StageSimplify Stage = "Simplify"
	StageCraft    Stage = "Craft"
	StageRefine   Stage = "Refine"
	StageDeliver  Stage = "Deliver"
)

// Job is one unit of client work as served by the job store.
type Job struct {
	JobNumber     string   `json:"jobNumber"`
	JobName       string   `json:"jobName"`
	ClientCode    string   `json:"clientCode"`
	Status        Status   `json:"status"`
	Stage         Stage    `json:"stage,omitempty"`
	UpdateDue     string   `json:"updateDue,omitempty"`
	LiveDate      string   `json:"liveDate,omitempty"`
	LastUpdated   string   `json:"lastUpdated,omitempty"`
	Update        string   `json:"update,omitempty"`
	UpdateHistory []string `json:"updateHistory,omitempty"`
	Description   string   `json:"description,omitempty"`
	ProjectOwner  string   `json:"projectOwner,omitempty"`
	WithClient    bool     `json:"withClient"`
	ChannelURL    string   `json:"channelUrl,omitempty"`
}

// Suffix returns the numeric part of the job number ("ONE 042" -> "042").
func (j Job) Suffix() string {
	return Suffix(j.JobNumber)
}

// Due parses UpdateDue, returning the zero time when it is absent.
func (j Job) Due(loc *time.Location) time.Time {
	return dates.Parse(j.UpdateDue, loc)
}

// Updated parses LastUpdated, returning the zero time when it is absent.
func (j Job) Updated(loc *time.Location) time.Time {
	return dates.Parse(j.LastUpdated, loc)
}

// Clone returns a copy that shares no slices with j.
func (j Job) Clone() Job {
	if j.UpdateHistory != nil {
		j.UpdateHistory = append([]string(nil), j.UpdateHistory...)
	}
	return j
}

// Suffix returns everything after the first space of a job number.
func Suffix(jobNumber string) string {
	_, after, found := strings.Cut(jobNumber, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

// IsPlaceholder reports whether the job number uses one of the synthetic
// categories that never appear on the board.
func IsPlaceholder(jobNumber string) bool {
	switch Suffix(jobNumber) {
	case "000", "999":
		return true
	}
	return false
}

// ClientCodeOf returns the client prefix of a job number.
func ClientCodeOf(jobNumber string) string {
	before, _, _ := strings.Cut(jobNumber, " ")
	return before
}

// Client is a customer account. The budget fields are only filled by the
// tracker endpoints.
type Client struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Committed      float64 `json:"committed,omitempty"`
	Rollover       float64 `json:"rollover,omitempty"`
	RolloverUseIn  string  `json:"rolloverUseIn,omitempty"`
	YearEnd        string  `json:"yearEnd,omitempty"`
	CurrentQuarter string  `json:"currentQuarter,omitempty"`
}

// Person is a project owner candidate.
type Person struct {
	Name string `json:"name"`
}

// DateRange is a cumulative upper bound on the due date.
type DateRange string

const (
	RangeToday    DateRange = "today"
	RangeTomorrow DateRange = "tomorrow"
	RangeWeek     DateRange = "week"
	// RangeNext asks for the single next job. It applies no date bound.
	RangeNext DateRange = "next"
)

// SortField selects the ordering key.
type SortField string

const (
	SortDueDate   SortField = "dueDate"
	SortUpdated   SortField = "updated"
	SortJobNumber SortField = "jobNumber"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Modifiers narrow and order a job list. Every field is optional.
type Modifiers struct {
	Client     string    `json:"client,omitempty"`
	Status     Status    `json:"status,omitempty"`
	WithClient *bool     `json:"withClient,omitempty"`
	DateRange  DateRange `json:"dateRange,omitempty"`
	SortBy     SortField `json:"sortBy,omitempty"`
	SortOrder  SortOrder `json:"sortOrder,omitempty"`
	Period     string    `json:"period,omitempty"`
}

// FilterOptions tune Filter.
type FilterOptions struct {
	IncludeAllStatuses bool
	Now                time.Time
}

// Patch is a partial job mutation sent to the job store.
type Patch struct {
	Stage      Stage  `json:"stage,omitempty"`
	Status     Status `json:"status,omitempty"`
	UpdateDue  string `json:"updateDue,omitempty"`
	LiveDate   string `json:"liveDate,omitempty"`
	WithClient *bool  `json:"withClient,omitempty"`
}

// Note is a free-text status update appended to a job's history.
type Note struct {
	ClientCode string `json:"clientCode"`
	JobNumber  string `json:"jobNumber"`
	Message    string `json:"message"`
}

// UpdateRequest is a status update posted from a job card.
type UpdateRequest struct {
	JobNumber string `json:"jobNumber"`
	Stage     Stage  `json:"stage,omitempty"`
	Status    Status `json:"status,omitempty"`
	UpdateDue string `json:"updateDue,omitempty"`
	LiveDate  string `json:"liveDate,omitempty"`
	Message   string `json:"message,omitempty"`
}
