package tracker

import "github.com/MGhunch/dot-hub/internal/domain/job"

// SpendType classifies a line item.
type SpendType string

const (
	SpendProjectBudget SpendType = "Project budget"
	SpendExtraBudget   SpendType = "Extra budget"
	SpendProjectOnUs   SpendType = "Project on us"
)

// LineItem is one spend record.
type LineItem struct {
	ID          string    `json:"id"`
	Client      string    `json:"client"`
	JobNumber   string    `json:"jobNumber"`
	ProjectName string    `json:"projectName"`
	Owner       string    `json:"owner,omitempty"`
	Description string    `json:"description,omitempty"`
	Spend       float64   `json:"spend"`
	Month       string    `json:"month"`
	SpendType   SpendType `json:"spendType"`
	Ballpark    bool      `json:"ballpark"`
}

// View is the period being looked at.
type View struct {
	Month   string `json:"month"`
	Quarter bool   `json:"quarter"`
}

// Level buckets how much of the budget is used.
type Level string

const (
	LevelOK   Level = "ok"
	LevelHigh Level = "high"
	LevelOver Level = "over"
)

// Summary is the headline budget card.
type Summary struct {
	Client        string   `json:"client"`
	ClientName    string   `json:"clientName"`
	Period        string   `json:"period"`
	Months        []string `json:"months"`
	Budget        float64  `json:"budget"`
	Spend         float64  `json:"spend"`
	Remaining     float64  `json:"remaining"`
	Over          bool     `json:"isOver"`
	Progress      float64  `json:"progress"`
	PercentUsed   int      `json:"percentUsed"`
	Level         Level    `json:"level"`
	QuarterLabel  string   `json:"quarterLabel"`
	ShowRollover  bool     `json:"showRollover"`
	Rollover      float64  `json:"rollover,omitempty"`
	RolloverUseIn string   `json:"rolloverUseIn,omitempty"`
}

// Row is one line of the project table.
type Row struct {
	LineItem
	SpendToDate float64 `json:"spendToDate"`
	Grouped     bool    `json:"grouped"`
	Editable    bool    `json:"editable"`
}

// Patch is a partial line item update. Nil fields are left alone.
type Patch struct {
	Description *string    `json:"description,omitempty"`
	Spend       *float64   `json:"spend,omitempty"`
	Month       *string    `json:"month,omitempty"`
	SpendType   *SpendType `json:"spendType,omitempty"`
	Ballpark    *bool      `json:"ballpark,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Spend == nil && p.Month == nil && p.SpendType == nil && p.Ballpark == nil
}

// Dashboard bundles everything the tracker view renders.
type Dashboard struct {
	Client  job.Client `json:"client"`
	View    View       `json:"view"`
	Summary Summary    `json:"summary"`
	Rows    []Row      `json:"rows"`
	PDFURL  string     `json:"pdfUrl,omitempty"`
}
