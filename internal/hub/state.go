package hub

import (
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/wip"
)

// ViewState is what one session is looking at.
type ViewState struct {
	View          session.View `json:"view"`
	WipMode       wip.Mode     `json:"wipMode"`
	WipClient     string       `json:"wipClient"`
	TrackerClient string       `json:"trackerClient"`
	Month         string       `json:"month"`
	Quarter       bool         `json:"quarter"`
}

// ViewUpdate is a partial ViewState change. Nil fields are left alone.
type ViewUpdate struct {
	View          *session.View `json:"view,omitempty"`
	WipMode       *wip.Mode     `json:"wipMode,omitempty"`
	WipClient     *string       `json:"wipClient,omitempty"`
	TrackerClient *string       `json:"trackerClient,omitempty"`
	Month         *string       `json:"month,omitempty"`
	Quarter       *bool         `json:"quarter,omitempty"`
}
