package session

import (
	"net/url"
	"strings"
	"sync"
)

// View is a top-level screen of the hub.
type View string

const (
	ViewHome    View = "home"
	ViewWip     View = "wip"
	ViewTracker View = "tracker"
)

// Valid reports whether v names a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewWip, ViewTracker:
		return true
	}
	return false
}

// CurrentMonth is the month value that resolves to today's month.
const CurrentMonth = "current"

// deepLinkKeys are the query parameters a deep link may carry.
var deepLinkKeys = []string{"view", "client", "job", "month", "quarter"}

// DeepLink pre-selects a view and its filters on load. Job is captured but
// nothing acts on it yet.
type DeepLink struct {
	View    View   `json:"view,omitempty"`
	Client  string `json:"client,omitempty"`
	Job     string `json:"job,omitempty"`
	Month   string `json:"month,omitempty"`
	Quarter bool   `json:"quarter,omitempty"`
}

// Empty reports whether the link selects nothing.
func (d DeepLink) Empty() bool {
	return d == DeepLink{}
}

// Applied is a deep link handed over once a session exists. Query is the
// page query left after the deep-link parameters are stripped, which the
// page shows in place of the original URL.
type Applied struct {
	DeepLink
	Query url.Values
}

// Pending is a captured deep link waiting for a session. It is applied at
// most once.
type Pending struct {
	mu    sync.Mutex
	link  DeepLink
	query url.Values
	used  bool
}

// CaptureDeepLink records the deep-link parameters of a query without
// applying them. An unknown view is dropped.
func CaptureDeepLink(q url.Values) *Pending {
	var d DeepLink
	if v := View(strings.ToLower(q.Get("view"))); v.Valid() {
		d.View = v
	}
	d.Client = strings.ToUpper(strings.TrimSpace(q.Get("client")))
	d.Job = strings.TrimSpace(q.Get("job"))
	d.Month = strings.TrimSpace(q.Get("month"))
	d.Quarter = q.Get("quarter") == "true"

	cp := url.Values{}
	for k, vs := range q {
		cp[k] = append([]string(nil), vs...)
	}
	return &Pending{link: d, query: cp}
}

// Apply hands over the deep link and the query with its deep-link
// parameters stripped. Later calls, and calls on a nil or empty capture,
// report false.
func (p *Pending) Apply() (DeepLink, url.Values, bool) {
	if p == nil {
		return DeepLink{}, nil, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used || p.link.Empty() {
		return DeepLink{}, nil, false
	}
	p.used = true
	return p.link, StripDeepLink(p.query), true
}

// StripDeepLink returns a copy of q without deep-link parameters.
func StripDeepLink(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	for _, k := range deepLinkKeys {
		out.Del(k)
	}
	return out
}
