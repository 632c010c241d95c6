package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/metrics"
	"github.com/goccy/go-json"
)

var (
	_ job.Backend         = (*Client)(nil)
	_ tracker.Backend     = (*Client)(nil)
	_ conversation.Intent = (*Client)(nil)
)

// Protocol selects the intent service contract.
type Protocol string

const (
	// ProtocolTraffic posts to /traffic and receives typed envelopes.
	ProtocolTraffic Protocol = "traffic"
	// ProtocolLegacy posts to /claude/parse on the API host and receives
	// parsed intents.
	ProtocolLegacy Protocol = "legacy"
)

// Options configure a Client.
type Options struct {
	APIBase     string
	TrafficBase string
	ProxyBase   string
	Protocol    Protocol
	// Timeout bounds each call. Zero means no timeout.
	Timeout time.Duration
	Logger  *slog.Logger
}

// StatusError is a non-2xx response from a collaborator.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.Endpoint, e.StatusCode)
}

// Client talks to the job store, tracker store, intent service and note
// proxy over HTTP.
type Client struct {
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
	roster     func() []job.Client
}

// New creates a client.
func New(opts Options) *Client {
	if opts.Protocol == "" {
		opts.Protocol = ProtocolTraffic
	}
	opts.APIBase = strings.TrimRight(opts.APIBase, "/")
	opts.TrafficBase = strings.TrimRight(opts.TrafficBase, "/")
	opts.ProxyBase = strings.TrimRight(opts.ProxyBase, "/")
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     logger,
	}
}

// WithRoster supplies the client list sent along with legacy questions.
func (c *Client) WithRoster(roster func() []job.Client) *Client {
	c.roster = roster
	return c
}

// Clients fetches the client list.
func (c *Client) Clients(ctx context.Context) ([]job.Client, error) {
	var out []job.Client
	if err := c.do(ctx, http.MethodGet, c.opts.APIBase, "/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Jobs fetches every job.
func (c *Client) Jobs(ctx context.Context) ([]job.Job, error) {
	var out []job.Job
	if err := c.do(ctx, http.MethodGet, c.opts.APIBase, "/jobs/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateJob applies a partial job mutation.
func (c *Client) UpdateJob(ctx context.Context, jobNumber string, patch job.Patch) error {
	path := "/job/" + url.PathEscape(jobNumber) + "/update"
	return c.do(ctx, http.MethodPost, c.opts.APIBase, path, patch, nil)
}

// AppendNote posts a free-text update through the note proxy.
func (c *Client) AppendNote(ctx context.Context, note job.Note) error {
	return c.do(ctx, http.MethodPost, c.opts.ProxyBase, "/proxy/update", note, nil)
}

// People lists owner candidates for a client.
func (c *Client) People(ctx context.Context, clientCode string) ([]job.Person, error) {
	var out []job.Person
	if err := c.do(ctx, http.MethodGet, c.opts.APIBase, "/people/"+url.PathEscape(clientCode), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrackerClients fetches the client budget profiles.
func (c *Client) TrackerClients(ctx context.Context) ([]job.Client, error) {
	var out []job.Client
	if err := c.do(ctx, http.MethodGet, c.opts.APIBase, "/tracker/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrackerData fetches a client's spend line items.
func (c *Client) TrackerData(ctx context.Context, clientCode string) ([]tracker.LineItem, error) {
	var out []tracker.LineItem
	path := "/tracker/data?" + url.Values{"client": {clientCode}}.Encode()
	if err := c.do(ctx, http.MethodGet, c.opts.APIBase, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type trackerUpdate struct {
	ID string `json:"id"`
	tracker.Patch
}

// UpdateTrackerItem applies a partial line item mutation.
func (c *Client) UpdateTrackerItem(ctx context.Context, id string, patch tracker.Patch) error {
	return c.do(ctx, http.MethodPost, c.opts.APIBase, "/tracker/update", trackerUpdate{ID: id, Patch: patch}, nil)
}

type legacyAsk struct {
	Question  string       `json:"question"`
	Clients   []rosterItem `json:"clients"`
	SessionID string       `json:"sessionId"`
}

type rosterItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type clearRequest struct {
	SessionID string `json:"sessionId"`
}

// Ask sends a question to the intent service and returns the raw reply.
func (c *Client) Ask(ctx context.Context, req conversation.Request) ([]byte, error) {
	if c.opts.Protocol == ProtocolLegacy {
		body := legacyAsk{Question: req.Content, SessionID: req.SessionID, Clients: []rosterItem{}}
		if c.roster != nil {
			for _, cl := range c.roster() {
				body.Clients = append(body.Clients, rosterItem{Code: cl.Code, Name: cl.Name})
			}
		}
		return c.raw(ctx, c.opts.APIBase, "/claude/parse", body)
	}
	return c.raw(ctx, c.opts.TrafficBase, "/traffic", req)
}

// Clear drops the intent service's memory of a session.
func (c *Client) Clear(ctx context.Context, sessionID string) error {
	if c.opts.Protocol == ProtocolLegacy {
		return c.do(ctx, http.MethodPost, c.opts.APIBase, "/claude/clear", clearRequest{SessionID: sessionID}, nil)
	}
	return c.do(ctx, http.MethodPost, c.opts.TrafficBase, "/traffic/clear", clearRequest{SessionID: sessionID}, nil)
}

func (c *Client) do(ctx context.Context, method, base, path string, in, out any) error {
	body, err := c.call(ctx, method, base, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", endpointName(path), err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, base, path string, in any) ([]byte, error) {
	return c.call(ctx, http.MethodPost, base, path, in)
}

func (c *Client) call(ctx context.Context, method, base, path string, in any) ([]byte, error) {
	endpoint := endpointName(path)
	if base == "" {
		return nil, fmt.Errorf("%s: no base URL configured", endpoint)
	}

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", endpoint, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		metrics.RecordBackendCall(endpoint, "error", latency)
		c.logger.Debug("backend call failed", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordBackendCall(endpoint, strconv.Itoa(resp.StatusCode), latency)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("backend call rejected", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// endpointName turns a request path into a low-cardinality metric label.
func endpointName(path string) string {
	path, _, _ = strings.Cut(path, "?")
	switch {
	case strings.HasPrefix(path, "/job/"):
		return "/job/{jobNumber}/update"
	case strings.HasPrefix(path, "/people/"):
		return "/people/{clientCode}"
	}
	return path
}
