package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/hub"
	"github.com/MGhunch/dot-hub/internal/sqlite"
)

type stubBackend struct {
	updateErr error
}

func (b *stubBackend) Clients(ctx context.Context) ([]job.Client, error) {
	return []job.Client{{Code: "SKY", Name: "Sky"}}, nil
}

func (b *stubBackend) Jobs(ctx context.Context) ([]job.Job, error) {
	return []job.Job{
		{JobNumber: "SKY 001", JobName: "Launch", ClientCode: "SKY", Status: job.StatusInProgress},
		{JobNumber: "SKY 002", JobName: "Brand refresh", ClientCode: "SKY", Status: job.StatusOnHold},
	}, nil
}

func (b *stubBackend) UpdateJob(ctx context.Context, jobNumber string, patch job.Patch) error {
	return b.updateErr
}

func (b *stubBackend) AppendNote(ctx context.Context, note job.Note) error { return nil }

func (b *stubBackend) People(ctx context.Context, clientCode string) ([]job.Person, error) {
	return []job.Person{{Name: "Sarah"}}, nil
}

func (b *stubBackend) TrackerClients(ctx context.Context) ([]job.Client, error) {
	return []job.Client{{Code: "SKY", Name: "Sky", Committed: 10000}}, nil
}

func (b *stubBackend) TrackerData(ctx context.Context, clientCode string) ([]tracker.LineItem, error) {
	return []tracker.LineItem{}, nil
}

func (b *stubBackend) UpdateTrackerItem(ctx context.Context, id string, patch tracker.Patch) error {
	return nil
}

type stubIntent struct{}

func (stubIntent) Ask(ctx context.Context, req conversation.Request) ([]byte, error) {
	return []byte(`{"type":"answer","message":"Hi ` + req.SenderName + `"}`), nil
}

func (stubIntent) Clear(ctx context.Context, sessionID string) error { return nil }

func newTestServer(t *testing.T, be *stubBackend) *httptest.Server {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	h := hub.New(hub.Deps{
		Jobs:     job.NewService(be, job.NewStore(), nil),
		Tracker:  tracker.NewService(be, sqlite.NewPreferenceRepository(db), "https://pdf.example/export", nil),
		Sessions: session.NewService(sqlite.NewSessionRepository(db), clockwork.NewRealClock(), 0, nil),
		Intent:   stubIntent{},
	})
	t.Cleanup(h.Close)

	server := httptest.NewServer(NewServer(h, NewTokens("secret", 0), Options{}))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func call(t *testing.T, c *http.Client, method, url, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, &stubBackend{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_LoginFlow(t *testing.T) {
	server := newTestServer(t, &stubBackend{})
	c := newClient(t)

	status, body := call(t, c, http.MethodGet, server.URL+"/api/session", "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, c, http.MethodPost, server.URL+"/api/login", `{"pin":"0000"}`)
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"error":"That PIN didn't work."}`, string(body))

	status, body = call(t, c, http.MethodPost, server.URL+"/api/login?view=wip&client=sky", `{"pin":"9871"}`)
	require.Equal(t, http.StatusOK, status)
	var login SessionBody
	require.NoError(t, json.Unmarshal(body, &login))
	require.Equal(t, "Michael", login.User.Name)
	require.Equal(t, session.ViewWip, login.View.View)
	require.Equal(t, "SKY", login.View.WipClient)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.Query)
	require.Empty(t, *login.Query)

	status, body = call(t, c, http.MethodGet, server.URL+"/api/session", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `"Michael"`)

	status, body = call(t, c, http.MethodPost, server.URL+"/api/ask", `{"question":"hello"}`)
	require.Equal(t, http.StatusOK, status)
	var turn conversation.Turn
	require.NoError(t, json.Unmarshal(body, &turn))
	require.Equal(t, "Hi Michael", turn.Message)

	status, _ = call(t, c, http.MethodPost, server.URL+"/api/ask", `{"question":"  "}`)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, c, http.MethodPost, server.URL+"/api/logout", "")
	require.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, c, http.MethodGet, server.URL+"/api/session", "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestHTTPServer_LoginStripsDeepLinkFromQuery(t *testing.T) {
	server := newTestServer(t, &stubBackend{})
	c := newClient(t)

	status, body := call(t, c, http.MethodPost, server.URL+"/api/login?view=wip&client=TOW&x=1", `{"pin":"9871"}`)
	require.Equal(t, http.StatusOK, status)
	var login SessionBody
	require.NoError(t, json.Unmarshal(body, &login))
	require.Equal(t, "TOW", login.View.WipClient)
	require.NotNil(t, login.Query)
	require.Equal(t, "x=1", *login.Query)

	// Without a deep link there is nothing to replace.
	status, body = call(t, c, http.MethodGet, server.URL+"/api/session?x=1", "")
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, string(body), `"query"`)
}

func TestHTTPServer_Jobs(t *testing.T) {
	server := newTestServer(t, &stubBackend{})
	c := newClient(t)
	status, _ := call(t, c, http.MethodPost, server.URL+"/api/login", `{"pin":"1919"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, c, http.MethodGet, server.URL+"/api/jobs?client=SKY", "")
	require.Equal(t, http.StatusOK, status)
	var jobs []job.Job
	require.NoError(t, json.Unmarshal(body, &jobs))
	require.Len(t, jobs, 1)
	require.Equal(t, "SKY 001", jobs[0].JobNumber)

	status, _ = call(t, c, http.MethodGet, server.URL+"/api/jobs?withClient=maybe", "")
	require.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, c, http.MethodGet, server.URL+"/api/jobs/search?q=brand", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "SKY 002")

	status, body = call(t, c, http.MethodPost, server.URL+"/api/jobs/SKY%20001/update", `{"message":"Sent to client"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.JSONEq(t, `{"error":"Pop in a new update due date first.","field":"updateDue"}`, string(body))

	status, body = call(t, c, http.MethodPost, server.URL+"/api/jobs/SKY%20001/update", `{"stage":"Craft"}`)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"message":"On it."}`, string(body))

	status, body = call(t, c, http.MethodGet, server.URL+"/api/people/SKY", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "Sarah")
}

func TestHTTPServer_BackendFailureIsFriendly(t *testing.T) {
	server := newTestServer(t, &stubBackend{updateErr: errors.New("status 500: stack trace")})
	c := newClient(t)
	status, _ := call(t, c, http.MethodPost, server.URL+"/api/login", `{"pin":"1919"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, c, http.MethodPost, server.URL+"/api/jobs/SKY%20001/update", `{"stage":"Craft"}`)
	require.Equal(t, http.StatusBadGateway, status)
	require.JSONEq(t, `{"error":"Doh, that didn't work."}`, string(body))
}

func TestHTTPServer_ViewAndTracker(t *testing.T) {
	server := newTestServer(t, &stubBackend{})
	c := newClient(t)
	status, _ := call(t, c, http.MethodPost, server.URL+"/api/login", `{"pin":"9871"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, c, http.MethodPut, server.URL+"/api/view", `{"view":"tracker","month":"jan","quarter":true}`)
	require.Equal(t, http.StatusOK, status)
	var view hub.ViewState
	require.NoError(t, json.Unmarshal(body, &view))
	require.Equal(t, session.ViewTracker, view.View)
	require.Equal(t, "January", view.Month)
	require.True(t, view.Quarter)

	status, _ = call(t, c, http.MethodPut, server.URL+"/api/view", `{"view":"nowhere"}`)
	require.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, c, http.MethodGet, server.URL+"/api/tracker", "")
	require.Equal(t, http.StatusOK, status)
	var dash tracker.Dashboard
	require.NoError(t, json.Unmarshal(body, &dash))
	require.Equal(t, "SKY", dash.Client.Code)
	require.Equal(t, "January", dash.View.Month)

	status, body = call(t, c, http.MethodGet, server.URL+"/api/tracker/pdf", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "client=SKY")

	status, body = call(t, c, http.MethodGet, server.URL+"/api/tracker/export", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "PK", string(body[:2]))

	status, body = call(t, c, http.MethodGet, server.URL+"/api/wip", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "SKY 001")
}
