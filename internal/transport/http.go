package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/domain/wip"
	"github.com/MGhunch/dot-hub/internal/hub"
)

// Options tune the HTTP server.
type Options struct {
	// SecureCookie marks the session cookie Secure. Set it behind TLS.
	SecureCookie bool
	Logger       *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	hub    *hub.Hub
	tokens *Tokens
	secure bool
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(h *hub.Hub, tokens *Tokens, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{hub: h, tokens: tokens, secure: opts.SecureCookie, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", srv.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens))

			r.Post("/logout", srv.handleLogout)
			r.Get("/session", srv.handleSession)
			r.Post("/activity", srv.handleActivity)
			r.Post("/visible", srv.handleVisible)
			r.Post("/ask", srv.handleAsk)
			r.Put("/view", srv.handleView)

			r.Get("/jobs", srv.handleJobs)
			r.Get("/jobs/search", srv.handleSearch)
			r.Post("/jobs/{jobNumber}/with-client", srv.handleWithClient)
			r.Post("/jobs/{jobNumber}/update", srv.handleUpdate)
			r.Get("/clients", srv.handleClients)
			r.Get("/people/{client}", srv.handlePeople)
			r.Get("/wip", srv.handleWip)

			r.Get("/tracker", srv.handleTracker)
			r.Get("/tracker/clients", srv.handleTrackerClients)
			r.Post("/tracker/items/{id}", srv.handleTrackerItem)
			r.Get("/tracker/export", srv.handleTrackerExport)
			r.Get("/tracker/pdf", srv.handleTrackerPDF)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type loginRequest struct {
	PIN string `json:"pin"`
}

// SessionBody describes the signed-in session. Query is set when a deep
// link was applied: it is the page query to show with the deep-link
// parameters removed, and may be empty.
type SessionBody struct {
	User  session.User  `json:"user"`
	View  hub.ViewState `json:"view"`
	Token string        `json:"token,omitempty"`
	Query *string       `json:"query,omitempty"`
}

func sessionBody(e hub.Entry, token string) SessionBody {
	body := SessionBody{User: e.Session.User, View: e.View, Token: token}
	if e.Query != nil {
		q := e.Query.Encode()
		body.Query = &q
	}
	return body
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	e, err := s.hub.Login(r.Context(), req.PIN, r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	token, expires, err := s.tokens.Issue(e.Session.ID)
	if err != nil {
		s.logger.Error("issuing token failed", "error", err)
		writeError(w, err)
		return
	}
	setSessionCookie(w, token, expires, s.secure)
	writeJSON(w, http.StatusOK, sessionBody(e, token))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.hub.Logout(r.Context(), sessionID(r))
	clearSessionCookie(w, s.secure)
	if err != nil && !isSignedOut(err) {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	e, err := s.hub.Resume(r.Context(), sessionID(r), r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionBody(e, ""))
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.Activity(r.Context(), sessionID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.hub.Visible(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": cleared})
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	turn, err := s.hub.Ask(r.Context(), sessionID(r), req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req hub.ViewUpdate
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.hub.Update(r.Context(), sessionID(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	mods, err := parseModifiers(r)
	if err != nil {
		writeError(w, err)
		return
	}
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	writeJSON(w, http.StatusOK, s.hub.Jobs().Filter(mods, all))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	mods, err := parseModifiers(r)
	if err != nil {
		writeError(w, err)
		return
	}
	terms := strings.Fields(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, s.hub.Jobs().Search(mods, terms))
}

type withClientRequest struct {
	WithClient bool `json:"withClient"`
}

func (s *Server) handleWithClient(w http.ResponseWriter, r *http.Request) {
	var req withClientRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.hub.Jobs().ToggleWithClient(r.Context(), chi.URLParam(r, "jobNumber"), req.WithClient); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageBody{Message: job.ToastSuccess})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req job.UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.JobNumber = chi.URLParam(r, "jobNumber")
	if err := s.hub.Jobs().SubmitUpdate(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageBody{Message: job.ToastSuccess})
}

func (s *Server) handleClients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"clients": s.hub.Jobs().Clients(),
		"counts":  s.hub.Jobs().ClientCounts(),
	})
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Jobs().People(r.Context(), chi.URLParam(r, "client")))
}

func (s *Server) handleWip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.WipBoard(sessionID(r)))
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	dash, err := s.hub.TrackerDashboard(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleTrackerClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Tracker().Clients(r.Context()))
}

func (s *Server) handleTrackerItem(w http.ResponseWriter, r *http.Request) {
	var patch tracker.Patch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := s.hub.Tracker().UpdateItem(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageBody{Message: job.ToastSuccess})
}

func (s *Server) handleTrackerExport(w http.ResponseWriter, r *http.Request) {
	dash, err := s.hub.TrackerDashboard(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	name := strings.ToLower(dash.Client.Code) + "-" + strings.ToLower(dash.View.Month) + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := tracker.Export(w, dash); err != nil {
		s.logger.Error("tracker export failed", "client", dash.Client.Code, "error", err)
	}
}

func (s *Server) handleTrackerPDF(w http.ResponseWriter, r *http.Request) {
	view := s.hub.View(sessionID(r))
	link := s.hub.Tracker().PDFURL(view.TrackerClient, tracker.View{Month: view.Month, Quarter: view.Quarter})
	if link == "" {
		writeJSON(w, http.StatusNotFound, ErrorBody{Error: "PDF export isn't set up."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

// parseModifiers reads job filter modifiers from the query string.
func parseModifiers(r *http.Request) (job.Modifiers, error) {
	q := r.URL.Query()
	mods := job.Modifiers{
		Client:    q.Get("client"),
		Status:    job.Status(q.Get("status")),
		DateRange: job.DateRange(q.Get("dateRange")),
		SortBy:    job.SortField(q.Get("sortBy")),
		SortOrder: job.SortOrder(q.Get("sortOrder")),
	}
	if raw := q.Get("withClient"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return job.Modifiers{}, &job.ValidationError{Field: "withClient", Message: "withClient should be true or false."}
		}
		mods.WithClient = &v
	}
	if mods.Client == wip.AllClients {
		mods.Client = ""
	}
	return mods, nil
}

func sessionID(r *http.Request) string {
	id, _ := SessionIDFromContext(r.Context())
	return id
}

func isSignedOut(err error) bool {
	return errors.Is(err, session.ErrSessionNotFound)
}
