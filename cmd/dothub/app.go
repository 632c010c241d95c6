package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/MGhunch/dot-hub/internal/backend"
	"github.com/MGhunch/dot-hub/internal/config"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/hub"
	"github.com/MGhunch/dot-hub/internal/sqlite"
)

// app holds everything a command needs, wired from config.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	sessions *sqlite.SessionRepository
	hub      *hub.Hub
	closers  []io.Closer
}

// newApp loads config and wires the hub. Logs go to logOut unless a log
// file is configured.
func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	a := &app{cfg: cfg}
	if cfg.Log.Path != "" {
		logFile := newLogFile(cfg.Log.Path)
		a.closers = append(a.closers, logFile)
		logOut = logFile
	}
	a.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db)
	if err := db.RunMigrations(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	client := backend.New(backend.Options{
		APIBase:     cfg.Backend.APIBase,
		TrafficBase: cfg.Backend.TrafficBase,
		ProxyBase:   cfg.Backend.ProxyBase,
		Protocol:    backend.Protocol(cfg.Backend.Protocol),
		Timeout:     cfg.Backend.Timeout,
		Logger:      a.logger,
	})
	jobs := job.NewService(client, job.NewStore(), a.logger)
	client.WithRoster(jobs.Clients)

	a.sessions = sqlite.NewSessionRepository(db)
	a.hub = hub.New(hub.Deps{
		Jobs:         jobs,
		Tracker:      tracker.NewService(client, sqlite.NewPreferenceRepository(db), cfg.Backend.PDFBase, a.logger),
		Sessions:     session.NewService(a.sessions, clockwork.NewRealClock(), cfg.Session.InactivityTimeout, a.logger),
		Intent:       client,
		Clock:        clockwork.NewRealClock(),
		HandoffEmail: cfg.Handoff.Email,
		Logger:       a.logger,
	})
	return a, nil
}

// Close stops session timers and releases the database and log file.
func (a *app) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
