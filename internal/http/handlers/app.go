package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"quickai/internal/domain"
	"quickai/internal/generation"
	"quickai/internal/infra"
	"quickai/internal/middleware"
	"quickai/internal/pipeline"
)

// Runner executes one generation request.
type Runner interface {
	Run(ctx context.Context, principal domain.Principal, req generation.Request) pipeline.Outcome
}

// Pinger reports backing store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Pipeline  Runner
	Creations domain.CreationRepository
	DB        Pinger
	Logger    infra.Logger
}

func NewApp(runner Runner, creations domain.CreationRepository, db Pinger, logger infra.Logger) *App {
	return &App{Pipeline: runner, Creations: creations, DB: db, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) fail(w http.ResponseWriter, code int, message string) {
	a.json(w, code, envelope{Success: false, Message: message})
}

func (a *App) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.fail(w, http.StatusUnauthorized, "Authentication failed - no user ID found")
	}
	return p, ok
}
