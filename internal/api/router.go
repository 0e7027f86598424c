package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/papercheck/internal/checkservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *checkservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Library.
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents/check", h.CheckDocument)

	// Ad-hoc upload check.
	r.Post("/check", h.CheckUpload)

	// Run history.
	r.Get("/runs", h.ListRuns)
	r.Get("/runs/{id}", h.GetRun)

	r.Get("/rules", h.Rules)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
