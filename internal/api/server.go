package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/filenotify/internal/service"
)

const errInvalidJSONBody = "invalid JSON body"

// Server holds all dependencies for the REST API handlers.
type Server struct {
	notificationSvc service.NotificationService
	logger          *slog.Logger
}

// New creates a new API Server backed by the provided service.
func New(notificationSvc service.NotificationService, logger *slog.Logger) *Server {
	return &Server{
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Synchronous dispatch and queued upload events
	r.Post("/dispatch", s.handleDispatch)
	r.Post("/uploads/events", s.handleSubmitUploadEvent)

	// Tenant views
	r.Route("/tenants/{tenantID}", func(r chi.Router) {
		r.Get("/audit", s.handleListAudit)
		r.Get("/files/{fileID}/status", s.handleGetUploadStatus)
		r.Get("/preferences", s.handleListPreferences)
		r.Get("/preferences/{eventType}", s.handleGetPreference)
		r.Put("/preferences/{eventType}", s.handleSetPreference)
	})

	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// httpErr maps service errors to status codes.
func httpErr(w http.ResponseWriter, err error) {
	var nf *service.NotFoundError
	var ve *service.ValidationError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
