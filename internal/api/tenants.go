package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// handleListAudit returns a tenant's newest audit records.
// Accepts an optional ?limit=N query parameter.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	records, err := s.notificationSvc.ListAudit(r.Context(), chi.URLParam(r, "tenantID"), limit)
	if err != nil {
		httpErr(w, err)
		return
	}
	if records == nil {
		records = []storage.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetUploadStatus(w http.ResponseWriter, r *http.Request) {
	u, err := s.notificationSvc.GetUploadStatus(r.Context(), chi.URLParam(r, "tenantID"), chi.URLParam(r, "fileID"))
	if err != nil {
		httpErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.notificationSvc.ListPreferences(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		httpErr(w, err)
		return
	}
	if prefs == nil {
		prefs = []storage.Preference{}
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	p, err := s.notificationSvc.GetPreference(r.Context(), chi.URLParam(r, "tenantID"), chi.URLParam(r, "eventType"))
	if err != nil {
		httpErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleSetPreference replaces the recipients of the event type. The body is
// {"recipients": [...]}; tenant and event type come from the path.
func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Recipients []notification.RecipientEntry `json:"recipients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	p := storage.Preference{
		TenantID:   chi.URLParam(r, "tenantID"),
		EventType:  chi.URLParam(r, "eventType"),
		Recipients: body.Recipients,
	}
	saved, err := s.notificationSvc.SetPreference(r.Context(), p)
	if err != nil {
		httpErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
