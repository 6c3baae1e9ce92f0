package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// handleDispatch sends a notification synchronously and returns the
// per-channel report. Channel failures are part of a 200 response.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req notification.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	report, err := s.notificationSvc.Dispatch(r.Context(), req)
	if err != nil {
		s.logger.Error("dispatch request failed",
			"tenant_id", req.TenantID, "file_id", req.FileID, "error", err)
		httpErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleSubmitUploadEvent queues an upload event for asynchronous
// notification.
func (s *Server) handleSubmitUploadEvent(w http.ResponseWriter, r *http.Request) {
	var ev storage.UploadEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	id, err := s.notificationSvc.SubmitUploadEvent(r.Context(), ev)
	if err != nil {
		httpErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int64{"id": id})
}
