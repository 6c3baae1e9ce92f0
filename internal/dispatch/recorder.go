package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// StatusRecorder persists the outcome of one channel partition.
type StatusRecorder interface {
	Record(ctx context.Context, req notification.Request, kind notification.ChannelKind, delivered bool) error
}

// Recorder appends the audit record and flips the notified flag for one
// (tenant, file, channel) attempt. The two writes are independent: a failure
// of one does not skip or undo the other.
type Recorder struct {
	audit  storage.AuditStore
	status storage.StatusStore
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(audit storage.AuditStore, status storage.StatusStore, logger *slog.Logger) *Recorder {
	return &Recorder{audit: audit, status: status, logger: logger, now: time.Now}
}

// Record writes the attempt. Identifiers are validated before any I/O. The
// returned error joins every failed write; a duplicate audit key is not a
// failure.
func (r *Recorder) Record(ctx context.Context, req notification.Request, kind notification.ChannelKind, delivered bool) error {
	if err := ValidateIDs(req.TenantID, req.FileID); err != nil {
		r.logger.Warn("skipping persistence for invalid identifiers",
			"tenant_id", req.TenantID, "file_id", req.FileID, "error", err)
		return err
	}

	var errs []error
	if err := r.appendAudit(ctx, req, kind, delivered); err != nil {
		errs = append(errs, err)
	}
	if err := r.markNotified(ctx, req); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Recorder) appendAudit(ctx context.Context, req notification.Request, kind notification.ChannelKind, delivered bool) error {
	at := r.now().UTC()
	rec := storage.AuditRecord{
		TenantID:     req.TenantID,
		RowKey:       storage.AuditRowKey(at, req.FileID, kind),
		FileID:       req.FileID,
		UploadStatus: req.UploadStatus,
		Channel:      kind,
		Recipient:    strings.Join(req.Addresses(kind), ","),
		Delivered:    delivered,
		RecordedAt:   at,
	}

	err := r.audit.AppendAudit(ctx, rec)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrAlreadyExists):
		r.logger.Debug("audit record already exists",
			"tenant_id", req.TenantID, "row_key", rec.RowKey)
		return nil
	default:
		r.logger.Error("appending audit record failed",
			"tenant_id", req.TenantID, "file_id", req.FileID, "channel", kind.String(), "error", err)
		return fmt.Errorf("audit append: %w", err)
	}
}

func (r *Recorder) markNotified(ctx context.Context, req notification.Request) error {
	if err := r.status.MarkNotified(ctx, req.TenantID, req.FileID); err != nil {
		r.logger.Error("updating notified flag failed",
			"tenant_id", req.TenantID, "file_id", req.FileID, "error", err)
		return fmt.Errorf("status update: %w", err)
	}
	return nil
}
