package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shaharia-lab/filenotify/internal/dispatch"
	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// EventUploadReceived is published after an upload event has been queued.
const EventUploadReceived = "filenotify.upload.received"

const maxAuditLimit = 500

// Dispatcher sends one notification request synchronously.
type Dispatcher interface {
	Dispatch(ctx context.Context, req notification.Request) (notification.Report, error)
}

// NotificationService is the operator-facing surface over dispatch and the
// notification stores.
type NotificationService interface {
	// Dispatch sends req right away and returns the per-channel report.
	Dispatch(ctx context.Context, req notification.Request) (*notification.Report, error)
	// SubmitUploadEvent records the upload status row and queues the event
	// for asynchronous notification. It returns the queue id.
	SubmitUploadEvent(ctx context.Context, ev storage.UploadEvent) (int64, error)
	// ListAudit returns the newest audit records of a tenant.
	ListAudit(ctx context.Context, tenantID string, limit int) ([]storage.AuditRecord, error)
	// GetUploadStatus returns the status row of a file.
	GetUploadStatus(ctx context.Context, tenantID, fileID string) (*storage.FileUpload, error)
	// GetPreference returns the recipients of (tenant, event type).
	GetPreference(ctx context.Context, tenantID, eventType string) (*storage.Preference, error)
	// SetPreference replaces the recipients of (tenant, event type) and returns
	// the preference as stored.
	SetPreference(ctx context.Context, p storage.Preference) (*storage.Preference, error)
	// ListPreferences returns every configured event type of a tenant.
	ListPreferences(ctx context.Context, tenantID string) ([]storage.Preference, error)
}

// notificationServiceImpl implements NotificationService.
type notificationServiceImpl struct {
	dispatcher Dispatcher
	audit      storage.AuditStore
	status     storage.StatusStore
	prefs      storage.PreferenceStore
	queue      storage.UploadQueue
	publisher  EventPublisher
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil.
func NewNotificationService(
	dispatcher Dispatcher,
	audit storage.AuditStore,
	status storage.StatusStore,
	prefs storage.PreferenceStore,
	queue storage.UploadQueue,
	publisher EventPublisher,
) NotificationService {
	return &notificationServiceImpl{
		dispatcher: dispatcher,
		audit:      audit,
		status:     status,
		prefs:      prefs,
		queue:      queue,
		publisher:  publisher,
	}
}

func (s *notificationServiceImpl) Dispatch(ctx context.Context, req notification.Request) (*notification.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	status, err := notification.ParseUploadStatus(string(req.UploadStatus))
	if err != nil {
		return nil, &ValidationError{Field: "upload_status", Message: err.Error()}
	}
	req.UploadStatus = status

	report, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		if errors.Is(err, dispatch.ErrMalformedID) {
			return nil, &ValidationError{Field: "tenant_id", Message: err.Error()}
		}
		return nil, fmt.Errorf("dispatching notification: %w", err)
	}
	return &report, nil
}

func (s *notificationServiceImpl) SubmitUploadEvent(ctx context.Context, ev storage.UploadEvent) (int64, error) {
	if err := dispatch.ValidateIDs(ev.TenantID, ev.FileID); err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}
	status, err := notification.ParseUploadStatus(string(ev.UploadStatus))
	if err != nil {
		return 0, &ValidationError{Field: "upload_status", Message: err.Error()}
	}
	ev.UploadStatus = status

	if err := s.status.UpsertUpload(ctx, storage.FileUpload{
		TenantID:      ev.TenantID,
		FileID:        ev.FileID,
		FileName:      ev.FileName,
		FileSizeBytes: ev.FileSizeBytes,
		FileURI:       ev.FileURI,
		UploadStatus:  ev.UploadStatus,
	}); err != nil {
		return 0, fmt.Errorf("recording upload status: %w", err)
	}

	id, err := s.queue.Enqueue(ctx, ev)
	if err != nil {
		return 0, fmt.Errorf("queueing upload event: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(EventUploadReceived, map[string]string{
			"tenant_id":     ev.TenantID,
			"file_id":       ev.FileID,
			"upload_status": string(ev.UploadStatus),
		})
	}
	return id, nil
}

func (s *notificationServiceImpl) ListAudit(ctx context.Context, tenantID string, limit int) ([]storage.AuditRecord, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, &ValidationError{Field: "tenant_id", Message: "tenant_id is required"}
	}
	if limit < 0 || limit > maxAuditLimit {
		return nil, &ValidationError{Field: "limit", Message: fmt.Sprintf("limit must be between 0 and %d", maxAuditLimit)}
	}
	records, err := s.audit.ListAudit(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit records: %w", err)
	}
	return records, nil
}

func (s *notificationServiceImpl) GetUploadStatus(ctx context.Context, tenantID, fileID string) (*storage.FileUpload, error) {
	u, err := s.status.GetUpload(ctx, tenantID, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "file upload", ID: fileID}
		}
		return nil, fmt.Errorf("loading upload status: %w", err)
	}
	return u, nil
}

func (s *notificationServiceImpl) GetPreference(ctx context.Context, tenantID, eventType string) (*storage.Preference, error) {
	status, err := notification.ParseUploadStatus(eventType)
	if err != nil {
		return nil, &ValidationError{Field: "event_type", Message: err.Error()}
	}
	eventType = string(status)

	rcpts, err := s.prefs.RecipientsFor(ctx, tenantID, eventType)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	if len(rcpts) == 0 {
		return nil, &NotFoundError{Resource: "preference", ID: tenantID + "/" + eventType}
	}
	return &storage.Preference{TenantID: tenantID, EventType: eventType, Recipients: rcpts}, nil
}

func (s *notificationServiceImpl) SetPreference(ctx context.Context, p storage.Preference) (*storage.Preference, error) {
	if err := validatePreference(&p); err != nil {
		return nil, err
	}
	if err := s.prefs.SetPreferences(ctx, p); err != nil {
		return nil, fmt.Errorf("saving preferences: %w", err)
	}
	return &p, nil
}

func (s *notificationServiceImpl) ListPreferences(ctx context.Context, tenantID string) ([]storage.Preference, error) {
	prefs, err := s.prefs.ListPreferences(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	return prefs, nil
}

// validatePreference checks p and normalizes its event type to the canonical
// upload status spelling.
func validatePreference(p *storage.Preference) error {
	if err := dispatch.ValidateTenantID(p.TenantID); err != nil {
		return &ValidationError{Field: "tenant_id", Message: err.Error()}
	}
	status, err := notification.ParseUploadStatus(p.EventType)
	if err != nil {
		return &ValidationError{Field: "event_type", Message: err.Error()}
	}
	p.EventType = string(status)

	for i, r := range p.Recipients {
		if !r.Channel.Valid() {
			return &ValidationError{Field: fmt.Sprintf("recipients[%d].channel", i), Message: "unknown channel"}
		}
		if r.Address == "" && r.Channel != notification.ChannelHTTPWebhook {
			return &ValidationError{Field: fmt.Sprintf("recipients[%d].address", i), Message: "address is required"}
		}
	}
	return nil
}
