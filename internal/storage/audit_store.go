package storage

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// AuditRecord is one append-only entry describing a delivery attempt on one
// channel for one file.
type AuditRecord struct {
	TenantID     string                   `json:"tenant_id"`
	RowKey       string                   `json:"row_key"`
	FileID       string                   `json:"file_id"`
	UploadStatus notification.UploadStatus `json:"upload_status"`
	Channel      notification.ChannelKind `json:"channel"`
	Recipient    string                   `json:"recipient"`
	Delivered    bool                     `json:"delivered"`
	RecordedAt   time.Time                `json:"recorded_at"`
}

// AuditStore persists audit records partitioned by tenant.
type AuditStore interface {
	// AppendAudit inserts rec. A record whose (TenantID, RowKey) already exists
	// is left untouched and ErrAlreadyExists is returned.
	AppendAudit(ctx context.Context, rec AuditRecord) error
	// ListAudit returns up to limit records of a tenant, newest first.
	ListAudit(ctx context.Context, tenantID string, limit int) ([]AuditRecord, error)
}

// defaultAuditLimit applies when ListAudit is called with limit <= 0.
const defaultAuditLimit = 50

// InvertedTimestamp returns a fixed-width key that sorts newer times first.
func InvertedTimestamp(t time.Time) string {
	return fmt.Sprintf("%019d", math.MaxInt64-t.UnixNano())
}

// AuditRowKey builds the sort key of an audit record: the inverted timestamp
// followed by the identifying file and channel.
func AuditRowKey(recordedAt time.Time, fileID string, channel notification.ChannelKind) string {
	return InvertedTimestamp(recordedAt) + "_" + fileID + "_" + channel.String()
}
