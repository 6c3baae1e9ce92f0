package storage

import (
	"context"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// FileUpload is the relational status row of one uploaded file.
type FileUpload struct {
	TenantID      string                    `json:"tenant_id"`
	FileID        string                    `json:"file_id"`
	FileName      string                    `json:"file_name"`
	FileSizeBytes int64                     `json:"file_size_bytes"`
	FileURI       string                    `json:"file_uri"`
	UploadStatus  notification.UploadStatus `json:"upload_status"`
	Notified      bool                      `json:"notified"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// Merge returns u updated with the set fields of incoming. Empty strings and
// zero sizes in incoming keep the current value, and Notified never goes back
// to false.
func (u FileUpload) Merge(incoming FileUpload) FileUpload {
	out := u
	if incoming.FileName != "" {
		out.FileName = incoming.FileName
	}
	if incoming.FileSizeBytes != 0 {
		out.FileSizeBytes = incoming.FileSizeBytes
	}
	if incoming.FileURI != "" {
		out.FileURI = incoming.FileURI
	}
	if incoming.UploadStatus != "" {
		out.UploadStatus = incoming.UploadStatus
	}
	out.Notified = u.Notified || incoming.Notified
	if !incoming.UpdatedAt.IsZero() {
		out.UpdatedAt = incoming.UpdatedAt
	}
	return out
}

// StatusStore defines the interface for the per-file status rows.
type StatusStore interface {
	// UpsertUpload inserts the row or merges u into the existing one.
	UpsertUpload(ctx context.Context, u FileUpload) error
	// GetUpload returns the row, or ErrNotFound.
	GetUpload(ctx context.Context, tenantID, fileID string) (*FileUpload, error)
	// MarkNotified sets notified = true, or returns ErrNotFound if the row
	// does not exist.
	MarkNotified(ctx context.Context, tenantID, fileID string) error
}
