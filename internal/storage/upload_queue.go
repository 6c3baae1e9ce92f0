package storage

import (
	"context"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// UploadEvent is a persisted upload-status change waiting to be notified.
type UploadEvent struct {
	TenantID      string                    `json:"tenant_id"`
	FileID        string                    `json:"file_id"`
	FileName      string                    `json:"file_name"`
	FileSizeBytes int64                     `json:"file_size_bytes"`
	FileURI       string                    `json:"file_uri"`
	UploadStatus  notification.UploadStatus `json:"upload_status"`
}

// QueuedEvent is an UploadEvent received from the queue.
type QueuedEvent struct {
	ID           int64       `json:"id"`
	Event        UploadEvent `json:"event"`
	DequeueCount int         `json:"dequeue_count"`
	EnqueuedAt   time.Time   `json:"enqueued_at"`
}

// UploadQueue is an at-least-once queue of upload events. A received event is
// hidden for the visibility timeout and reappears unless it is deleted.
type UploadQueue interface {
	Enqueue(ctx context.Context, ev UploadEvent) (int64, error)
	Receive(ctx context.Context, max int, visibility time.Duration) ([]QueuedEvent, error)
	Delete(ctx context.Context, id int64) error
}
