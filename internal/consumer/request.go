package consumer

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// BuildRequest turns a queued upload event into a dispatch request. The
// recipients are the tenant's configured recipients for the event's upload
// status; webhook entries without an address go to webhookEndpoint.
func BuildRequest(ctx context.Context, prefs storage.PreferenceStore, ev storage.UploadEvent, webhookEndpoint string) (notification.Request, error) {
	rcpts, err := prefs.RecipientsFor(ctx, ev.TenantID, string(ev.UploadStatus))
	if err != nil {
		return notification.Request{}, fmt.Errorf("loading recipients: %w", err)
	}

	for i := range rcpts {
		if rcpts[i].Channel == notification.ChannelHTTPWebhook && rcpts[i].Address == "" {
			rcpts[i].Address = webhookEndpoint
		}
	}

	return notification.Request{
		TenantID:      ev.TenantID,
		FileID:        ev.FileID,
		FileName:      ev.FileName,
		FileSizeBytes: ev.FileSizeBytes,
		FileURI:       ev.FileURI,
		UploadStatus:  ev.UploadStatus,
		Recipients:    rcpts,
	}, nil
}
