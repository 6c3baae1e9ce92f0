package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// SQLiteStatusStore implements StatusStore backed by SQLite.
type SQLiteStatusStore struct {
	db *sql.DB
}

// NewSQLiteStatusStore returns a new SQLiteStatusStore.
func NewSQLiteStatusStore(db *sql.DB) *SQLiteStatusStore {
	return &SQLiteStatusStore{db: db}
}

// upsertFileUploadSQL never clears notified: a MarkNotified landing between
// the read in UpsertUpload and this write must survive.
const upsertFileUploadSQL = `
	INSERT INTO file_uploads
	    (tenant_id, file_id, file_name, file_size_bytes, file_uri, upload_status, notified, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (tenant_id, file_id) DO UPDATE SET
	    file_name = excluded.file_name,
	    file_size_bytes = excluded.file_size_bytes,
	    file_uri = excluded.file_uri,
	    upload_status = excluded.upload_status,
	    notified = MAX(file_uploads.notified, excluded.notified),
	    updated_at = excluded.updated_at`

// UpsertUpload merges u into the stored row, creating it when missing.
func (s *SQLiteStatusStore) UpsertUpload(ctx context.Context, u FileUpload) error {
	now := time.Now().UTC()
	merged := u
	existing, err := s.GetUpload(ctx, u.TenantID, u.FileID)
	switch {
	case err == nil:
		merged = existing.Merge(u)
	case errors.Is(err, ErrNotFound):
		if merged.CreatedAt.IsZero() {
			merged.CreatedAt = now
		}
		if merged.UploadStatus == "" {
			merged.UploadStatus = notification.UploadNone
		}
	default:
		return err
	}
	merged.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, upsertFileUploadSQL,
		merged.TenantID, merged.FileID, merged.FileName, merged.FileSizeBytes, merged.FileURI,
		string(merged.UploadStatus), merged.Notified, merged.CreatedAt.UTC(), merged.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting file upload: %w", err)
	}
	return nil
}

// GetUpload returns the status row of one file.
func (s *SQLiteStatusStore) GetUpload(ctx context.Context, tenantID, fileID string) (*FileUpload, error) {
	var (
		u      FileUpload
		status string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT tenant_id, file_id, file_name, file_size_bytes, file_uri, upload_status, notified, created_at, updated_at
		FROM file_uploads
		WHERE tenant_id = ? AND file_id = ?`, tenantID, fileID,
	).Scan(&u.TenantID, &u.FileID, &u.FileName, &u.FileSizeBytes, &u.FileURI,
		&status, &u.Notified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file upload %s/%s: %w", tenantID, fileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying file upload: %w", err)
	}
	u.UploadStatus = notification.UploadStatus(status)
	return &u, nil
}

// MarkNotified flips the notified flag. Reapplying it is harmless.
func (s *SQLiteStatusStore) MarkNotified(ctx context.Context, tenantID, fileID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE file_uploads SET notified = 1, updated_at = ?
		WHERE tenant_id = ? AND file_id = ?`,
		time.Now().UTC(), tenantID, fileID,
	)
	if err != nil {
		return fmt.Errorf("updating notified flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating notified flag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("file upload %s/%s: %w", tenantID, fileID, ErrNotFound)
	}
	return nil
}
