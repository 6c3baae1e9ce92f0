package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// SQLiteAuditStore implements AuditStore backed by SQLite.
type SQLiteAuditStore struct {
	db *sql.DB
}

// NewSQLiteAuditStore returns a new SQLiteAuditStore.
func NewSQLiteAuditStore(db *sql.DB) *SQLiteAuditStore {
	return &SQLiteAuditStore{db: db}
}

// AppendAudit inserts an audit row. Existing rows are never overwritten.
func (s *SQLiteAuditStore) AppendAudit(ctx context.Context, rec AuditRecord) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_audit
		    (tenant_id, row_key, file_id, upload_status, channel, recipient, delivered, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, row_key) DO NOTHING`,
		rec.TenantID, rec.RowKey, rec.FileID, string(rec.UploadStatus),
		rec.Channel.String(), rec.Recipient, rec.Delivered, rec.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("audit record %s/%s: %w", rec.TenantID, rec.RowKey, ErrAlreadyExists)
	}
	return nil
}

// ListAudit returns the newest audit rows of a tenant.
func (s *SQLiteAuditStore) ListAudit(ctx context.Context, tenantID string, limit int) (records []AuditRecord, err error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT tenant_id, row_key, file_id, upload_status, channel, recipient, delivered, recorded_at
		FROM notification_audit
		WHERE tenant_id = ?
		ORDER BY row_key ASC
		LIMIT ?`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit records: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var (
			rec     AuditRecord
			status  string
			channel string
		)
		if err := rows.Scan(&rec.TenantID, &rec.RowKey, &rec.FileID, &status,
			&channel, &rec.Recipient, &rec.Delivered, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		rec.UploadStatus = notification.UploadStatus(status)
		if rec.Channel, err = notification.ParseChannelKind(channel); err != nil {
			return nil, fmt.Errorf("audit row %s: %w", rec.RowKey, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}
	return records, nil
}
