package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// SQLiteUploadQueue implements UploadQueue backed by SQLite. Visibility is
// tracked as a unix-nanosecond column so comparisons stay numeric.
type SQLiteUploadQueue struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteUploadQueue returns a new SQLiteUploadQueue.
func NewSQLiteUploadQueue(db *sql.DB) *SQLiteUploadQueue {
	return &SQLiteUploadQueue{db: db, now: time.Now}
}

// Enqueue appends ev and makes it visible immediately.
func (q *SQLiteUploadQueue) Enqueue(ctx context.Context, ev UploadEvent) (int64, error) {
	now := q.now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO upload_events
		    (tenant_id, file_id, file_name, file_size_bytes, file_uri, upload_status, visible_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.TenantID, ev.FileID, ev.FileName, ev.FileSizeBytes, ev.FileURI,
		string(ev.UploadStatus), now.UnixNano(), now,
	)
	if err != nil {
		return 0, fmt.Errorf("enqueueing upload event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading upload event id: %w", err)
	}
	return id, nil
}

// Receive returns up to max visible events and hides them for visibility.
func (q *SQLiteUploadQueue) Receive(ctx context.Context, max int, visibility time.Duration) ([]QueuedEvent, error) {
	if max <= 0 {
		max = 1
	}
	now := q.now().UTC()

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin receive: %w", err)
	}
	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("failed to rollback receive: %v", rbErr)
		}
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, tenant_id, file_id, file_name, file_size_bytes, file_uri, upload_status, dequeue_count, created_at
		FROM upload_events
		WHERE visible_at <= ?
		ORDER BY id
		LIMIT ?`, now.UnixNano(), max)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("querying upload events: %w", err)
	}

	var events []QueuedEvent
	for rows.Next() {
		var (
			qe     QueuedEvent
			status string
		)
		if err := rows.Scan(&qe.ID, &qe.Event.TenantID, &qe.Event.FileID, &qe.Event.FileName,
			&qe.Event.FileSizeBytes, &qe.Event.FileURI, &status, &qe.DequeueCount, &qe.EnqueuedAt); err != nil {
			_ = rows.Close()
			rollback()
			return nil, fmt.Errorf("scanning upload event: %w", err)
		}
		qe.Event.UploadStatus = notification.UploadStatus(status)
		events = append(events, qe)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		rollback()
		return nil, fmt.Errorf("iterating upload events: %w", err)
	}
	_ = rows.Close()

	hiddenUntil := now.Add(visibility).UnixNano()
	for i := range events {
		if _, err := tx.ExecContext(ctx,
			`UPDATE upload_events SET visible_at = ?, dequeue_count = dequeue_count + 1 WHERE id = ?`,
			hiddenUntil, events[i].ID,
		); err != nil {
			rollback()
			return nil, fmt.Errorf("hiding upload event %d: %w", events[i].ID, err)
		}
		events[i].DequeueCount++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit receive: %w", err)
	}
	return events, nil
}

// Delete removes an event. Deleting a missing event returns ErrNotFound.
func (q *SQLiteUploadQueue) Delete(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM upload_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting upload event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting upload event: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("upload event %d: %w", id, ErrNotFound)
	}
	return nil
}
