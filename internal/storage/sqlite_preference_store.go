package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// SQLitePreferenceStore implements PreferenceStore backed by SQLite.
type SQLitePreferenceStore struct {
	db *sql.DB
}

// NewSQLitePreferenceStore returns a new SQLitePreferenceStore.
func NewSQLitePreferenceStore(db *sql.DB) *SQLitePreferenceStore {
	return &SQLitePreferenceStore{db: db}
}

// ChannelsFor returns the channels configured for (tenantID, eventType).
func (s *SQLitePreferenceStore) ChannelsFor(ctx context.Context, tenantID, eventType string) ([]notification.ChannelKind, error) {
	rcpts, err := s.RecipientsFor(ctx, tenantID, eventType)
	if err != nil {
		return nil, err
	}
	return notification.Request{Recipients: rcpts}.Channels(), nil
}

// RecipientsFor returns the recipients configured for (tenantID, eventType).
func (s *SQLitePreferenceStore) RecipientsFor(ctx context.Context, tenantID, eventType string) (rcpts []notification.RecipientEntry, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT channel, recipient
		FROM tenant_notification_preferences
		WHERE tenant_id = ? AND event_type = ?
		ORDER BY position`, tenantID, eventType)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var channel, recipient string
		if err := rows.Scan(&channel, &recipient); err != nil {
			return nil, fmt.Errorf("scanning preference row: %w", err)
		}
		kind, err := notification.ParseChannelKind(channel)
		if err != nil {
			return nil, fmt.Errorf("preference for tenant %s: %w", tenantID, err)
		}
		rcpts = append(rcpts, notification.RecipientEntry{Channel: kind, Address: recipient})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preference rows: %w", err)
	}
	return rcpts, nil
}

// SetPreferences replaces the stored rows for (p.TenantID, p.EventType) in a
// single transaction.
func (s *SQLitePreferenceStore) SetPreferences(ctx context.Context, p Preference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences update: %w", err)
	}
	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("failed to rollback preferences update: %v", rbErr)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tenant_notification_preferences WHERE tenant_id = ? AND event_type = ?`,
		p.TenantID, p.EventType,
	); err != nil {
		rollback()
		return fmt.Errorf("clearing preferences: %w", err)
	}

	for i, r := range p.Recipients {
		if !r.Channel.Valid() {
			rollback()
			return fmt.Errorf("recipient %d: %w", i, notification.ErrUnknownChannelKind)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tenant_notification_preferences (tenant_id, event_type, position, channel, recipient)
			VALUES (?, ?, ?, ?, ?)`,
			p.TenantID, p.EventType, i, r.Channel.String(), r.Address,
		); err != nil {
			rollback()
			return fmt.Errorf("inserting preference: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences update: %w", err)
	}
	return nil
}

// ListPreferences returns all event types configured for tenantID.
func (s *SQLitePreferenceStore) ListPreferences(ctx context.Context, tenantID string) ([]Preference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT event_type
		FROM tenant_notification_preferences
		WHERE tenant_id = ?
		ORDER BY event_type`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying preference event types: %w", err)
	}
	var eventTypes []string
	for rows.Next() {
		var et string
		if err := rows.Scan(&et); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning event type: %w", err)
		}
		eventTypes = append(eventTypes, et)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterating event types: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing rows: %w", err)
	}

	prefs := make([]Preference, 0, len(eventTypes))
	for _, et := range eventTypes {
		rcpts, err := s.RecipientsFor(ctx, tenantID, et)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, Preference{TenantID: tenantID, EventType: et, Recipients: rcpts})
	}
	return prefs, nil
}
