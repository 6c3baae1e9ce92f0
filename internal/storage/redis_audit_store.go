package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisAuditPrefix = "filenotify:audit"

// RedisAuditStore implements AuditStore on Redis. Each record is a JSON string
// written with SETNX under <prefix>:<tenant>:<rowKey>; a per-tenant sorted set
// with equal scores indexes the row keys so lexical order equals newest-first.
type RedisAuditStore struct {
	client *redis.Client
	prefix string
}

// NewRedisAuditStore returns a RedisAuditStore. An empty prefix uses
// "filenotify:audit".
func NewRedisAuditStore(client *redis.Client, prefix string) *RedisAuditStore {
	if prefix == "" {
		prefix = defaultRedisAuditPrefix
	}
	return &RedisAuditStore{client: client, prefix: prefix}
}

func (s *RedisAuditStore) indexKey(tenantID string) string {
	return s.prefix + ":" + tenantID
}

func (s *RedisAuditStore) recordKey(tenantID, rowKey string) string {
	return s.prefix + ":" + tenantID + ":" + rowKey
}

// AppendAudit stores rec unless its key already exists.
func (s *RedisAuditStore) AppendAudit(ctx context.Context, rec AuditRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding audit record: %w", err)
	}

	// ZADD before SETNX so a retried append always leaves the record indexed.
	if err := s.client.ZAdd(ctx, s.indexKey(rec.TenantID), redis.Z{Score: 0, Member: rec.RowKey}).Err(); err != nil {
		return fmt.Errorf("indexing audit record: %w", err)
	}

	created, err := s.client.SetNX(ctx, s.recordKey(rec.TenantID, rec.RowKey), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("writing audit record: %w", err)
	}
	if !created {
		return fmt.Errorf("audit record %s/%s: %w", rec.TenantID, rec.RowKey, ErrAlreadyExists)
	}
	return nil
}

// ListAudit returns the newest audit records of a tenant.
func (s *RedisAuditStore) ListAudit(ctx context.Context, tenantID string, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	rowKeys, err := s.client.ZRange(ctx, s.indexKey(tenantID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading audit index: %w", err)
	}
	if len(rowKeys) == 0 {
		return nil, nil
	}

	keys := make([]string, len(rowKeys))
	for i, rk := range rowKeys {
		keys[i] = s.recordKey(tenantID, rk)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading audit records: %w", err)
	}

	records := make([]AuditRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Record removed out of band; skip the dangling index entry.
			continue
		}
		var rec AuditRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding audit record %s: %w", rowKeys[i], err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ping checks connectivity to Redis.
func (s *RedisAuditStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(errors.New("redis audit store unreachable"), err)
	}
	return nil
}
