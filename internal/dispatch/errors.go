package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrMalformedID is returned when a tenant or file id is not a UUID.
	ErrMalformedID = errors.New("malformed identifier")

	// ErrSentinelID is returned when a tenant or file id is the all-zero UUID.
	ErrSentinelID = errors.New("all-zero identifier")
)

// parseID parses a UUID and tags failures with the field name.
func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q", ErrMalformedID, field, value)
	}
	return id, nil
}

// ValidateIDs checks that both identifiers are UUIDs other than the all-zero
// sentinel. It performs no I/O.
func ValidateIDs(tenantID, fileID string) error {
	tid, err := parseID("tenant_id", tenantID)
	if err != nil {
		return err
	}
	fid, err := parseID("file_id", fileID)
	if err != nil {
		return err
	}
	if tid == uuid.Nil || fid == uuid.Nil {
		return fmt.Errorf("%w: tenant %s file %s", ErrSentinelID, tenantID, fileID)
	}
	return nil
}

// ValidateTenantID checks that tenantID is a UUID other than the all-zero
// sentinel.
func ValidateTenantID(tenantID string) error {
	id, err := parseID("tenant_id", tenantID)
	if err != nil {
		return err
	}
	if id == uuid.Nil {
		return fmt.Errorf("%w: tenant %s", ErrSentinelID, tenantID)
	}
	return nil
}
