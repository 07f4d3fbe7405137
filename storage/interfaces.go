package storage

import (
	"context"

	"sitescope/models"
)

// Session keys written by the intake form and read by the results screen.
const (
	KeyContractorName     = "contractorName"
	KeyCompanyDescription = "companyDescription"
)

// KV is a string key/value store scoped to a single browser session.
// Get reports ok=false for keys that were never set or have expired.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SessionStore hands out a KV per session id.
type SessionStore interface {
	Session(id string) KV
	Close() error
}

// RowWriter is the interface for exporting display rows.
type RowWriter interface {
	WriteRows(rows []*models.ProjectRow) error
	Close() error
}
