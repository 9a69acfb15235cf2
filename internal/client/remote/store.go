// Package remote is the Remote Store Adapter: it replicates users, settings,
// the icon catalog and the activity log to an optional backend table store.
// Transport failures come back as ErrUnavailable; answers the backend gave on
// purpose (no row, denied, bad data) keep their own sentinels.
package remote

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the backend is unconfigured, unreachable or failed.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrNotFound means the backend answered but holds no matching row.
	ErrNotFound = errors.New("remote row not found")
	// ErrRejected means the backend answered but the credentials did not match.
	ErrRejected = errors.New("remote credentials rejected")
	// ErrDenied means the backend refused the API key or the key's role.
	ErrDenied = errors.New("remote request denied")
	// ErrInvalid means the request or the returned data did not fit the schema.
	ErrInvalid = errors.New("remote data invalid")
)

const (
	TableUsers      = "conecta_users"
	TableSettings   = "conecta_settings"
	TableIcons      = "conecta_icons"
	TableActivities = "conecta_activities"
)

// Row is one table row keyed by snake_case column name. Values are limited
// to JSON types: string, float64, bool, nil (ints are accepted on input).
type Row map[string]any

// Filter selects rows whose columns equal the given values.
type Filter map[string]any

// TableStore is the opaque backend surface the adapter needs.
type TableStore interface {
	Select(ctx context.Context, table string, filter Filter) ([]Row, error)
	// Get returns exactly one row or ErrNotFound.
	Get(ctx context.Context, table string, filter Filter) (Row, error)
	Insert(ctx context.Context, table string, row Row) error
	// Upsert inserts row or updates the row that conflicts on the given columns.
	Upsert(ctx context.Context, table string, conflict []string, row Row) error
	Delete(ctx context.Context, table string, filter Filter) error
	Ping(ctx context.Context) error
	Close() error
}

// Authenticator is implemented by stores that check credentials themselves.
// The returned row carries no password_hash. A missing user or a wrong
// password is ErrNotFound.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Row, error)
}

// ReportUploader is implemented by stores that can hand out presigned upload
// URLs for exported reports.
type ReportUploader interface {
	PresignReportUpload(ctx context.Context, name string) (string, error)
}
