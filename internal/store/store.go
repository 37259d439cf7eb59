// Package store persists serialized diagram documents. Documents are
// opaque JSON here; validation happens in the diagram codec.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("diagram not found")

// Record is a stored diagram document.
type Record struct {
	ID        string    `json:"id"`
	Document  []byte    `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the persistence adapter used by the HTTP service and the live
// session hub.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, id string, doc []byte) error
	Delete(ctx context.Context, id string) error

	// List returns record metadata ordered by most recent update.
	List(ctx context.Context) ([]Record, error)

	Close() error
}

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Open connects the store named by driver. dsn is the Postgres URL or the
// SQLite file path; it is ignored for the memory driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgres(ctx, dsn)
	case DriverSQLite:
		return NewSQLite(ctx, dsn)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
