// Package store provides the key-value backends user settings are persisted in.
package store

import (
	"context"
	"fmt"

	"shoken-assist/backend/internal/agent/deps"
)

// Driver names accepted by Open
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a deps.KeyValueStore that owns resources
type Store interface {
	deps.KeyValueStore
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// Open returns the backend named by opts.Driver. An empty driver means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverPostgres:
		return ConnectPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
