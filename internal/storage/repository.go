// Package storage contains the storage-agnostic sink contract and the
// backend factory. Concrete backends (sqlite, postgres, mysql) register
// themselves in init and are selected by kind, so the rest of the program
// never imports a database driver directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	// Kind names a registered backend: "sqlite", "postgres", "mysql".
	Kind string

	// DSN is the backend connection string (file path for sqlite).
	DSN string

	// Table receives enriched sales records; ResultsTable receives
	// flattened report rows.
	Table        string
	ResultsTable string

	// AutoCreate creates both tables if missing.
	AutoCreate bool
}

// Repository is the minimal sink interface used by the pipeline.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to columns order) into table and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection pool.
	Close()
}

// Factory constructs a backend from its config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under kind. Called from backend init
// functions; a duplicate kind panics, matching database/sql driver
// registration semantics.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: Register called twice for %q", kind))
	}
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend names, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
