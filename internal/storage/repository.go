// Package storage defines the storage-agnostic contract for the optional
// export sink and a factory registry that concrete backends hook into at
// init time. Importing salesreport/internal/storage/all (even blank) makes
// every built-in backend available.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Column describes one exported table column. Type is a portable tag the
// backend maps onto its own DDL: "text", "integer" or "real".
type Column struct {
	Name string
	Type string
}

// Repository is a database the export sink can write derived tables into.
// Reset drops and recreates a table so repeated runs stay idempotent.
type Repository interface {
	Reset(ctx context.Context, table string, columns []Column) error
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind names a registered backend ("sqlite", "postgres").
	Kind string
	// DSN is passed through to the backend driver.
	DSN string
	// TablePrefix is prepended to every exported table name.
	TablePrefix string
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under kind. Backends call this from
// init; a duplicate kind panics because it is a wiring bug.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic("storage: duplicate backend " + kind)
	}
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown backend %q (have %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend names, sorted.
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
