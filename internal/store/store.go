// Package store defines the Store Adapter abstraction: the single point of
// I/O every other databayes component goes through. It is deliberately
// narrow — get/set/delete/exists, atomic incr/decr, and glob-pattern
// enumeration — so that the backend (a SQLite-backed implementation by
// default) can be swapped without touching the index, filter, or Bayesian
// engines.
package store

import (
	"context"
	"errors"
)

// ErrConnection signals that the backend itself is unreachable — a fatal
// condition that surfaces to the caller unchanged, per §7. A missing key is
// never reported as an error; Get and Exists simply report absence.
var ErrConnection = errors.New("store: backend connection failed")

// Store is the abstract string-keyed associative memory every other
// component is built on.
type Store interface {
	// Get returns the value stored at key. ok is false when the key is
	// absent; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value at key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is currently present.
	Exists(ctx context.Context, key string) (bool, error)

	// Incr atomically adds n to the integer stored at key (treating an
	// absent key as zero) and returns the new value.
	Incr(ctx context.Context, key string, n int64) (int64, error)

	// Decr atomically subtracts n from the integer stored at key (treating
	// an absent key as zero) and returns the new value. Implementations do
	// not clamp; callers that must not go negative (the global relation
	// counter, per §4.4) clamp themselves and log through the Emitter.
	Decr(ctx context.Context, key string, n int64) (int64, error)

	// Keys returns every currently live key matching pattern, which may
	// contain "*" wildcards. No ordering is guaranteed.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close releases any resources (connections, file locks) held by the
	// backend.
	Close() error
}
