// Package sqlite is the default Store Adapter backend: a single key/value
// table in a SQLite database opened through the pure-Go, cgo-free
// github.com/ncruces/go-sqlite3 driver — the same driver the teacher uses
// for its issue database, chosen there (and here) to avoid a cgo build
// dependency. Prefix enumeration uses SQLite's native GLOB operator, which
// already implements the "*" wildcard §4.1 requires; the atomic counter
// operations run inside a single database/sql transaction, grounded on the
// teacher's RunInTransaction pattern in internal/storage/storage.go.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/mod/semver"

	"github.com/rfaulkner/databayes/internal/emit"
	"github.com/rfaulkner/databayes/internal/store"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SchemaVersion is stamped into the reserved "databayes:schema_version" key
// on first open, and compared on every subsequent open so an operator
// upgrading the binary against an older on-disk store gets a Note rather
// than silent behavior drift. It is a compatibility tag, not a migration
// engine — databayes's Non-goals exclude schema migration of the data
// model itself.
const SchemaVersion = "v1.0.0"

const schemaVersionKey = "databayes:schema_version"

const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store is the SQLite-backed Store Adapter.
type Store struct {
	db      *sql.DB
	path    string
	lock    *flock.Flock
	emitter *emit.Emitter
}

// Option configures Open.
type Option func(*options)

type options struct {
	emitter  *emit.Emitter
	useFlock bool
}

// WithEmitter routes schema-version notes, and the file-change notes of
// WatchExternalWrites, through e instead of discarding them. Lock
// contention on Open is returned as an error, not emitted.
func WithEmitter(e *emit.Emitter) Option {
	return func(o *options) { o.emitter = e }
}

// WithFileLock enables an advisory file lock around the backing database
// file, preventing two daemon processes from opening the same store
// concurrently — see §5's "operator's choice to serialize writes."
func WithFileLock(enabled bool) Option {
	return func(o *options) { o.useFlock = enabled }
}

// Open opens (creating if absent) a SQLite-backed store at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	cfg := options{useFlock: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var lock *flock.Flock
	if cfg.useFlock && path != ":memory:" {
		lock = flock.New(path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("%w: acquiring file lock: %v", store.ErrConnection, err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: database %s is locked by another process", store.ErrConnection, path)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer; serialize at the pool too.

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("%w: creating schema: %v", store.ErrConnection, err)
	}

	s := &Store{db: db, path: path, lock: lock, emitter: cfg.emitter}
	if err := s.checkSchemaVersion(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) checkSchemaVersion(ctx context.Context) error {
	existing, ok, err := s.Get(ctx, schemaVersionKey)
	if err != nil {
		return err
	}
	if !ok {
		return s.Set(ctx, schemaVersionKey, SchemaVersion)
	}
	if s.emitter != nil && semver.Compare("v"+strings.TrimPrefix(existing, "v"), SchemaVersion) < 0 {
		s.emitter.Note(fmt.Sprintf("store: on-disk schema %s predates binary schema %s", existing, SchemaVersion), true)
	}
	return nil
}

var _ store.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM kv WHERE key = ? LIMIT 1`, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return true, nil
}

func (s *Store) Incr(ctx context.Context, key string, n int64) (int64, error) {
	return s.addAtomic(ctx, key, n)
}

func (s *Store) Decr(ctx context.Context, key string, n int64) (int64, error) {
	return s.addAtomic(ctx, key, -n)
}

// addAtomic runs the read-modify-write inside one transaction (begun with
// database/sql's default options) on the store's single pooled connection,
// so two concurrent callers never interleave on the same key — the atomic
// counter guarantee §4.1 requires of the backend.
func (s *Store) addAtomic(ctx context.Context, key string, delta int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&current)
	var base int64
	switch {
	case err == sql.ErrNoRows:
		base = 0
	case err != nil:
		return 0, fmt.Errorf("%w: %v", store.ErrConnection, err)
	default:
		base, _ = strconv.ParseInt(current, 10, 64) // malformed counter treated as zero
	}

	next := base + delta
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, strconv.FormatInt(next, 10)); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return next, nil
}

func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv WHERE key GLOB ?`, globEscape(pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrConnection, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) Close() error {
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

var globSpecial = regexp.MustCompile(`[\[\]?]`)

// globEscape bracket-escapes SQLite GLOB metacharacters other than "*" so a
// literal "?" or "[" inside an entity or relation name is never misread as
// a wildcard — only "*" behaves specially, matching §4.1's contract.
func globEscape(pattern string) string {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = globSpecial.ReplaceAllStringFunc(p, func(m string) string {
			return "[" + m + "]"
		})
	}
	return strings.Join(parts, "*")
}
