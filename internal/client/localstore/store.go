package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/conecta/internal/client/migrations"
	"github.com/dmitrijs2005/conecta/internal/dbx"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded SQLite migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Store serializes values to JSON under string keys. Writes to one key are
// serialized, so a read-modify-write through Update never loses an
// interleaved write from another goroutine.
type Store struct {
	db     *sql.DB
	repo   Repository
	logger logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("local store migrations: %w", err)
	}
	return New(db, logger), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, logger logging.Logger) *Store {
	return &Store{
		db:     db,
		repo:   NewSQLiteRepository(db),
		logger: logger.With("module", "localstore"),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Set stores v as JSON under key.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	return s.repo.Set(ctx, key, data)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	return s.repo.Delete(ctx, key)
}

// Keys lists the stored keys.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	m, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys, nil
}

// Lookup decodes the value under key. found is false when nothing is stored.
func Lookup[T any](ctx context.Context, s *Store, key string) (v T, found bool, err error) {
	data, err := s.repo.Get(ctx, key)
	if err != nil {
		return v, false, err
	}
	if data == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}

// Get returns the value under key, or def() when the key is absent,
// unreadable or not valid JSON. Failures are logged, never returned.
func Get[T any](ctx context.Context, s *Store, key string, def func() T) T {
	v, found, err := Lookup[T](ctx, s, key)
	if err != nil {
		s.logger.Warn(ctx, "local read failed, using default", "key", key, "err", err)
		return def()
	}
	if !found {
		return def()
	}
	return v
}

// Update runs fn on the current value of key (def() if absent or corrupt)
// and stores the result, all in one transaction while holding the key lock.
// If fn returns an error nothing is written.
func Update[T any](ctx context.Context, s *Store, key string, def func() T, fn func(v *T) error) (T, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	var result T
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		data, err := repo.Get(ctx, key)
		if err != nil {
			return err
		}
		var v T
		switch {
		case data == nil:
			v = def()
		case json.Unmarshal(data, &v) != nil:
			s.logger.Warn(ctx, "stored value unreadable, starting from default", "key", key)
			v = def()
		}

		if err := fn(&v); err != nil {
			return err
		}

		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := repo.Set(ctx, key, out); err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
