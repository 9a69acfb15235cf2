// Package pgstore implements remote.TableStore on PostgreSQL through the
// pgx database/sql driver. It backs both the direct "postgres" remote mode
// of the client and the gRPC backend.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/dbx"
	"github.com/dmitrijs2005/conecta/internal/server/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Request errors match remote.ErrInvalid so the adapter does not treat them
// as an outage.
var (
	ErrUnknownTable  = fmt.Errorf("%w: unknown table", remote.ErrInvalid)
	ErrUnknownColumn = fmt.Errorf("%w: unknown column", remote.ErrInvalid)
	ErrEmptyFilter   = fmt.Errorf("%w: delete requires a filter", remote.ErrInvalid)
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

type Store struct {
	db   *sql.DB
	conn dbx.DBTX
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, conn: db}
}

// Open connects with the pgx driver. When migrate is true the schema is
// brought up to date first.
func Open(ctx context.Context, dsn string, migrate bool) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if migrate {
		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return New(db), nil
}

func (s *Store) query(ctx context.Context, name string, f remote.Filter, limit int) ([]remote.Row, error) {
	t, err := lookup(name)
	if err != nil {
		return nil, err
	}
	where, args, err := t.where(f, 1)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", strings.Join(t.columns, ", "), name, where, t.orderBy)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []remote.Row
	for rows.Next() {
		vals := make([]any, len(t.columns))
		ptrs := make([]any, len(t.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		r := make(remote.Row, len(t.columns))
		for i, c := range t.columns {
			r[c] = normalize(vals[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *Store) Select(ctx context.Context, table string, filter remote.Filter) ([]remote.Row, error) {
	return s.query(ctx, table, filter, 0)
}

func (s *Store) Get(ctx context.Context, table string, filter remote.Filter) (remote.Row, error) {
	rows, err := s.query(ctx, table, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, remote.ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) Insert(ctx context.Context, table string, row remote.Row) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	cols, ph, args, err := t.values(row)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
	if _, err := s.conn.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, table string, conflict []string, row remote.Row) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	if len(conflict) == 0 {
		return s.Insert(ctx, table, row)
	}
	isConflict := make(map[string]bool, len(conflict))
	for _, c := range conflict {
		if !t.has(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		isConflict[c] = true
	}

	cols, ph, args, err := t.values(row)
	if err != nil {
		return err
	}
	var set []string
	for _, c := range cols {
		if !isConflict[c] {
			set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	action := "DO NOTHING"
	if len(set) > 0 {
		action = "DO UPDATE SET " + strings.Join(set, ", ")
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) %s",
		table, strings.Join(cols, ", "), strings.Join(ph, ", "), strings.Join(conflict, ", "), action)
	if _, err := s.conn.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, table string, filter remote.Filter) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	if len(filter) == 0 {
		return ErrEmptyFilter
	}
	where, args, err := t.where(filter, 1)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM "+table+where, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn against a Store bound to a single transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &Store{db: s.db, conn: tx})
	})
}

// normalize converts driver values to the JSON-compatible types Row allows.
func normalize(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case []byte:
		return string(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
