// Package remotetest provides an in-memory remote.TableStore for tests.
package remotetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/conecta/internal/client/remote"
)

var ErrInjected = errors.New("injected backend failure")

// MemStore keeps rows per table in insertion order. Set Fail to make every
// call (Ping included) return ErrInjected.
type MemStore struct {
	mu     sync.Mutex
	tables map[string][]remote.Row
	Fail   bool
	Calls  []string
	Closed bool
}

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string][]remote.Row)}
}

func (m *MemStore) enter(op string) error {
	m.Calls = append(m.Calls, op)
	if m.Fail {
		return ErrInjected
	}
	return nil
}

// SetFail toggles failure injection.
func (m *MemStore) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fail = fail
}

// Rows returns a copy of the rows of table.
func (m *MemStore) Rows(table string) []remote.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]remote.Row, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, clone(r))
	}
	return out
}

// Seed appends rows to table without going through Insert.
func (m *MemStore) Seed(table string, rows ...remote.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], clone(r))
	}
}

func clone(r remote.Row) remote.Row {
	c := make(remote.Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

func matches(r remote.Row, f remote.Filter) bool {
	for k, v := range f {
		if fmt.Sprint(r[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func (m *MemStore) Select(ctx context.Context, table string, filter remote.Filter) ([]remote.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("select:" + table); err != nil {
		return nil, err
	}
	var out []remote.Row
	for _, r := range m.tables[table] {
		if matches(r, filter) {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (m *MemStore) Get(ctx context.Context, table string, filter remote.Filter) (remote.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("get:" + table); err != nil {
		return nil, err
	}
	for _, r := range m.tables[table] {
		if matches(r, filter) {
			return clone(r), nil
		}
	}
	return nil, remote.ErrNotFound
}

func (m *MemStore) Insert(ctx context.Context, table string, row remote.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("insert:" + table); err != nil {
		return err
	}
	m.tables[table] = append(m.tables[table], clone(row))
	return nil
}

func (m *MemStore) Upsert(ctx context.Context, table string, conflict []string, row remote.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("upsert:" + table); err != nil {
		return err
	}
	key := remote.Filter{}
	for _, c := range conflict {
		key[c] = row[c]
	}
	for i, r := range m.tables[table] {
		if matches(r, key) {
			m.tables[table][i] = clone(row)
			return nil
		}
	}
	m.tables[table] = append(m.tables[table], clone(row))
	return nil
}

func (m *MemStore) Delete(ctx context.Context, table string, filter remote.Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("delete:" + table); err != nil {
		return err
	}
	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if !matches(r, filter) {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *MemStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enter("ping")
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// UploadStore is a MemStore that also presigns report uploads.
type UploadStore struct {
	*MemStore
	URL string
}

func (u *UploadStore) PresignReportUpload(ctx context.Context, name string) (string, error) {
	if err := u.Ping(ctx); err != nil {
		return "", err
	}
	return u.URL + "/" + name, nil
}
