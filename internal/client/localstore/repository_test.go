package localstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock, db
}

func TestRepository_GetNotExists_ReturnsNilNil(t *testing.T) {
	r, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs("absent").
		WillReturnError(sql.ErrNoRows)

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRepository_GetError_IsWrapped(t *testing.T) {
	r, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT value FROM kv`).
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get kv[k]")
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestRepository_SetError_IsWrapped(t *testing.T) {
	r, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`(?s)INSERT INTO kv .* ON CONFLICT\(key\) DO UPDATE`).
		WithArgs("k", `{"a":1}`).
		WillReturnError(errors.New("database or disk is full"))

	err := r.Set(context.Background(), "k", []byte(`{"a":1}`))
	require.ErrorContains(t, err, "failed to set kv[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	r, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT key, value FROM kv`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("conecta-settings", `{}`).
			AddRow("conecta-usage", `{"daily":{}}`))

	m, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte(`{}`), m["conecta-settings"])
}
