package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

var userCols = []string{"id", "username", "password_hash", "name", "email", "profile_photo", "user_type", "is_active", "created_at", "updated_at"}

func TestSelect_FilterAndNormalize(t *testing.T) {
	s, mock := newStoreWithMock(t)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	q := `(?s)^SELECT id, username, password_hash, name, email, profile_photo, user_type, is_active, created_at, updated_at FROM conecta_users WHERE is_active = \$1 AND username = \$2 ORDER BY created_at, id$`
	mock.ExpectQuery(q).
		WithArgs(true, "ana").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "ana", []byte("hash"), "Ana", nil, nil, "user", true, created, created))

	rows, err := s.Select(context.Background(), remote.TableUsers, remote.Filter{"username": "ana", "is_active": true})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "u-1", r["id"])
	assert.Equal(t, "hash", r["password_hash"])
	assert.Nil(t, r["email"])
	assert.Equal(t, true, r["is_active"])
	assert.Equal(t, "2024-03-01T13:00:00Z", r["created_at"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_NoFilter(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT user_id, catalog, updated_at FROM conecta_icons ORDER BY user_id$`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "catalog", "updated_at"}))

	rows, err := s.Select(context.Background(), remote.TableIcons, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM conecta_settings`).WillReturnError(errors.New("db down"))

	_, err := s.Select(context.Background(), remote.TableSettings, nil)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSelect_UnknownIdentifiers(t *testing.T) {
	s, _ := newStoreWithMock(t)

	_, err := s.Select(context.Background(), "users; DROP TABLE x", nil)
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, err = s.Select(context.Background(), remote.TableUsers, remote.Filter{"1=1 OR username": "x"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.ErrorIs(t, err, remote.ErrInvalid)
}

func TestGet_FoundAndNotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	q := `(?s)^SELECT user_id, catalog, updated_at FROM conecta_icons WHERE user_id = \$1 ORDER BY user_id LIMIT 1$`
	mock.ExpectQuery(q).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "catalog", "updated_at"}).AddRow("u-1", `{"a":[]}`, "2024-01-01T00:00:00Z"))
	mock.ExpectQuery(q).WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "catalog", "updated_at"}))

	r, err := s.Get(context.Background(), remote.TableIcons, remote.Filter{"user_id": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[]}`, r["catalog"])

	_, err = s.Get(context.Background(), remote.TableIcons, remote.Filter{"user_id": "u-2"})
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert(t *testing.T) {
	s, mock := newStoreWithMock(t)

	q := `(?s)^INSERT INTO conecta_activities \(activity_type, created_at, description, user_id\) VALUES \(\$1, \$2, \$3, \$4\)$`
	mock.ExpectExec(q).
		WithArgs("login", "2024-01-01T00:00:00Z", "Login realizado por Ana", "u-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Insert(context.Background(), remote.TableActivities, remote.Row{
		"user_id":       "u-1",
		"activity_type": "login",
		"description":   "Login realizado por Ana",
		"created_at":    "2024-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	s, mock := newStoreWithMock(t)

	q := `(?s)^INSERT INTO conecta_settings \(high_contrast, speech_rate, user_id\) VALUES \(\$1, \$2, \$3\) ` +
		`ON CONFLICT \(user_id\) DO UPDATE SET high_contrast = EXCLUDED.high_contrast, speech_rate = EXCLUDED.speech_rate$`
	mock.ExpectExec(q).
		WithArgs(true, 1.5, "default").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Upsert(context.Background(), remote.TableSettings, []string{"user_id"}, remote.Row{
		"user_id":       "default",
		"speech_rate":   1.5,
		"high_contrast": true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_OnlyConflictColumns(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(`ON CONFLICT \(user_id\) DO NOTHING$`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Upsert(context.Background(), remote.TableIcons, []string{"user_id"}, remote.Row{"user_id": "u-1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_UnknownConflictColumn(t *testing.T) {
	s, _ := newStoreWithMock(t)

	err := s.Upsert(context.Background(), remote.TableIcons, []string{"nope"}, remote.Row{"user_id": "u-1"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestDelete(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^DELETE FROM conecta_users WHERE id = \$1$`).
		WithArgs("u-9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), remote.TableUsers, remote.Filter{"id": "u-9"}))
	assert.ErrorIs(t, s.Delete(context.Background(), remote.TableUsers, nil), ErrEmptyFilter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("conn refused"))

	assert.NoError(t, s.Ping(context.Background()))
	assert.Error(t, s.Ping(context.Background()))
}

func TestWithTx_CommitsInsert(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO conecta_icons`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(ctx context.Context, tx *Store) error {
		return tx.Insert(ctx, remote.TableIcons, remote.Row{"user_id": "u-1", "catalog": "{}"})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Seam(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.EqualError(t, RunMigrations(context.Background(), db), "boom")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, int64(7), normalize(int32(7)))
	assert.Equal(t, float64(float32(0.5)), normalize(float32(0.5)))
	assert.Equal(t, "x", normalize([]byte("x")))
	assert.Nil(t, normalize(nil))
}
