package remote_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/client/remote/remotetest"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyAdapter(t *testing.T) (*remote.Adapter, *remotetest.MemStore) {
	t.Helper()
	store := remotetest.NewMemStore()
	a := remote.NewAdapter(store, time.Second, logging.Nop())
	require.NoError(t, a.Check(context.Background()))
	require.True(t, a.IsAvailable())
	return a, store
}

func TestAdapter_States(t *testing.T) {
	ctx := context.Background()

	unconfigured := remote.NewAdapter(nil, 0, logging.Nop())
	assert.Equal(t, remote.StateUnconfigured, unconfigured.State())
	assert.False(t, unconfigured.IsAvailable())
	assert.ErrorIs(t, unconfigured.Check(ctx), remote.ErrUnavailable)
	_, err := unconfigured.LoadUsers(ctx)
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.NoError(t, unconfigured.Close())

	store := remotetest.NewMemStore()
	a := remote.NewAdapter(store, time.Second, logging.Nop())
	assert.Equal(t, remote.StateUnreachable, a.State(), "configured adapters start unreachable")

	require.NoError(t, a.Check(ctx))
	assert.Equal(t, remote.StateReady, a.State())

	store.SetFail(true)
	assert.ErrorIs(t, a.Check(ctx), remote.ErrUnavailable)
	assert.Equal(t, remote.StateUnreachable, a.State())

	assert.Equal(t, "configured-unreachable", remote.StateUnreachable.String())
}

func TestAdapter_NotReadySkipsBackend(t *testing.T) {
	store := remotetest.NewMemStore()
	a := remote.NewAdapter(store, time.Second, logging.Nop())

	err := a.SaveSettings(context.Background(), "u1", models.DefaultSettings())
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Empty(t, store.Calls)
}

func TestAdapter_FailureMarksUnreachable(t *testing.T) {
	a, store := readyAdapter(t)
	store.SetFail(true)

	_, err := a.LoadUsers(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.NotErrorIs(t, err, remotetest.ErrInjected, "backend errors must not leak")
	assert.Equal(t, remote.StateUnreachable, a.State())
}

func TestAdapter_UsersRoundTripWithSnakeCaseColumns(t *testing.T) {
	a, store := readyAdapter(t)
	ctx := context.Background()

	users := []models.User{
		{ID: "u1", Username: "ana", Password: credentials.MustHash("secret1"), Name: "Ana",
			Email: "ana@example.com", ProfilePhoto: "data:image/png;base64,AAAA", Type: models.UserTypeUser, IsActive: true,
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "u2", Username: "bia", Password: credentials.MustHash("secret2"), Name: "Bia", Type: models.UserTypeAdmin},
	}
	require.NoError(t, a.SaveUsers(ctx, users))

	rows := store.Rows(remote.TableUsers)
	require.Len(t, rows, 2)
	assert.Equal(t, "data:image/png;base64,AAAA", rows[0]["profile_photo"])
	assert.Equal(t, users[0].Password, rows[0]["password_hash"])
	assert.Equal(t, false, rows[1]["is_active"])
	assert.Nil(t, rows[1]["email"])

	got, err := a.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, users[0], got[0])
	assert.False(t, got[1].IsActive)
	assert.False(t, got[1].CreatedAt.IsZero(), "created_at is filled in on save")
}

func TestAdapter_SaveUsersOnlyUpserts(t *testing.T) {
	a, store := readyAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveUsers(ctx, []models.User{{ID: "u1", Username: "a"}, {ID: "u2", Username: "b"}}))
	require.NoError(t, a.SaveUsers(ctx, []models.User{{ID: "u2", Username: "b", Name: "B"}}))

	rows := store.Rows(remote.TableUsers)
	require.Len(t, rows, 2, "rows missing from the list stay in place")
	assert.Equal(t, "u1", rows[0]["id"])
	assert.Equal(t, "B", rows[1]["name"])
	assert.NotContains(t, store.Calls, "delete:"+remote.TableUsers)
}

func TestAdapter_DeleteUser(t *testing.T) {
	a, store := readyAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveUsers(ctx, []models.User{{ID: "u1", Username: "a"}, {ID: "u2", Username: "b"}}))
	require.NoError(t, a.DeleteUser(ctx, "u1"))

	rows := store.Rows(remote.TableUsers)
	require.Len(t, rows, 1)
	assert.Equal(t, "u2", rows[0]["id"])
}

func TestAdapter_InvalidRowsKeepBackendReady(t *testing.T) {
	a, store := readyAdapter(t)
	store.Seed(remote.TableUsers, remote.Row{"username": "sem-id"})

	_, err := a.LoadUsers(context.Background())
	assert.ErrorIs(t, err, remote.ErrInvalid)
	assert.Equal(t, remote.StateReady, a.State(), "bad data is not a transport failure")
}

type deniedStore struct{ *remotetest.MemStore }

func (s deniedStore) Delete(ctx context.Context, table string, f remote.Filter) error {
	return fmt.Errorf("%w: permission denied", remote.ErrDenied)
}

func TestAdapter_DeniedKeepsBackendReady(t *testing.T) {
	a := remote.NewAdapter(deniedStore{remotetest.NewMemStore()}, time.Second, logging.Nop())
	require.NoError(t, a.Check(context.Background()))

	err := a.DeleteUser(context.Background(), "u1")
	assert.ErrorIs(t, err, remote.ErrDenied)
	assert.True(t, a.IsAvailable())
}

// authStore checks credentials itself and never hands out hashes.
type authStore struct {
	*remotetest.MemStore
	password string
}

func (s authStore) Authenticate(ctx context.Context, username, password string) (remote.Row, error) {
	if username != "ana" || password != s.password {
		return nil, remote.ErrNotFound
	}
	return remote.Row{"id": "u1", "username": "ana", "name": "Ana", "is_active": true,
		"user_type": "user", "created_at": "2024-01-01T00:00:00Z"}, nil
}

func TestAdapter_AuthenticateUserRemotely(t *testing.T) {
	store := authStore{MemStore: remotetest.NewMemStore(), password: "secret1"}
	a := remote.NewAdapter(store, time.Second, logging.Nop())
	ctx := context.Background()
	require.NoError(t, a.Check(ctx))

	u, err := a.AuthenticateUser(ctx, "ana", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	ok, err := credentials.Verify(u.Password, "secret1")
	require.NoError(t, err)
	assert.True(t, ok, "a local hash is derived for offline logins")
	assert.NotContains(t, store.Calls, "get:"+remote.TableUsers)

	_, err = a.AuthenticateUser(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, remote.ErrRejected)
	assert.True(t, a.IsAvailable())
}

func TestAdapter_AuthenticateUser(t *testing.T) {
	a, _ := readyAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.RegisterUser(ctx, models.User{ID: "u1", Username: "ana", Password: credentials.MustHash("secret1"), Name: "Ana", IsActive: true}))
	require.NoError(t, a.RegisterUser(ctx, models.User{ID: "u2", Username: "off", Password: credentials.MustHash("secret1"), Name: "Off", IsActive: false}))

	u, err := a.AuthenticateUser(ctx, "ana", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = a.AuthenticateUser(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, remote.ErrRejected)

	_, err = a.AuthenticateUser(ctx, "ghost", "secret1")
	assert.ErrorIs(t, err, remote.ErrRejected)

	_, err = a.AuthenticateUser(ctx, "off", "secret1")
	assert.ErrorIs(t, err, remote.ErrRejected, "inactive users cannot log in")

	assert.True(t, a.IsAvailable(), "a rejection is not a backend failure")
}

func TestAdapter_Settings(t *testing.T) {
	a, store := readyAdapter(t)
	ctx := context.Background()

	_, err := a.LoadSettings(ctx, "u1")
	assert.ErrorIs(t, err, remote.ErrNotFound)

	s := models.Settings{SpeechRate: 0.8, SpeechVolume: 0.5, HighContrast: true}
	require.NoError(t, a.SaveSettings(ctx, "u1", s))
	require.NoError(t, a.SaveSettings(ctx, "u1", s))
	require.Len(t, store.Rows(remote.TableSettings), 1, "upsert on user_id")

	got, err := a.LoadSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, a.SaveSettings(ctx, "", models.DefaultSettings()))
	assert.Equal(t, remote.DefaultOwner, store.Rows(remote.TableSettings)[1]["user_id"])
}

func TestAdapter_SettingsNullColumnsKeepDefaults(t *testing.T) {
	a, store := readyAdapter(t)
	store.Seed(remote.TableSettings, remote.Row{"user_id": "u1", "speech_rate": 2.0, "sound_feedback": nil})

	got, err := a.LoadSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.SpeechRate)
	assert.Equal(t, 1.0, got.SpeechVolume)
	assert.True(t, got.SoundFeedback)
}

func TestAdapter_CustomIcons(t *testing.T) {
	a, _ := readyAdapter(t)
	ctx := context.Background()

	c := models.DefaultCatalog()
	c.Set("animais", []models.Icon{{ID: 99, Emoji: "🐶", Text: "Cachorro", Category: "animais"}})
	require.NoError(t, a.SaveCustomIcons(ctx, "u1", c))

	got, err := a.LoadCustomIcons(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, c.Keys(), got.Keys())
	assert.Equal(t, 37, models.TotalIcons(&got))
}

func TestAdapter_LogActivity(t *testing.T) {
	a, store := readyAdapter(t)

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, a.LogActivity(context.Background(), models.Activity{UserID: "u1", Type: "login", Description: "Login realizado por Ana", CreatedAt: at}))

	rows := store.Rows(remote.TableActivities)
	require.Len(t, rows, 1)
	assert.Equal(t, "login", rows[0]["activity_type"])
	assert.Equal(t, "2024-02-03T04:05:06Z", rows[0]["created_at"])
}

func TestAdapter_PresignReportUpload(t *testing.T) {
	a, _ := readyAdapter(t)
	_, err := a.PresignReportUpload(context.Background(), "r.json")
	assert.ErrorIs(t, err, remote.ErrUnavailable, "plain stores cannot presign")

	up := &remotetest.UploadStore{MemStore: remotetest.NewMemStore(), URL: "http://s3.local/reports"}
	b := remote.NewAdapter(up, time.Second, logging.Nop())
	require.NoError(t, b.Check(context.Background()))
	url, err := b.PresignReportUpload(context.Background(), "r.json")
	require.NoError(t, err)
	assert.Equal(t, "http://s3.local/reports/r.json", url)
}

type slowStore struct{ *remotetest.MemStore }

func (s slowStore) Select(ctx context.Context, table string, f remote.Filter) ([]remote.Row, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAdapter_CallsAreBoundedByTimeout(t *testing.T) {
	store := slowStore{remotetest.NewMemStore()}
	a := remote.NewAdapter(store, 50*time.Millisecond, logging.Nop())
	require.NoError(t, a.Check(context.Background()))

	start := time.Now()
	_, err := a.LoadUsers(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.False(t, a.IsAvailable())
}
