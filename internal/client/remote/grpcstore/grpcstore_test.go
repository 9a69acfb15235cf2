package grpcstore_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/client/remote/grpcstore"
	"github.com/dmitrijs2005/conecta/internal/client/remote/remotetest"
	"github.com/dmitrijs2005/conecta/internal/common"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/dmitrijs2005/conecta/internal/server/auth"
	gs "github.com/dmitrijs2005/conecta/internal/server/grpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const secret = "secret"

type presigner struct{}

func (presigner) PresignUpload(ctx context.Context, name string) (string, error) {
	return "https://s3.local/" + name, nil
}

// startServer runs the backend on an in-memory listener and returns a store
// dialed through it.
func startServer(t *testing.T, key string) (*grpcstore.Store, *remotetest.MemStore) {
	t.Helper()

	mem := remotetest.NewMemStore()
	srv, err := gs.NewgGRPCServer("bufnet", logging.Nop(), mem, presigner{}, secret)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()

	store, err := grpcstore.New("passthrough:///bufnet", key,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
		cancel()
		<-done
	})
	return store, mem
}

func keyFor(t *testing.T, role string) string {
	t.Helper()
	key, err := auth.GenerateAPIKey(role, []byte(secret), time.Hour)
	require.NoError(t, err)
	return key
}

func anonKey(t *testing.T) string {
	return keyFor(t, auth.RoleAnon)
}

func TestStore_TableCalls(t *testing.T) {
	ctx := context.Background()
	store, mem := startServer(t, keyFor(t, auth.RoleService))

	require.NoError(t, store.Ping(ctx))

	require.NoError(t, store.Insert(ctx, remote.TableActivities, remote.Row{
		"user_id": "u-1", "activity_type": "login", "description": "d",
	}))
	require.NoError(t, store.Upsert(ctx, remote.TableSettings, []string{"user_id"}, remote.Row{
		"user_id": "u-1", "speech_rate": 1.25,
	}))
	require.NoError(t, store.Upsert(ctx, remote.TableSettings, []string{"user_id"}, remote.Row{
		"user_id": "u-1", "speech_rate": 0.5,
	}))

	rows, err := store.Select(ctx, remote.TableSettings, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.5, rows[0]["speech_rate"])

	row, err := store.Get(ctx, remote.TableActivities, remote.Filter{"user_id": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "login", row["activity_type"])

	_, err = store.Get(ctx, remote.TableActivities, remote.Filter{"user_id": "nobody"})
	assert.ErrorIs(t, err, remote.ErrNotFound)

	require.NoError(t, store.Delete(ctx, remote.TableActivities, remote.Filter{"user_id": "u-1"}))
	assert.Empty(t, mem.Rows(remote.TableActivities))

	url, err := store.PresignReportUpload(ctx, "r.json")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/r.json", url)
}

func TestStore_Unauthorized(t *testing.T) {
	ctx := context.Background()
	store, _ := startServer(t, "")

	// ping is public
	require.NoError(t, store.Ping(ctx))

	_, err := store.Select(ctx, remote.TableUsers, nil)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestStore_BackendDownIsUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mem := startServer(t, anonKey(t))

	mem.SetFail(true)
	assert.ErrorIs(t, store.Ping(ctx), remote.ErrUnavailable)
}

func TestAdapterOverGRPC(t *testing.T) {
	ctx := context.Background()
	store, _ := startServer(t, anonKey(t))

	a := remote.NewAdapter(store, 2*time.Second, logging.Nop())
	require.NoError(t, a.Check(ctx))
	require.Equal(t, remote.StateReady, a.State())

	u := models.User{
		ID:       models.NewUserID(),
		Username: "bia",
		Password: credentials.MustHash("segredo1"),
		Name:     "Bia",
		Type:     models.UserTypeUser,
		IsActive: true,
	}
	require.NoError(t, a.RegisterUser(ctx, u))

	got, err := a.AuthenticateUser(ctx, "bia", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = a.AuthenticateUser(ctx, "bia", "wrong")
	assert.ErrorIs(t, err, remote.ErrRejected)

	settings := models.DefaultSettings()
	settings.HighContrast = true
	require.NoError(t, a.SaveSettings(ctx, u.ID, settings))
	loaded, err := a.LoadSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)

	url, err := a.PresignReportUpload(ctx, "r.json")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/r.json", url)
}

func TestStore_RoleLimits(t *testing.T) {
	ctx := context.Background()
	anon, mem := startServer(t, anonKey(t))
	mem.Seed(remote.TableUsers, remote.Row{"id": "a-1", "username": "admin",
		"password_hash": credentials.MustHash("admin123"), "user_type": "admin", "is_active": true})

	rows, err := anon.Select(ctx, remote.TableUsers, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "password_hash")

	err = anon.Delete(ctx, remote.TableUsers, remote.Filter{"id": "a-1"})
	assert.ErrorIs(t, err, remote.ErrDenied)
	assert.Len(t, mem.Rows(remote.TableUsers), 1)

	err = anon.Upsert(ctx, remote.TableUsers, []string{"id"}, remote.Row{"id": "a-1", "username": "admin", "user_type": "user"})
	assert.ErrorIs(t, err, remote.ErrDenied)

	row, err := anon.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "a-1", row["id"])
	assert.NotContains(t, row, "password_hash")

	_, err = anon.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestAdapterOverGRPC_BadKeyIsDenied(t *testing.T) {
	ctx := context.Background()
	store, _ := startServer(t, "garbage")

	a := remote.NewAdapter(store, 2*time.Second, logging.Nop())
	require.NoError(t, a.Check(ctx))

	_, err := a.LoadUsers(ctx)
	assert.True(t, errors.Is(err, remote.ErrDenied))
	assert.Equal(t, remote.StateReady, a.State(), "a refused key is not an outage")
}
