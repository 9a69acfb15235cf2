package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/datastore"
	"github.com/dmitrijs2005/conecta/internal/client/localstore"
	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/client/remote/remotetest"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/require"
)

var fake = faker.New()

// newStore returns a facade over an in-memory SQLite store and no backend.
func newStore(t *testing.T) *datastore.Facade {
	t.Helper()
	local, err := localstore.Open(context.Background(), ":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })
	return datastore.New(local, remote.NewAdapter(nil, time.Second, logging.Nop()), logging.Nop())
}

// newRemoteStore is newStore with a ready in-memory backend that can also
// presign report uploads to url.
func newRemoteStore(t *testing.T, url string) (*datastore.Facade, *remotetest.UploadStore) {
	t.Helper()
	ctx := context.Background()
	local, err := localstore.Open(ctx, ":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	up := &remotetest.UploadStore{MemStore: remotetest.NewMemStore(), URL: url}
	a := remote.NewAdapter(up, time.Second, logging.Nop())
	require.NoError(t, a.Check(ctx))
	return datastore.New(local, a, logging.Nop()), up
}

type person struct {
	name     string
	username string
	email    string
	password string
}

func newPerson() person {
	p := fake.Person()
	first := strings.ToLower(p.FirstName())
	return person{
		name:     p.FirstName() + " " + p.LastName(),
		username: fmt.Sprintf("%s%d", first, fake.IntBetween(100, 9999)),
		email:    fmt.Sprintf("%s@example.com", first),
		password: fake.Internet().Password() + "Ab1!xy",
	}
}

// addUser stores p directly, bypassing the services.
func addUser(t *testing.T, s Store, p person, typ models.UserType, active bool) models.User {
	t.Helper()
	u := models.User{
		ID:        models.NewUserID(),
		Username:  p.username,
		Password:  credentials.MustHash(p.password),
		Name:      p.name,
		Email:     p.email,
		Type:      typ,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.UpdateUsers(context.Background(), func(users *[]models.User) error {
		*users = append(*users, u)
		return nil
	})
	require.NoError(t, err)
	return u
}

func storedUser(t *testing.T, s Store, id string) models.User {
	t.Helper()
	users := s.LoadUsers(context.Background())
	i := models.FindUserByID(users, id)
	require.GreaterOrEqual(t, i, 0, "user %s not stored", id)
	return users[i]
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
