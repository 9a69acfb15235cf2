// Package datastore is the single entry point the domain services use for
// persistence. Every operation tries the remote adapter first when it is
// ready, mirrors successful results into the local store, and falls back to
// the local store otherwise. Loads always return a value.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/localstore"
	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

var (
	// ErrPersistence means no tier accepted a write.
	ErrPersistence = errors.New("persistence failure")
	// ErrNoMatch means neither tier knows an active user with these credentials.
	ErrNoMatch = errors.New("no matching user")
)

// MaxActivities caps the local activity log.
const MaxActivities = 1000

// Remote is the replication tier. *remote.Adapter implements it.
type Remote interface {
	IsAvailable() bool
	LoadUsers(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
	DeleteUser(ctx context.Context, id string) error
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
	RegisterUser(ctx context.Context, u models.User) error
	LoadSettings(ctx context.Context, ownerID string) (models.Settings, error)
	SaveSettings(ctx context.Context, ownerID string, s models.Settings) error
	LoadCustomIcons(ctx context.Context, ownerID string) (models.Catalog, error)
	SaveCustomIcons(ctx context.Context, ownerID string, c models.Catalog) error
	LogActivity(ctx context.Context, a models.Activity) error
	PresignReportUpload(ctx context.Context, name string) (string, error)
}

type Facade struct {
	local  *localstore.Store
	remote Remote
	logger logging.Logger
	now    func() time.Time
}

func New(local *localstore.Store, r Remote, logger logging.Logger) *Facade {
	return &Facade{
		local:  local,
		remote: r,
		logger: logger.With("module", "datastore"),
		now:    time.Now,
	}
}

// entity describes how one kind of value is kept on both tiers. A nil
// remoteLoad/remoteSave keeps the value local only.
type entity[T any] struct {
	key            string
	def            func() T
	persistDefault bool
	remoteLoad     func(ctx context.Context) (T, error)
	remoteSave     func(ctx context.Context, v T) error
	// accept rejects remote results that should not replace local data.
	accept func(v T) bool
	// merge carries local-only fields into an accepted remote value.
	merge func(local, fresh T) T
}

func (f *Facade) remoteReady(hasOp bool) bool {
	return hasOp && f.remote != nil && f.remote.IsAvailable()
}

func load[T any](ctx context.Context, f *Facade, e entity[T]) T {
	if f.remoteReady(e.remoteLoad != nil) {
		v, err := e.remoteLoad(ctx)
		switch {
		case err != nil:
			f.logger.Debug(ctx, "remote load failed, using local", "key", e.key, "err", err)
		case e.accept != nil && !e.accept(v):
			f.logger.Debug(ctx, "remote value rejected, using local", "key", e.key)
		default:
			if e.merge != nil {
				if old, found, err := localstore.Lookup[T](ctx, f.local, e.key); err == nil && found {
					v = e.merge(old, v)
				}
			}
			if err := f.local.Set(ctx, e.key, v); err != nil {
				f.logger.Warn(ctx, "local mirror failed", "key", e.key, "err", err)
			}
			return v
		}
	}

	v, found, err := localstore.Lookup[T](ctx, f.local, e.key)
	if err != nil {
		f.logger.Warn(ctx, "local read failed, using default", "key", e.key, "err", err)
		return e.def()
	}
	if !found {
		v = e.def()
		if e.persistDefault {
			if err := f.local.Set(ctx, e.key, v); err != nil {
				f.logger.Warn(ctx, "persisting default failed", "key", e.key, "err", err)
			}
		}
	}
	return v
}

// update refreshes the local copy from the remote tier, applies fn under the
// local key lock and replicates the result. An error from fn aborts without
// writing and is returned unchanged. A failed local write still succeeds
// when the remote tier accepts the value.
func update[T any](ctx context.Context, f *Facade, e entity[T], fn func(v *T) error) (T, error) {
	current := load(ctx, f, e)

	called := false
	var fnErr error
	v, err := localstore.Update(ctx, f.local, e.key, func() T { return current }, func(v *T) error {
		called = true
		fnErr = fn(v)
		return fnErr
	})
	if fnErr != nil {
		return v, fnErr
	}
	if err != nil {
		f.logger.Error(ctx, "local update failed", "key", e.key, "err", err)
		if !called {
			v = current
			if err := fn(&v); err != nil {
				return v, err
			}
		}
		if f.remoteReady(e.remoteSave != nil) {
			if rerr := e.remoteSave(ctx, v); rerr == nil {
				return v, nil
			}
		}
		return v, fmt.Errorf("%w: %s: %v", ErrPersistence, e.key, err)
	}

	if f.remoteReady(e.remoteSave != nil) {
		if err := e.remoteSave(ctx, v); err != nil {
			f.logger.Debug(ctx, "remote save failed", "key", e.key, "err", err)
		}
	}
	return v, nil
}

func (f *Facade) users() entity[[]models.User] {
	e := entity[[]models.User]{
		key:            models.KeyUsers,
		def:            models.DefaultUsers,
		persistDefault: true,
		accept:         func(v []models.User) bool { return len(v) > 0 },
		merge:          keepLocalCredentials,
	}
	if f.remote != nil {
		e.remoteLoad = f.remote.LoadUsers
		e.remoteSave = f.remote.SaveUsers
	}
	return e
}

// keepLocalCredentials fills in password hashes the backend withheld from
// the local copy of the same user.
func keepLocalCredentials(local, fresh []models.User) []models.User {
	for i, u := range fresh {
		if u.Password != "" {
			continue
		}
		if j := models.FindUserByID(local, u.ID); j >= 0 {
			fresh[i].Password = local[j].Password
		}
	}
	return fresh
}

func (f *Facade) settings(ctx context.Context) entity[models.Settings] {
	e := entity[models.Settings]{key: models.KeySettings, def: models.DefaultSettings}
	if f.remote != nil {
		owner := f.ownerID(ctx)
		e.remoteLoad = func(ctx context.Context) (models.Settings, error) { return f.remote.LoadSettings(ctx, owner) }
		e.remoteSave = func(ctx context.Context, s models.Settings) error { return f.remote.SaveSettings(ctx, owner, s) }
	}
	return e
}

func (f *Facade) icons(ctx context.Context) entity[models.Catalog] {
	e := entity[models.Catalog]{key: models.KeyIcons, def: models.DefaultCatalog}
	if f.remote != nil {
		owner := f.ownerID(ctx)
		e.remoteLoad = func(ctx context.Context) (models.Catalog, error) { return f.remote.LoadCustomIcons(ctx, owner) }
		e.remoteSave = func(ctx context.Context, c models.Catalog) error { return f.remote.SaveCustomIcons(ctx, owner, c) }
	}
	return e
}

func usageEntity() entity[models.Usage] {
	return entity[models.Usage]{key: models.KeyUsage, def: models.NewUsage}
}

// LoadUsers returns the user list. An empty remote list is treated as "no
// data" and the local list is used; a fresh install seeds and stores the
// default admin.
func (f *Facade) LoadUsers(ctx context.Context) []models.User {
	return load(ctx, f, f.users())
}

// UpdateUsers applies fn to the user list and persists the result.
func (f *Facade) UpdateUsers(ctx context.Context, fn func(users *[]models.User) error) ([]models.User, error) {
	return update(ctx, f, f.users(), fn)
}

// DeleteRemoteUser removes the user row with id from the remote tier. The
// local list changes through UpdateUsers, whose replication only upserts.
func (f *Facade) DeleteRemoteUser(ctx context.Context, id string) error {
	if !f.remoteReady(true) {
		return remote.ErrUnavailable
	}
	return f.remote.DeleteUser(ctx, id)
}

// AuthenticateUser checks credentials against the remote tier and, when that
// is not ready or does not confirm them, against the local user list. Only
// active users match. A remote match is merged into the local list.
func (f *Facade) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	if f.remoteReady(true) {
		u, err := f.remote.AuthenticateUser(ctx, username, password)
		if err == nil {
			f.mirrorUser(ctx, u)
			return u, nil
		}
		f.logger.Debug(ctx, "remote authentication failed, trying local", "err", err)
	}

	users := f.LoadUsers(ctx)
	i := models.FindUser(users, username)
	if i < 0 || !users[i].IsActive {
		return models.User{}, ErrNoMatch
	}
	ok, err := credentials.Verify(users[i].Password, password)
	if err != nil {
		f.logger.Warn(ctx, "stored credential unreadable", "username", username, "err", err)
		return models.User{}, ErrNoMatch
	}
	if !ok {
		return models.User{}, ErrNoMatch
	}
	return users[i], nil
}

func (f *Facade) mirrorUser(ctx context.Context, u models.User) {
	_, err := localstore.Update(ctx, f.local, models.KeyUsers, models.DefaultUsers, func(users *[]models.User) error {
		if i := models.FindUserByID(*users, u.ID); i >= 0 {
			(*users)[i] = u
		} else {
			*users = append(*users, u)
		}
		return nil
	})
	if err != nil {
		f.logger.Warn(ctx, "local mirror failed", "key", models.KeyUsers, "err", err)
	}
}

// RegisterUser inserts u remotely (best effort) and appends it to the local
// user list.
func (f *Facade) RegisterUser(ctx context.Context, u models.User) error {
	remoteOK := false
	if f.remoteReady(true) {
		if err := f.remote.RegisterUser(ctx, u); err != nil {
			f.logger.Debug(ctx, "remote register failed", "err", err)
		} else {
			remoteOK = true
		}
	}

	_, err := localstore.Update(ctx, f.local, models.KeyUsers, models.DefaultUsers, func(users *[]models.User) error {
		*users = append(*users, u)
		return nil
	})
	if err != nil {
		f.logger.Error(ctx, "local register failed", "err", err)
		if !remoteOK {
			return fmt.Errorf("%w: %s: %v", ErrPersistence, models.KeyUsers, err)
		}
	}
	return nil
}

func (f *Facade) LoadSettings(ctx context.Context) models.Settings {
	return load(ctx, f, f.settings(ctx))
}

func (f *Facade) UpdateSettings(ctx context.Context, fn func(s *models.Settings) error) (models.Settings, error) {
	return update(ctx, f, f.settings(ctx), fn)
}

func (f *Facade) LoadIcons(ctx context.Context) models.Catalog {
	return load(ctx, f, f.icons(ctx))
}

func (f *Facade) UpdateIcons(ctx context.Context, fn func(c *models.Catalog) error) (models.Catalog, error) {
	return update(ctx, f, f.icons(ctx), fn)
}

// Usage counters are kept locally only.
func (f *Facade) LoadUsage(ctx context.Context) models.Usage {
	return load(ctx, f, usageEntity())
}

func (f *Facade) UpdateUsage(ctx context.Context, fn func(u *models.Usage) error) (models.Usage, error) {
	return update(ctx, f, usageEntity(), fn)
}

// LogActivity replicates a to the remote log and appends it to the local
// log, which keeps the newest MaxActivities entries.
func (f *Facade) LogActivity(ctx context.Context, a models.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = f.now()
	}

	remoteOK := false
	if f.remoteReady(true) {
		if err := f.remote.LogActivity(ctx, a); err != nil {
			f.logger.Debug(ctx, "remote activity log failed", "err", err)
		} else {
			remoteOK = true
		}
	}

	_, err := localstore.Update(ctx, f.local, models.KeyActivity, func() []models.Activity { return nil },
		func(log *[]models.Activity) error {
			*log = append(*log, a)
			if n := len(*log); n > MaxActivities {
				*log = append([]models.Activity(nil), (*log)[n-MaxActivities:]...)
			}
			return nil
		})
	if err != nil {
		f.logger.Error(ctx, "local activity log failed", "err", err)
		if !remoteOK {
			return fmt.Errorf("%w: %s: %v", ErrPersistence, models.KeyActivity, err)
		}
	}
	return nil
}

// Activities returns the local activity log, oldest first.
func (f *Facade) Activities(ctx context.Context) []models.Activity {
	return localstore.Get(ctx, f.local, models.KeyActivity, func() []models.Activity { return nil })
}

// Session returns the persisted session user, if any.
func (f *Facade) Session(ctx context.Context) (models.User, bool) {
	u, found, err := localstore.Lookup[models.User](ctx, f.local, models.KeyCurrentUser)
	if err != nil {
		f.logger.Warn(ctx, "session unreadable, ignoring", "err", err)
		return models.User{}, false
	}
	return u, found
}

// SetSession persists u without its credential.
func (f *Facade) SetSession(ctx context.Context, u models.User) error {
	if err := f.local.Set(ctx, models.KeyCurrentUser, u.Sanitized()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersistence, models.KeyCurrentUser, err)
	}
	return nil
}

func (f *Facade) ClearSession(ctx context.Context) error {
	if err := f.local.Delete(ctx, models.KeyCurrentUser); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersistence, models.KeyCurrentUser, err)
	}
	return nil
}

func (f *Facade) ownerID(ctx context.Context) string {
	u, ok := f.Session(ctx)
	if !ok {
		return ""
	}
	return u.ID
}

// PresignReportUpload asks the backend for an upload URL; it reports
// remote.ErrUnavailable when no backend can serve it.
func (f *Facade) PresignReportUpload(ctx context.Context, name string) (string, error) {
	if !f.remoteReady(true) {
		return "", remote.ErrUnavailable
	}
	return f.remote.PresignReportUpload(ctx, name)
}

// RemoteAvailable reports whether the remote tier is currently used.
func (f *Facade) RemoteAvailable() bool {
	return f.remoteReady(true)
}
