package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

type State int

const (
	StateUnconfigured State = iota
	StateUnreachable
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateUnreachable:
		return "configured-unreachable"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DefaultTimeout bounds every backend call when no timeout is configured.
const DefaultTimeout = 3 * time.Second

// Adapter translates between the app's models and backend rows. It never
// returns backend-specific errors: a failure comes back as ErrUnavailable,
// or as ErrNotFound, ErrRejected, ErrDenied or ErrInvalid when the backend
// answered.
//
// A nil store means the backend is unconfigured. A configured adapter starts
// unreachable and becomes ready after a successful Check. A transport failure
// drops it back to unreachable; an answer from the backend does not.
type Adapter struct {
	store   TableStore
	timeout time.Duration
	logger  logging.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state State
}

func NewAdapter(store TableStore, timeout time.Duration, logger logging.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	a := &Adapter{
		store:   store,
		timeout: timeout,
		logger:  logger.With("module", "remote"),
		now:     time.Now,
		state:   StateUnconfigured,
	}
	if store != nil {
		a.state = StateUnreachable
	}
	return a
}

func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// IsAvailable reports whether remote operations should be attempted.
func (a *Adapter) IsAvailable() bool {
	return a.State() == StateReady
}

func (a *Adapter) setState(ctx context.Context, s State) {
	a.mu.Lock()
	prev := a.state
	a.state = s
	a.mu.Unlock()
	if prev != s {
		a.logger.Info(ctx, "remote state changed", "from", prev.String(), "to", s.String())
	}
}

// Check pings the backend and updates the state accordingly.
func (a *Adapter) Check(ctx context.Context) error {
	if a.store == nil {
		return ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.setState(ctx, StateUnreachable)
		a.logger.Debug(ctx, "remote ping failed", "err", err)
		return ErrUnavailable
	}
	a.setState(ctx, StateReady)
	return nil
}

// Close releases the backend connection, if any.
func (a *Adapter) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// call runs fn against the store with the configured timeout. It refuses to
// run unless the adapter is ready. Failures the backend reported on purpose
// are returned as they are; anything else is ErrUnavailable and marks the
// backend unreachable.
func (a *Adapter) call(ctx context.Context, op string, fn func(ctx context.Context, s TableStore) error) error {
	if !a.IsAvailable() {
		return ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	err := fn(ctx, a.store)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRejected):
		return err
	case errors.Is(err, ErrDenied), errors.Is(err, ErrInvalid):
		a.logger.Warn(ctx, "remote call refused", "op", op, "err", err)
		return err
	default:
		a.logger.Warn(ctx, "remote call failed", "op", op, "err", err)
		a.setState(ctx, StateUnreachable)
		return ErrUnavailable
	}
}

// LoadUsers returns every user row, active or not.
func (a *Adapter) LoadUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := a.call(ctx, "loadUsers", func(ctx context.Context, s TableStore) error {
		rows, err := s.Select(ctx, TableUsers, nil)
		if err != nil {
			return err
		}
		users = make([]models.User, 0, len(rows))
		for _, r := range rows {
			u, err := rowToUser(r)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return nil
	})
	return users, err
}

// SaveUsers upserts every user by id. Rows missing from users are left
// alone: other devices may have added them. Removal goes through DeleteUser.
func (a *Adapter) SaveUsers(ctx context.Context, users []models.User) error {
	return a.call(ctx, "saveUsers", func(ctx context.Context, s TableStore) error {
		now := a.now()
		for _, u := range users {
			if err := s.Upsert(ctx, TableUsers, []string{"id"}, userToRow(u, now)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteUser removes the user row with id.
func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	return a.call(ctx, "deleteUser", func(ctx context.Context, s TableStore) error {
		return s.Delete(ctx, TableUsers, Filter{"id": id})
	})
}

// AuthenticateUser returns the active user with this username when password
// matches. Stores that implement Authenticator check the credential
// themselves; the user then comes back with a fresh local hash of password.
// Otherwise the row is fetched and verified here. A missing user or a wrong
// password is ErrRejected.
func (a *Adapter) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := a.call(ctx, "authenticateUser", func(ctx context.Context, s TableStore) error {
		if auth, ok := s.(Authenticator); ok {
			return a.authenticateRemotely(ctx, auth, username, password, &user)
		}

		r, err := s.Get(ctx, TableUsers, Filter{"username": username, "is_active": true})
		if errors.Is(err, ErrNotFound) {
			return ErrRejected
		}
		if err != nil {
			return err
		}
		u, err := rowToUser(r)
		if err != nil {
			return err
		}
		ok, err := credentials.Verify(u.Password, password)
		if err != nil || !ok {
			return ErrRejected
		}
		user = u
		return nil
	})
	return user, err
}

func (a *Adapter) authenticateRemotely(ctx context.Context, auth Authenticator, username, password string, user *models.User) error {
	r, err := auth.Authenticate(ctx, username, password)
	if errors.Is(err, ErrNotFound) {
		return ErrRejected
	}
	if err != nil {
		return err
	}
	u, err := rowToUser(r)
	if err != nil {
		return err
	}
	if u.Password, err = credentials.Hash(password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	*user = u
	return nil
}

// RegisterUser inserts a new user row.
func (a *Adapter) RegisterUser(ctx context.Context, u models.User) error {
	return a.call(ctx, "registerUser", func(ctx context.Context, s TableStore) error {
		return s.Insert(ctx, TableUsers, userToRow(u, a.now()))
	})
}

func (a *Adapter) LoadSettings(ctx context.Context, ownerID string) (models.Settings, error) {
	var settings models.Settings
	err := a.call(ctx, "loadSettings", func(ctx context.Context, s TableStore) error {
		r, err := s.Get(ctx, TableSettings, Filter{"user_id": owner(ownerID)})
		if err != nil {
			return err
		}
		settings = rowToSettings(r)
		return nil
	})
	return settings, err
}

func (a *Adapter) SaveSettings(ctx context.Context, ownerID string, settings models.Settings) error {
	return a.call(ctx, "saveSettings", func(ctx context.Context, s TableStore) error {
		return s.Upsert(ctx, TableSettings, []string{"user_id"}, settingsToRow(ownerID, settings, a.now()))
	})
}

func (a *Adapter) LoadCustomIcons(ctx context.Context, ownerID string) (models.Catalog, error) {
	var catalog models.Catalog
	err := a.call(ctx, "loadCustomIcons", func(ctx context.Context, s TableStore) error {
		r, err := s.Get(ctx, TableIcons, Filter{"user_id": owner(ownerID)})
		if err != nil {
			return err
		}
		catalog, err = rowToCatalog(r)
		return err
	})
	return catalog, err
}

func (a *Adapter) SaveCustomIcons(ctx context.Context, ownerID string, catalog models.Catalog) error {
	return a.call(ctx, "saveCustomIcons", func(ctx context.Context, s TableStore) error {
		row, err := catalogToRow(ownerID, catalog, a.now())
		if err != nil {
			return err
		}
		return s.Upsert(ctx, TableIcons, []string{"user_id"}, row)
	})
}

func (a *Adapter) LogActivity(ctx context.Context, act models.Activity) error {
	return a.call(ctx, "logActivity", func(ctx context.Context, s TableStore) error {
		return s.Insert(ctx, TableActivities, activityToRow(act))
	})
}

// PresignReportUpload asks the backend for an upload URL for a report file.
// Stores without object storage report ErrUnavailable.
func (a *Adapter) PresignReportUpload(ctx context.Context, name string) (string, error) {
	var url string
	err := a.call(ctx, "presignReportUpload", func(ctx context.Context, s TableStore) error {
		up, ok := s.(ReportUploader)
		if !ok {
			return ErrNotFound
		}
		var err error
		url, err = up.PresignReportUpload(ctx, name)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return "", ErrUnavailable
	}
	return url, err
}
