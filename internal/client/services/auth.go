package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

// AuthService logs users in and out and registers new accounts.
type AuthService struct {
	store  Store
	logger logging.Logger
	now    func() time.Time
}

func NewAuthService(store Store, logger logging.Logger) *AuthService {
	return &AuthService{store: store, logger: logger.With("service", "auth"), now: time.Now}
}

// Login checks the credentials, opens the session and records a login
// activity. Unknown users, inactive users and wrong passwords all yield
// ErrAuthFailed. A credential still stored in a legacy form is re-hashed.
func (a *AuthService) Login(ctx context.Context, username, password string) (models.User, error) {
	u, err := a.store.AuthenticateUser(ctx, username, password)
	if err != nil {
		a.logger.Info(ctx, "login rejected", "username", username)
		return models.User{}, ErrAuthFailed
	}

	if credentials.NeedsRehash(u.Password) {
		a.upgradeCredential(ctx, u.ID, password)
	}

	if err := a.store.SetSession(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("session error: %w", err)
	}

	act := models.Activity{
		UserID:      u.ID,
		Type:        models.ActivityLogin,
		Description: "Login realizado por " + u.Name,
		CreatedAt:   a.now(),
	}
	if err := a.store.LogActivity(ctx, act); err != nil {
		a.logger.Warn(ctx, "login activity not recorded", "err", err)
	}

	a.logger.Info(ctx, "user logged in", "username", u.Username)
	return u.Sanitized(), nil
}

func (a *AuthService) upgradeCredential(ctx context.Context, id, password string) {
	hash, err := credentials.Hash(password)
	if err != nil {
		a.logger.Warn(ctx, "credential upgrade failed", "err", err)
		return
	}
	_, err = a.store.UpdateUsers(ctx, func(users *[]models.User) error {
		if i := models.FindUserByID(*users, id); i >= 0 {
			(*users)[i].Password = hash
		}
		return nil
	})
	if err != nil {
		a.logger.Warn(ctx, "credential upgrade not persisted", "err", err)
		return
	}
	a.logger.Info(ctx, "credential upgraded", "user_id", id)
}

// Logout ends the session.
func (a *AuthService) Logout(ctx context.Context) error {
	return a.store.ClearSession(ctx)
}

// Current returns the logged-in user, if any.
func (a *AuthService) Current(ctx context.Context) (models.User, bool) {
	return a.store.Session(ctx)
}

// Registration is the self-service sign-up form.
type Registration struct {
	Name            string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a regular, active account. It does not log the new user in.
// Rules are checked in order: duplicate username, password confirmation,
// password length.
func (a *AuthService) Register(ctx context.Context, r Registration) (models.User, error) {
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return models.User{}, invalid("Por favor, preencha todos os campos obrigatórios.")
	}

	if models.FindUser(a.store.LoadUsers(ctx), username) >= 0 {
		return models.User{}, ErrDuplicateUsername
	}
	if r.Password != r.ConfirmPassword {
		return models.User{}, invalidRule(ErrPasswordMismatch, "Senhas não coincidem")
	}
	if len(r.Password) < MinPasswordLength {
		return models.User{}, invalidRule(ErrPasswordTooShort, "A senha deve ter pelo menos 6 caracteres.")
	}

	u, err := newAccount(r.Name, username, r.Email, r.Password, models.UserTypeUser, a.now())
	if err != nil {
		return models.User{}, err
	}
	if err := a.store.RegisterUser(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("register error: %w", err)
	}

	a.logger.Info(ctx, "user registered", "username", u.Username)
	return u.Sanitized(), nil
}

func newAccount(name, username, email, password string, typ models.UserType, now time.Time) (models.User, error) {
	hash, err := credentials.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash error: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = username
	}
	return models.User{
		ID:        models.NewUserID(),
		Username:  username,
		Password:  hash,
		Name:      name,
		Email:     strings.TrimSpace(email),
		Type:      typ,
		IsActive:  true,
		CreatedAt: now.UTC(),
	}, nil
}
