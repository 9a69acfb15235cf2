package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

// UserAdminService is the administrator's user management. Every call
// requires an admin session.
type UserAdminService struct {
	store  Store
	logger logging.Logger
	now    func() time.Time
}

func NewUserAdminService(store Store, logger logging.Logger) *UserAdminService {
	return &UserAdminService{store: store, logger: logger.With("service", "users"), now: time.Now}
}

func (s *UserAdminService) requireAdmin(ctx context.Context) (models.User, error) {
	u, ok := s.store.Session(ctx)
	if !ok {
		return models.User{}, ErrNotLoggedIn
	}
	if !u.IsAdmin() {
		return models.User{}, ErrForbidden
	}
	return u, nil
}

// List returns every user, credentials stripped.
func (s *UserAdminService) List(ctx context.Context) ([]models.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	users := s.store.LoadUsers(ctx)
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// NewUser is the admin's add-user form.
type NewUser struct {
	Name            string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Type            models.UserType
}

// Create adds an active account. Rules are checked in order: required
// fields, password confirmation, password length, duplicate username.
func (s *UserAdminService) Create(ctx context.Context, n NewUser) (models.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return models.User{}, err
	}

	n.Name = strings.TrimSpace(n.Name)
	n.Username = strings.TrimSpace(n.Username)
	if n.Name == "" || n.Username == "" || n.Password == "" || n.ConfirmPassword == "" {
		return models.User{}, invalid("Por favor, preencha todos os campos obrigatórios.")
	}
	if n.Password != n.ConfirmPassword {
		return models.User{}, invalidRule(ErrPasswordMismatch, "As senhas não coincidem.")
	}
	if len(n.Password) < MinPasswordLength {
		return models.User{}, invalidRule(ErrPasswordTooShort, "A senha deve ter pelo menos 6 caracteres.")
	}
	switch n.Type {
	case "":
		n.Type = models.UserTypeUser
	case models.UserTypeAdmin, models.UserTypeUser:
	default:
		return models.User{}, invalid("Tipo de usuário inválido.")
	}

	u, err := newAccount(n.Name, n.Username, n.Email, n.Password, n.Type, s.now())
	if err != nil {
		return models.User{}, err
	}

	_, err = s.store.UpdateUsers(ctx, func(users *[]models.User) error {
		if models.FindUser(*users, u.Username) >= 0 {
			return ErrDuplicateUsername
		}
		*users = append(*users, u)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info(ctx, "user created", "username", u.Username, "type", u.Type)
	return u.Sanitized(), nil
}

// ToggleActive flips isActive of the user with id and returns the result.
func (s *UserAdminService) ToggleActive(ctx context.Context, id string) (models.User, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return models.User{}, err
	}
	if id == admin.ID {
		return models.User{}, invalid("Você não pode desativar a sua própria conta.")
	}

	var changed models.User
	_, err = s.store.UpdateUsers(ctx, func(users *[]models.User) error {
		i := models.FindUserByID(*users, id)
		if i < 0 {
			return ErrUserNotFound
		}
		(*users)[i].IsActive = !(*users)[i].IsActive
		changed = (*users)[i]
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info(ctx, "user status changed", "username", changed.Username, "active", changed.IsActive)
	return changed.Sanitized(), nil
}

// Delete removes the user with id.
func (s *UserAdminService) Delete(ctx context.Context, id string) error {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == admin.ID {
		return invalid("Você não pode excluir a sua própria conta.")
	}

	var removed models.User
	_, err = s.store.UpdateUsers(ctx, func(users *[]models.User) error {
		i := models.FindUserByID(*users, id)
		if i < 0 {
			return ErrUserNotFound
		}
		removed = (*users)[i]
		*users = append((*users)[:i], (*users)[i+1:]...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.store.DeleteRemoteUser(ctx, id); err != nil {
		s.logger.Debug(ctx, "remote delete skipped", "username", removed.Username, "err", err)
	}

	s.logger.Info(ctx, "user deleted", "username", removed.Username)
	return nil
}
