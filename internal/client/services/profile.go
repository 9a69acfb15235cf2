package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

// MaxPhotoBytes is the largest accepted profile photo, after decoding.
const MaxPhotoBytes = 5 * 1024 * 1024

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ProfileService edits the logged-in user's own record.
type ProfileService struct {
	store  Store
	logger logging.Logger
}

func NewProfileService(store Store, logger logging.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger.With("service", "profile")}
}

// ProfileUpdate is the profile form. Leaving NewPassword and ConfirmPassword
// empty keeps the current password.
type ProfileUpdate struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (u ProfileUpdate) changesPassword() bool {
	return u.NewPassword != "" || u.ConfirmPassword != ""
}

// validate stops at the first failed rule.
func (u ProfileUpdate) validate() error {
	if u.Name == "" {
		return invalid("Nome é obrigatório")
	}
	if u.Email == "" || !ValidEmail(u.Email) {
		return invalid("Email válido é obrigatório")
	}
	if u.changesPassword() {
		if u.CurrentPassword == "" {
			return invalid("Senha atual é obrigatória para alterar a senha")
		}
		if u.NewPassword != u.ConfirmPassword {
			return invalidRule(ErrPasswordMismatch, "Nova senha e confirmação não coincidem")
		}
		if len(u.NewPassword) < MinPasswordLength {
			return invalidRule(ErrPasswordTooShort, "Nova senha deve ter pelo menos 6 caracteres")
		}
	}
	return nil
}

// UpdateProfile validates upd, stores the new name, email and (optionally)
// password on the session user's record and refreshes the session.
func (p *ProfileService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (models.User, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	upd.Email = strings.TrimSpace(upd.Email)
	if err := upd.validate(); err != nil {
		return models.User{}, err
	}

	var newHash string
	if upd.changesPassword() {
		h, err := credentials.Hash(upd.NewPassword)
		if err != nil {
			return models.User{}, fmt.Errorf("hash error: %w", err)
		}
		newHash = h
	}

	return p.modify(ctx, func(u *models.User) error {
		if newHash != "" {
			ok, err := credentials.Verify(u.Password, upd.CurrentPassword)
			if err != nil || !ok {
				return invalidRule(ErrWrongPassword, "Senha atual incorreta")
			}
			u.Password = newHash
		}
		u.Name = upd.Name
		u.Email = upd.Email
		return nil
	})
}

// SetPhoto stores a data:image/...;base64, URI as the profile photo.
func (p *ProfileService) SetPhoto(ctx context.Context, dataURI string) (models.User, error) {
	if err := validatePhoto(dataURI); err != nil {
		return models.User{}, err
	}
	return p.modify(ctx, func(u *models.User) error {
		u.ProfilePhoto = dataURI
		return nil
	})
}

func (p *ProfileService) RemovePhoto(ctx context.Context) (models.User, error) {
	return p.modify(ctx, func(u *models.User) error {
		u.ProfilePhoto = ""
		return nil
	})
}

// modify applies fn to the stored record of the session user and mirrors
// the result into the session.
func (p *ProfileService) modify(ctx context.Context, fn func(u *models.User) error) (models.User, error) {
	current, ok := p.store.Session(ctx)
	if !ok {
		return models.User{}, ErrNotLoggedIn
	}

	var updated models.User
	_, err := p.store.UpdateUsers(ctx, func(users *[]models.User) error {
		i := models.FindUserByID(*users, current.ID)
		if i < 0 {
			i = models.FindUser(*users, current.Username)
		}
		if i < 0 {
			return ErrUserNotFound
		}
		if err := fn(&(*users)[i]); err != nil {
			return err
		}
		updated = (*users)[i]
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	if err := p.store.SetSession(ctx, updated); err != nil {
		return models.User{}, fmt.Errorf("session error: %w", err)
	}
	p.logger.Info(ctx, "profile updated", "username", updated.Username)
	return updated.Sanitized(), nil
}

const photoPrefix = "data:image/"

func validatePhoto(uri string) error {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, photoPrefix) || !strings.HasSuffix(meta, ";base64") {
		return invalid("Por favor, selecione apenas arquivos de imagem.")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoBytes+2 {
		return invalid("A imagem deve ter no máximo 5MB.")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return invalid("Por favor, selecione apenas arquivos de imagem.")
	}
	if len(data) > MaxPhotoBytes {
		return invalid("A imagem deve ter no máximo 5MB.")
	}
	return nil
}

// PhotoDataURI turns raw file contents into a data URI, refusing anything
// that does not sniff as an image or is larger than MaxPhotoBytes.
func PhotoDataURI(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", invalid("Por favor, selecione apenas arquivos de imagem.")
	}
	if len(data) > MaxPhotoBytes {
		return "", invalid("A imagem deve ter no máximo 5MB.")
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ReadPhotoDataURI is PhotoDataURI over r. It reads at most one byte past
// MaxPhotoBytes.
func ReadPhotoDataURI(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) > MaxPhotoBytes {
		return "", invalid("A imagem deve ter no máximo 5MB.")
	}
	return PhotoDataURI(data)
}
