package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/services"
	"github.com/dmitrijs2005/conecta/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// fail prints err for the user. Rule violations and known conditions are
// shown as they are; anything else is logged and reported generically.
func (a *App) fail(ctx context.Context, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		a.println(ve.Message)
	case errors.Is(err, services.ErrAuthFailed),
		errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotLoggedIn),
		errors.Is(err, services.ErrUserNotFound):
		a.println(err.Error())
	default:
		a.logger.Error(ctx, "command failed", "err", err)
		a.println("Erro:", err.Error())
	}
	return err
}

// Register prompts for the sign-up form and creates a regular account. The
// new user still has to log in.
func (a *App) Register(ctx context.Context, _ []string) error {
	var r services.Registration
	var err error

	if r.Name, err = getSimpleText(a.reader, "Nome completo", a.out); err != nil {
		return err
	}
	if r.Username, err = getSimpleText(a.reader, "Nome de usuário", a.out); err != nil {
		return err
	}
	if r.Email, err = getSimpleText(a.reader, "Email (opcional)", a.out); err != nil {
		return err
	}

	pw, err := getPassword(a.reader, "Senha", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword(a.reader, "Confirmar senha", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	r.Password, r.ConfirmPassword = string(pw), string(confirm)

	if _, err := a.auth.Register(ctx, r); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Conta criada com sucesso!")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Usuário", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.reader, "Senha", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.auth.Login(ctx, username, string(pw))
	if err != nil {
		return a.fail(ctx, err)
	}

	a.user = u
	a.selectFirstCategory(ctx)
	a.printf("Bem-vindo, %s!\n", u.Name)
	return nil
}

// restoreSession picks up a session persisted by an earlier run.
func (a *App) restoreSession(ctx context.Context) bool {
	u, ok := a.auth.Current(ctx)
	if !ok {
		return false
	}
	a.user = u
	a.selectFirstCategory(ctx)
	a.printf("Bem-vindo de volta, %s!\n", u.Name)
	return true
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(ctx, err)
	}
	a.user = models.User{}
	a.category = ""
	a.println("Sessão encerrada.")
	return nil
}
