package cli

import (
	"context"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/services"
	"github.com/dmitrijs2005/conecta/internal/common"
)

func typeLabel(t models.UserType) string {
	if t == models.UserTypeAdmin {
		return "Administrador"
	}
	return "Usuário"
}

func statusLabel(active bool) string {
	if active {
		return "Ativo"
	}
	return "Inativo"
}

func (a *App) ListUsers(ctx context.Context, _ []string) error {
	users, err := a.users.List(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	if len(users) == 0 {
		a.println("Nenhum usuário cadastrado.")
		return nil
	}
	for _, u := range users {
		a.printf("%s  %s (@%s)  %s  %s\n", u.ID, u.Name, u.Username, typeLabel(u.Type), statusLabel(u.IsActive))
	}
	return nil
}

// AddUser prompts for the admin's add-user form.
func (a *App) AddUser(ctx context.Context, _ []string) error {
	if !a.isAdmin() {
		return a.fail(ctx, services.ErrForbidden)
	}

	var n services.NewUser
	var err error
	if n.Name, err = getSimpleText(a.reader, "Nome", a.out); err != nil {
		return err
	}
	if n.Username, err = getSimpleText(a.reader, "Nome de usuário", a.out); err != nil {
		return err
	}
	if n.Email, err = getSimpleText(a.reader, "Email (opcional)", a.out); err != nil {
		return err
	}
	typ, err := getSimpleText(a.reader, "Tipo (admin/user)", a.out)
	if err != nil {
		return err
	}
	n.Type = models.UserType(typ)

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
	n.Password, n.ConfirmPassword = string(pw), string(confirm)

	if _, err := a.users.Create(ctx, n); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Usuário criado com sucesso!")
	return nil
}

func (a *App) ToggleUser(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Uso: toggleuser <id>")
		return nil
	}
	u, err := a.users.ToggleActive(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	if u.IsActive {
		a.println("Usuário ativado com sucesso!")
	} else {
		a.println("Usuário desativado com sucesso!")
	}
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Uso: deluser <id>")
		return nil
	}
	ok, err := Confirm(a.reader, "Tem certeza que deseja excluir este usuário?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.users.Delete(ctx, args[0]); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Usuário excluído com sucesso!")
	return nil
}
