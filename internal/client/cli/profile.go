package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/conecta/internal/client/services"
	"github.com/dmitrijs2005/conecta/internal/common"
)

func (a *App) ShowProfile(ctx context.Context, _ []string) error {
	u := a.user
	a.printf("Nome:     %s\n", u.Name)
	a.printf("Usuário:  @%s\n", u.Username)
	a.printf("Email:    %s\n", u.Email)
	photo := "não"
	if u.ProfilePhoto != "" {
		photo = "sim"
	}
	a.printf("Foto:     %s\n", photo)
	return nil
}

// EditProfile prompts for the profile form. Empty name or email keep the
// current value; leaving the new password empty keeps the password.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	upd := services.ProfileUpdate{Name: a.user.Name, Email: a.user.Email}

	name, err := getSimpleText(a.reader, "Nome ["+a.user.Name+"]", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		upd.Name = name
	}
	email, err := getSimpleText(a.reader, "Email ["+a.user.Email+"]", a.out)
	if err != nil {
		return err
	}
	if email != "" {
		upd.Email = email
	}

	newPw, err := getPassword(a.reader, "Nova senha (vazio para manter)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPw)
	if len(newPw) > 0 {
		confirm, err := getPassword(a.reader, "Confirmar nova senha", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirm)
		current, err := getPassword(a.reader, "Senha atual", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(current)
		upd.NewPassword, upd.ConfirmPassword, upd.CurrentPassword = string(newPw), string(confirm), string(current)
	}

	u, err := a.profile.UpdateProfile(ctx, upd)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.user = u
	a.println("Perfil atualizado com sucesso!")
	return nil
}

// Photo sets the profile photo from an image file, or removes it with
// "photo remove".
func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Uso: photo <arquivo>|remove")
		return nil
	}

	if args[0] == "remove" {
		u, err := a.profile.RemovePhoto(ctx)
		if err != nil {
			return a.fail(ctx, err)
		}
		a.user = u
		a.println("Foto removida.")
		return nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return a.fail(ctx, err)
	}
	uri, err := services.ReadPhotoDataURI(f)
	_ = f.Close()
	if err != nil {
		return a.fail(ctx, err)
	}
	u, err := a.profile.SetPhoto(ctx, uri)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.user = u
	a.println("Foto atualizada.")
	return nil
}
