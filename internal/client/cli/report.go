package cli

import "context"

func (a *App) Stats(ctx context.Context, _ []string) error {
	st := a.usage.Stats(ctx)
	a.printf("Hoje:                %d interações\n", st.Today)
	a.printf("Esta semana:         %d interações\n", st.Week)
	a.printf("Categoria favorita:  %s\n", st.Favorite)
	return nil
}

// Export writes the usage report and tells where it went.
func (a *App) Export(ctx context.Context, _ []string) error {
	res, err := a.reports.Export(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.printf("Relatório salvo em %s\n", res.Path)
	if res.Uploaded {
		a.println("Cópia enviada para o servidor.")
	}
	return nil
}

// Status shows who is logged in and whether the backend is in use.
func (a *App) Status(ctx context.Context, _ []string) error {
	a.printf("Usuário: %s\n", a.user.Username)
	a.printf("Modo:    %s\n", a.mode())
	a.printf("Backend: %s\n", a.adapter.State())
	return nil
}
