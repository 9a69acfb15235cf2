package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = a.user.Username + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if a.category != "" && a.isLoggedIn() {
		s = s + " " + a.category
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive session until the user exits or ctx is done.
func (a *App) Root(ctx context.Context) {
	a.println("Bem-vindo ao Conecta Autismo (digite 'help' para ver os comandos)")

	a.checkBackend(ctx)
	if !a.restoreSession(ctx) {
		_ = a.Login(ctx, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
