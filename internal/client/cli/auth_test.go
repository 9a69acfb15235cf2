package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipedInput makes password prompts read from the App's reader.
func pipedInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestLogin_Success(t *testing.T) {
	pipedInput(t)
	ctx := context.Background()
	a, out := newTestApp(t, nil, lines("admin", "admin123"))

	require.NoError(t, a.Login(ctx, nil))
	assert.True(t, a.isLoggedIn())
	assert.True(t, a.isAdmin())
	assert.Equal(t, "sentimentos", a.category)
	assert.Contains(t, out.String(), "Bem-vindo, Administrador!")
	assert.Empty(t, a.user.Password)
}

func TestLogin_Failure(t *testing.T) {
	pipedInput(t)
	a, out := newTestApp(t, nil, lines("admin", "nope"))

	assert.Error(t, a.Login(context.Background(), nil))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Usuário ou senha incorretos")
}

func TestLogin_InputError(t *testing.T) {
	a, _ := newTestApp(t, nil, "")
	assert.Error(t, a.Login(context.Background(), nil))
}

func TestRegister_ThenLogin(t *testing.T) {
	pipedInput(t)
	ctx := context.Background()
	a, out := newTestApp(t, nil, lines(
		"Ana Souza", "ana", "ana@example.com", "segredo1", "segredo1",
		"ana", "segredo1",
	))

	require.NoError(t, a.Register(ctx, nil))
	assert.Contains(t, out.String(), "Conta criada com sucesso!")
	assert.False(t, a.isLoggedIn())

	require.NoError(t, a.Login(ctx, nil))
	assert.Equal(t, "ana", a.user.Username)
	assert.Equal(t, models.UserTypeUser, a.user.Type)
}

func TestRegister_ShowsRuleMessage(t *testing.T) {
	pipedInput(t)
	a, out := newTestApp(t, nil, lines("X", "nova", "", "abcdef", "abcdeg"))

	assert.Error(t, a.Register(context.Background(), nil))
	assert.Contains(t, out.String(), "Senhas não coincidem")
}

func TestRestoreSessionAndLogout(t *testing.T) {
	pipedInput(t)
	ctx := context.Background()
	a, out := newTestApp(t, nil, lines("admin", "admin123"))
	require.NoError(t, a.Login(ctx, nil))

	// a second process over the same store
	b := newApp(a.config, a.logger, a.local, a.adapter, a.reader, out)
	require.True(t, b.restoreSession(ctx))
	assert.Equal(t, a.user.ID, b.user.ID)
	assert.Contains(t, out.String(), "Bem-vindo de volta, Administrador!")

	require.NoError(t, b.Logout(ctx, nil))
	assert.False(t, b.isLoggedIn())
	assert.False(t, a.restoreSession(ctx))
}
