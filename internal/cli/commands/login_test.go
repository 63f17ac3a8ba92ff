package commands

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networth-tracker/networth/internal/cli/nav"
	"github.com/networth-tracker/networth/internal/cli/storage"
)

func TestLoginCommand_SuccessfulLogin(t *testing.T) {
	_, srv := newFakeBackend(t)
	mem := storage.NewMemoryStorage()
	env := newTestEnv(t, srv.URL, mem)

	err := env.run(NewLoginCmd(env.app), "--email", testEmail, "--password", testPassword)
	require.NoError(t, err)

	assert.Contains(t, env.out.String(), "✓ Login successful!")
	assert.Contains(t, env.out.String(), "User: alice (alice@example.com)")
	assert.True(t, env.app.Session.IsAuthenticated())

	// The session is persisted for the next invocation.
	raw, err := mem.Get(storage.SessionKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"token":"access-1"`)

	// The dashboard is shown once the command has finished.
	pending, ok := env.app.Router.Pending()
	require.True(t, ok)
	assert.Equal(t, nav.DashboardPath, pending)

	env.flush(t)
	assert.Contains(t, env.out.String(), "£12,345.67")
	assert.Contains(t, env.out.String(), "Emergency fund")
}

func TestLoginCommand_EnvCredentials(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, storage.NewMemoryStorage())

	t.Setenv("NETWORTH_EMAIL", testEmail)
	t.Setenv("NETWORTH_PASSWORD", testPassword)

	require.NoError(t, env.run(NewLoginCmd(env.app)))
	assert.True(t, env.app.Session.IsAuthenticated())
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	_, srv := newFakeBackend(t)
	mem := storage.NewMemoryStorage()
	env := newTestEnv(t, srv.URL, mem)

	err := env.run(NewLoginCmd(env.app), "--email", testEmail, "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "login failed: Incorrect email or password", err.Error())

	assert.False(t, env.app.Session.IsAuthenticated())
	_, pending := env.app.Router.Pending()
	assert.False(t, pending)
	_, err = mem.Get(storage.SessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoginCommand_MissingEmail(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, storage.NewMemoryStorage())
	t.Setenv("NETWORTH_EMAIL", "")

	err := env.run(NewLoginCmd(env.app), "--password", testPassword)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}

func TestLoginCommand_NonInteractiveRequiresPassword(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, storage.NewMemoryStorage())
	t.Setenv("NETWORTH_PASSWORD", "")
	nonInteractive(t)

	err := env.run(NewLoginCmd(env.app), "--email", testEmail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required in non-interactive mode")
}

func TestLoginCommand_PromptsForPassword(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, storage.NewMemoryStorage())
	t.Setenv("NETWORTH_PASSWORD", "")

	prevTerm, prevRead := stdinIsTerminal, readPassword
	stdinIsTerminal = func() bool { return true }
	readPassword = func(io.Writer, string) (string, error) { return testPassword, nil }
	t.Cleanup(func() { stdinIsTerminal, readPassword = prevTerm, prevRead })

	require.NoError(t, env.run(NewLoginCmd(env.app), "--email", testEmail))
	assert.True(t, env.app.Session.IsAuthenticated())
}

func TestRegisterCommand(t *testing.T) {
	_, srv := newFakeBackend(t)

	t.Run("existing email", func(t *testing.T) {
		env := newTestEnv(t, srv.URL, storage.NewMemoryStorage())
		err := env.run(NewRegisterCmd(env.app),
			"--username", "alice", "--email", testEmail, "--password", testPassword, "--accept-terms")
		require.Error(t, err)
		assert.Equal(t, "registration failed: Email already registered", err.Error())
		assert.False(t, env.app.Session.IsAuthenticated())
	})

	t.Run("terms not accepted", func(t *testing.T) {
		env := newTestEnv(t, srv.URL, storage.NewMemoryStorage())
		err := env.run(NewRegisterCmd(env.app),
			"--username", "bob", "--email", "bob@example.com", "--password", "long-enough")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "You must agree to the terms")
	})
}

func TestLogoutCommand(t *testing.T) {
	backend, srv := newFakeBackend(t)
	mem := storage.NewMemoryStorage()
	env := newTestEnv(t, srv.URL, mem)
	env.signIn(t)

	require.NoError(t, env.run(NewLogoutCmd(env.app)))
	assert.Contains(t, env.out.String(), "✓ Logged out")
	assert.False(t, env.app.Session.IsAuthenticated())
	assert.Equal(t, []string{"refresh-1"}, backend.logouts)

	env.flush(t)
	assert.Contains(t, env.errOut.String(), "Run 'networth login' to sign in.")

	// A later invocation starts signed out.
	next := newTestEnv(t, srv.URL, mem)
	assert.False(t, next.app.Session.IsAuthenticated())

	require.NoError(t, next.run(NewLogoutCmd(next.app)))
	assert.Contains(t, next.out.String(), "Not signed in.")
}
