package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	cliconfig "github.com/networth-tracker/networth/internal/cli/config"
	"github.com/networth-tracker/networth/internal/cli/storage"
	"github.com/networth-tracker/networth/internal/config"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "correct-horse"
)

// fakeBackend mimics the auth and dashboard endpoints of the API
type fakeBackend struct {
	t *testing.T

	mu           sync.Mutex
	issued       int
	validTokens  map[string]bool
	refreshToken string
	refreshFails bool
	refreshes    int
	logouts      []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{t: t, validTokens: make(map[string]bool)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", b.login)
	mux.HandleFunc("POST /api/v1/auth/register", b.register)
	mux.HandleFunc("POST /api/v1/auth/refresh", b.refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", b.logout)
	mux.HandleFunc("GET /api/v1/auth/me", b.authorized(b.me))
	mux.HandleFunc("GET /api/v1/dashboard", b.authorized(b.dashboard))
	mux.HandleFunc("GET /api/v1/account-groups", b.authorized(b.groups))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// issue returns a new access token and rotates the refresh cookie
func (b *fakeBackend) issue(w http.ResponseWriter) {
	b.issued++
	access := fmt.Sprintf("access-%d", b.issued)
	b.validTokens[access] = true
	b.refreshToken = fmt.Sprintf("refresh-%d", b.issued)

	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: b.refreshToken, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": access,
		"token_type":   "bearer",
		"expires_in":   1800,
	})
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.t.Errorf("failed to decode login request: %v", err)
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Email != testEmail || req.Password != testPassword {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	b.issue(w)
}

func (b *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.t.Errorf("failed to decode register request: %v", err)
		writeDetail(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Email == testEmail {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": "u-2", "username": req.Username, "email": req.Email})
}

func (b *fakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshes++

	cookie, err := r.Cookie("refresh_token")
	if b.refreshFails || err != nil || cookie.Value != b.refreshToken {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	b.issue(w)
}

func (b *fakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		b.logouts = append(b.logouts, cookie.Value)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (b *fakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		ok := b.validTokens[token]
		b.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         "7f1c2a90-5b3e-4d7a-8c61-2e9f0a4b3c11",
		"username":   "alice",
		"email":      testEmail,
		"is_active":  true,
		"created_at": "2024-11-02T09:30:00Z",
	})
}

func (b *fakeBackend) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_balance_gbp": 12345.67,
		"groups": []map[string]any{
			{"id": "g-1", "name": "Emergency fund", "total_balance_gbp": 2345.67},
		},
		"by_account_type": []map[string]any{
			{"account_type": "savings", "total_balance_gbp": 2345.67},
			{"account_type": "investment", "total_balance_gbp": 10000},
		},
	})
}

func (b *fakeBackend) groups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"id": "g-1", "name": "Emergency fund", "account_count": 2, "total_balance_gbp": 2345.67},
	})
}

// expireAccessTokens makes every issued access token fail with 401
func (b *fakeBackend) expireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validTokens = make(map[string]bool)
}

func (b *fakeBackend) setRefreshFails(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshFails = v
}

func (b *fakeBackend) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshes
}

type testEnv struct {
	app    *App
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newTestEnv builds a set-up App against apiURL. Passing the same storage
// to two environments simulates a second invocation of the CLI.
func newTestEnv(t *testing.T, apiURL string, mem *storage.MemoryStorage) *testEnv {
	t.Helper()

	var out, errOut bytes.Buffer
	cfg := &config.Config{
		API:     config.APIConfig{URL: apiURL, AppURL: "http://localhost:3000"},
		Session: config.SessionConfig{StateDir: t.TempDir(), Storage: cliconfig.StorageFile},
		Logging: config.LoggingConfig{Level: "disabled", Format: "console"},
	}
	app := NewApp(
		WithConfig(cfg),
		WithLogger(zerolog.Nop()),
		WithOutput(&out, &errOut),
		WithStorage(mem, mem),
	)
	require.NoError(t, app.Setup(context.Background()))
	require.NoError(t, app.Gate.Wait(context.Background()))

	return &testEnv{app: app, out: &out, errOut: &errOut}
}

func (e *testEnv) run(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(e.out)
	cmd.SetErr(e.errOut)
	return cmd.ExecuteContext(context.Background())
}

func (e *testEnv) flush(t *testing.T) {
	t.Helper()
	require.NoError(t, e.app.Router.Flush(context.Background()))
}

// signIn runs a successful login and shows the dashboard it navigates to
func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, e.run(NewLoginCmd(e.app), "--email", testEmail, "--password", testPassword))
	e.flush(t)
}

func nonInteractive(t *testing.T) {
	t.Helper()
	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = prev })
}
