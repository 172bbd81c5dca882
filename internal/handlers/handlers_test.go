package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatwire/internal/auth"
	"chatwire/internal/middleware"
	"chatwire/internal/models"
	"chatwire/internal/store/sqlstore"
)

type testEnv struct {
	store  *sqlstore.SQLStore
	tokens *auth.Tokens
	log    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := sqlstore.New("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &testEnv{
		store:  st,
		tokens: auth.NewTokens("test-secret", time.Hour),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// signup persists a user directly and returns it with a valid token.
func (e *testEnv) signup(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()
	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, Password: hashed}
	require.NoError(t, e.store.CreateUser(user))

	token, err := e.tokens.Generate(user.ID)
	require.NoError(t, err)
	return user, token
}

// protect wraps a handler the way main.go does.
func (e *testEnv) protect(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(e.tokens)(h)
}
