package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/session"
)

func newFixture(t *testing.T, handler http.HandlerFunc) (*Service, *session.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	store := session.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	return New(backend.New(srv.URL, 5*time.Second), store), store
}

func TestLoginNormalizesRole(t *testing.T) {
	svc, store := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"token": "backend-token", "user": {"nombre": "Ana", "email": "ana@sanjer.com.gt", "rol": "ADMINISTRADOR"}}`))
	})

	sess, err := svc.Login(context.Background(), "ana@sanjer.com.gt", "secret")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Administrador", sess.User.Role)

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "backend-token", stored.Token)
}

func TestLoginUnknownRoleBecomesReadOnly(t *testing.T) {
	svc, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token": "t", "user": {"nombre": "Eva", "rol": "Jefe"}}`))
	})

	sess, err := svc.Login(context.Background(), "eva@sanjer.com.gt", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Visualizador", sess.User.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Credenciales inválidas"}`))
	})

	_, err := svc.Login(context.Background(), "ana@sanjer.com.gt", "wrong")
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestLogoutDestroysSessionEvenWhenBackendFails(t *testing.T) {
	calls := 0
	var svc *Service
	var store *session.Store
	svc, store = newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			w.Write([]byte(`{"token": "t", "user": {"nombre": "Ana", "rol": "Editor"}}`))
		case "/logout":
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	sess, err := svc.Login(context.Background(), "ana@sanjer.com.gt", "secret")
	require.NoError(t, err)

	dropped := ""
	svc.onLogout = append(svc.onLogout, func(id string) { dropped = id })

	svc.Logout(context.Background(), sess.ID, sess.Token)

	assert.Equal(t, 1, calls)
	assert.Equal(t, sess.ID, dropped)

	_, err = store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
