package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/collaborators/domain"
)

const sessionID = "sess-1"

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(backend.New(srv.URL, 5*time.Second))
}

func TestListNormalizesAndFilters(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/webadmin/colaborators", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"id": 1, "nombre": "Ana", "area": "Créditos", "nivel": "KoalaFit", "estado": "Activo"},
			{"id": 2, "nombre": "Luis", "area": "Agencias", "nivel": "HalcónFit", "estado": "Activo"},
			{"id": 3, "nombre": "Mario", "area": "Créditos", "nivel": "JaguarFit", "estado": "Inactivo"}
		], "total": 3, "current_page": 1, "per_page": 10, "last_page": 1}`))
	})

	page, err := svc.List(context.Background(), "tok", sessionID, ListQuery{
		Filters: map[string]string{"area": "creditos"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 2)
	for _, c := range page.Items {
		assert.Equal(t, "Créditos", c.Area)
	}
}

func TestListFilterChangeResetsPage(t *testing.T) {
	rows := make([]map[string]any, 0, 25)
	for i := 1; i <= 25; i++ {
		rows = append(rows, map[string]any{"id": i, "nombre": "Colaborador", "estado": "Activo"})
	}
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": rows, "total": 25})
	})

	page, err := svc.List(context.Background(), "tok", sessionID, ListQuery{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Number)

	page, err = svc.List(context.Background(), "tok", sessionID, ListQuery{
		Filters: map[string]string{"status": "Activo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
}

func TestCreateAppendsAfterBackendConfirms(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[]`))
		case http.MethodPost:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "Ana", body["nombre"])
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data": {"id": 10, "nombre": "Ana", "email": "ana@sanjer.com.gt"}}`))
		}
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), "tok", sessionID, Input{
		Name:  strPtr("Ana"),
		Email: strPtr("ana@sanjer.com.gt"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "10", created.ID)

	got, ok := svc.views.For(sessionID).Get("10")
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)
}

func TestCreateRequiresNameAndEmail(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called on invalid input")
	})

	_, err := svc.Create(context.Background(), "tok", sessionID, Input{Name: strPtr("Ana")}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePasswordConfirmationMismatch(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called on invalid input")
	})

	_, err := svc.Create(context.Background(), "tok", sessionID, Input{
		Name:            strPtr("Ana"),
		Email:           strPtr("ana@sanjer.com.gt"),
		Password:        strPtr("secret1"),
		PasswordConfirm: strPtr("secret2"),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFailedCreateLeavesCollectionUntouched(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id": 1, "nombre": "Ana"}]`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "El correo ya está registrado"}`))
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "tok", sessionID, Input{
		Name:  strPtr("Ana"),
		Email: strPtr("ana@sanjer.com.gt"),
	}, nil)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "El correo ya está registrado", apiErr.Message)
	assert.Equal(t, 1, svc.views.For(sessionID).Len())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	backendCalled := false
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			backendCalled = true
		}
		w.Write([]byte(`[{"id": 1, "nombre": "Ana"}]`))
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "tok", sessionID, "1", false)
	assert.ErrorIs(t, err, domain.ErrConfirmRequired)
	assert.False(t, backendCalled)
	assert.Equal(t, 1, svc.views.For(sessionID).Len())

	err = svc.Delete(context.Background(), "tok", sessionID, "1", true)
	require.NoError(t, err)
	assert.True(t, backendCalled)
	assert.Equal(t, 0, svc.views.For(sessionID).Len())
}

func TestUpdateReplacesInCollection(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id": 1, "nombre": "Ana", "area": "Créditos"}]`))
		case http.MethodPut:
			w.Write([]byte(`{"id": 1, "nombre": "Ana María", "area": "Créditos"}`))
		}
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "tok", sessionID, "1", Input{
		Name: strPtr("Ana María"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)

	got, _ := svc.views.For(sessionID).Get("1")
	assert.Equal(t, "Ana María", got.Name)
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "nombre": "Ana"}]`))
	})

	_, err := svc.List(context.Background(), "tok", "sess-a", ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, svc.views.For("sess-a").Len())
	assert.Equal(t, 0, svc.views.For("sess-b").Len())
}
