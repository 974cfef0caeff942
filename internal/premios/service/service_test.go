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
	"github.com/sanjerfit/webadmin-gateway/internal/premios/domain"
)

const sessionID = "sess-1"

const catalogJSON = `[
	{"id": 1, "nombre": "Termo", "costo": 50, "stock": 3, "activo": true},
	{"id": 2, "nombre": "Camiseta", "costo": 80, "stock": 0, "activo": true},
	{"id": 3, "nombre": "Gorra", "costo": 30, "stock": 5, "activo": false}
]`

func newFixture(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(backend.New(srv.URL, 5*time.Second))
}

func load(t *testing.T, svc *Service) {
	t.Helper()
	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)
}

func TestRedeemableFilter(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	})

	page, err := svc.List(context.Background(), "tok", sessionID, ListQuery{
		Filters: map[string]string{"redeemable": "true"},
	})
	require.NoError(t, err)

	// only Termo is active with stock left
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Termo", page.Items[0].Name)
}

func TestDeliverDecrementsStockOnce(t *testing.T) {
	deliverCalls := 0
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(catalogJSON))
			return
		}
		require.Equal(t, "/webadmin/premios/1/deliver", r.URL.Path)
		deliverCalls++

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "5", body["user_id"])

		w.Write([]byte(`{"id": 1, "nombre": "Termo", "costo": 50, "stock": 2, "activo": true}`))
	})
	load(t, svc)

	p, err := svc.Deliver(context.Background(), "tok", sessionID, "1", "5", 120)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 1, deliverCalls)

	got, _ := svc.views.For(sessionID).Get("1")
	assert.Equal(t, 2, got.Stock)
}

func TestDeliverRejectsOutOfStock(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatal("out-of-stock premio must not reach the backend")
		}
		w.Write([]byte(catalogJSON))
	})
	load(t, svc)

	_, err := svc.Deliver(context.Background(), "tok", sessionID, "2", "5", 500)
	assert.ErrorIs(t, err, domain.ErrNotRedeemable)
}

func TestDeliverRejectsInactive(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	})
	load(t, svc)

	_, err := svc.Deliver(context.Background(), "tok", sessionID, "3", "5", 500)
	assert.ErrorIs(t, err, domain.ErrNotRedeemable)
}

func TestDeliverChecksCoinFits(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatal("insufficient coins must not reach the backend")
		}
		w.Write([]byte(catalogJSON))
	})
	load(t, svc)

	_, err := svc.Deliver(context.Background(), "tok", sessionID, "1", "5", 20)
	assert.ErrorIs(t, err, domain.ErrInsufficientCoins)
}

func TestFailedDeliveryLeavesStockUntouched(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(catalogJSON))
			return
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "El colaborador no tiene suficientes CoinFits"}`))
	})
	load(t, svc)

	_, err := svc.Deliver(context.Background(), "tok", sessionID, "1", "5", 120)
	require.Error(t, err)

	got, _ := svc.views.For(sessionID).Get("1")
	assert.Equal(t, 3, got.Stock)
}

func TestToggleAppliesBackendState(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(catalogJSON))
			return
		}
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/webadmin/premios/3/toggle", r.URL.Path)
		w.Write([]byte(`{"id": 3, "nombre": "Gorra", "costo": 30, "stock": 5, "activo": true}`))
	})
	load(t, svc)

	p, err := svc.Toggle(context.Background(), "tok", sessionID, "3", true)
	require.NoError(t, err)
	assert.True(t, p.Active)
}

func TestToggleRequiresConfirmation(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatal("unconfirmed toggle must not reach the backend")
		}
		w.Write([]byte(catalogJSON))
	})
	load(t, svc)

	_, err := svc.Toggle(context.Background(), "tok", sessionID, "1", false)
	assert.ErrorIs(t, err, domain.ErrConfirmRequired)

	got, _ := svc.views.For(sessionID).Get("1")
	assert.True(t, got.Active)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	deleted := false
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(catalogJSON))
			return
		}
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/webadmin/premios/1", r.URL.Path)
		deleted = true
		w.Write([]byte(`{"message": "Premio eliminado"}`))
	})
	load(t, svc)

	err := svc.Delete(context.Background(), "tok", sessionID, "1", false)
	assert.ErrorIs(t, err, domain.ErrConfirmRequired)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(context.Background(), "tok", sessionID, "1", true))
	assert.True(t, deleted)

	_, ok := svc.views.For(sessionID).Get("1")
	assert.False(t, ok)
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	var sent map[string]int
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(catalogJSON))
			return
		}
		json.NewDecoder(r.Body).Decode(&sent)
		w.Write([]byte(`{"id": 1, "nombre": "Termo", "costo": 50, "stock": 0, "activo": true}`))
	})
	load(t, svc)

	p, err := svc.AdjustStock(context.Background(), "tok", sessionID, "1", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, 0, sent["stock"])
}

func TestCreateRejectsFileAndURLTogether(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid input must not reach the backend")
	})

	name := "Termo"
	cost := 50
	url := "https://cdn.example.com/termo.jpg"
	_, err := svc.Create(context.Background(), "tok", sessionID, Input{
		Name:     &name,
		Cost:     &cost,
		ImageURL: &url,
	}, &backend.Upload{Field: "imagen", Filename: "termo.jpg"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
