package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjerfit/webadmin-gateway/internal/activities/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/backend"
)

const sessionID = "sess-1"

const queueJSON = `[
	{"id": 1, "user_id": 5, "tipo": "Caminata", "estado": "pendiente", "coin_fits": 10,
	 "user": {"id": 5, "nombre": "Ana"}},
	{"id": 2, "user_id": 6, "tipo": "Gimnasio", "estado": "aprobada", "is_valid": true,
	 "user": {"id": 6, "nombre": "Luis"}}
]`

func newFixture(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(backend.New(srv.URL, 5*time.Second))
}

func TestApprovePendingActivity(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(queueJSON))
		case r.URL.Path == "/webadmin/activities/1/validate":
			w.Write([]byte(`{"id": 1, "user_id": 5, "tipo": "Caminata", "estado": "aprobada", "is_valid": true, "coin_fits": 10}`))
		default:
			t.Fatalf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	act, err := svc.Approve(context.Background(), "tok", sessionID, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAprobada, act.Status)
	assert.True(t, act.IsValid)

	got, _ := svc.views.For(sessionID).Get("1")
	assert.Equal(t, domain.StatusAprobada, got.Status)
}

func TestReviewIsOneWay(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatal("reviewed activity must not reach the backend again")
		}
		w.Write([]byte(queueJSON))
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "tok", sessionID, "2")
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	_, err = svc.Reject(context.Background(), "tok", sessionID, "2")
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
}

func TestRejectUnknownActivity(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(queueJSON))
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "tok", sessionID, "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentReviewsOnSameActivity(t *testing.T) {
	release := make(chan struct{})
	var reviewCalls int32

	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(queueJSON))
			return
		}
		atomic.AddInt32(&reviewCalls, 1)
		<-release
		w.Write([]byte(`{"id": 1, "estado": "aprobada", "is_valid": true}`))
	})

	_, err := svc.List(context.Background(), "tok", sessionID, ListQuery{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.Approve(context.Background(), "tok", sessionID, "1")
	}()

	// wait until the first review is blocked inside the backend call, then
	// try a second review of the same activity
	for atomic.LoadInt32(&reviewCalls) == 0 {
		time.Sleep(time.Millisecond)
	}
	_, secondErr := svc.Approve(context.Background(), "tok", sessionID, "1")
	assert.ErrorIs(t, secondErr, domain.ErrReviewInFlight)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&reviewCalls))
}

func TestStatusFilter(t *testing.T) {
	svc := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(queueJSON))
	})

	page, err := svc.List(context.Background(), "tok", sessionID, ListQuery{
		Filters: map[string]string{"status": "pendiente"},
	})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ana", page.Items[0].CollaboratorName)
}
