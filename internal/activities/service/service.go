package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/activities/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

const basePath = "/webadmin/activities"

// Service reviews collaborator activities. Reviews are strictly one-way:
// once an activity is approved or rejected it never returns to pending, and
// at most one review request per activity may be in flight.
type Service struct {
	client *backend.Client
	views  *view.Registry[domain.Activity]

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New(client *backend.Client) *Service {
	return &Service{
		client:   client,
		views:    view.NewRegistry(domain.ViewSpec()),
		inFlight: make(map[string]struct{}),
	}
}

type ListQuery struct {
	Filters  map[string]string
	Sort     string
	Page     int
	PageSize int
}

// List refreshes the session's activity queue and returns the visible page.
func (s *Service) List(ctx context.Context, token, sessionID string, q ListQuery) (view.Page[domain.Activity], error) {
	v := s.views.For(sessionID)

	gen := v.BeginFetch()
	page, err := s.client.List(ctx, token, basePath, nil)
	if err != nil {
		return view.Page[domain.Activity]{}, fmt.Errorf("list activities: %w", err)
	}
	v.ApplyFetch(gen, domain.FromAPIList(page.Data))

	for name, value := range q.Filters {
		v.SetFilter(name, value)
	}
	v.SetSort(q.Sort)
	if q.PageSize > 0 {
		v.SetPageSize(q.PageSize)
	}
	if q.Page > 0 {
		v.SetPage(q.Page)
	}

	return v.Page(), nil
}

// Approve marks a pending activity as approved, which credits the
// collaborator's CoinFits on the backend side.
func (s *Service) Approve(ctx context.Context, token, sessionID, id string) (domain.Activity, error) {
	return s.review(ctx, token, sessionID, id, "/validate", domain.StatusAprobada, true)
}

// Reject marks a pending activity as rejected. No CoinFits are awarded.
func (s *Service) Reject(ctx context.Context, token, sessionID, id string) (domain.Activity, error) {
	return s.review(ctx, token, sessionID, id, "/invalidate", domain.StatusRechazada, false)
}

func (s *Service) review(ctx context.Context, token, sessionID, id, action string, next domain.ReviewStatus, valid bool) (domain.Activity, error) {
	v := s.views.For(sessionID)

	current, ok := v.Get(id)
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	if !current.Pending() {
		return domain.Activity{}, fmt.Errorf("%w: activity %s is %s", domain.ErrAlreadyReviewed, id, current.Status)
	}

	if err := s.acquire(id); err != nil {
		return domain.Activity{}, err
	}
	defer s.release(id)

	// re-check under the guard: a concurrent review may have landed while
	// this request waited
	current, ok = v.Get(id)
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	if !current.Pending() {
		return domain.Activity{}, fmt.Errorf("%w: activity %s is %s", domain.ErrAlreadyReviewed, id, current.Status)
	}

	var raw json.RawMessage
	if err := s.client.PostJSON(ctx, token, basePath+"/"+id+action, nil, &raw); err != nil {
		return domain.Activity{}, fmt.Errorf("review activity %s: %w", id, err)
	}

	reviewed := domain.FromAPI(backend.UnwrapRecord(raw))
	if reviewed.ID != id {
		reviewed = current
		reviewed.Status = next
		reviewed.IsValid = valid
	}
	v.Replace(reviewed)
	return reviewed, nil
}

func (s *Service) acquire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return domain.ErrReviewInFlight
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// DropSession discards the session's view on logout.
func (s *Service) DropSession(sessionID string) {
	s.views.Drop(sessionID)
}

// EvictIdle drops views abandoned for longer than maxIdle.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	return s.views.EvictIdle(maxIdle)
}
