package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/premios/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

const basePath = "/webadmin/premios"

// Service manages the prize catalog and deliveries.
type Service struct {
	client *backend.Client
	views  *view.Registry[domain.Premio]
}

func New(client *backend.Client) *Service {
	return &Service{
		client: client,
		views:  view.NewRegistry(domain.ViewSpec()),
	}
}

type ListQuery struct {
	Filters  map[string]string
	Sort     string
	Page     int
	PageSize int
}

// List refreshes the session's catalog and returns the visible page.
func (s *Service) List(ctx context.Context, token, sessionID string, q ListQuery) (view.Page[domain.Premio], error) {
	v := s.views.For(sessionID)

	gen := v.BeginFetch()
	page, err := s.client.List(ctx, token, basePath, nil)
	if err != nil {
		return view.Page[domain.Premio]{}, fmt.Errorf("list premios: %w", err)
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

// Input is the editable premio surface. Image is either an uploaded file
// (passed separately) or an external URL; never both on one request.
type Input struct {
	Name        *string
	Description *string
	Cost        *int
	Stock       *int
	ImageURL    *string
}

func (in Input) fields() map[string]string {
	out := map[string]string{}
	if in.Name != nil {
		out["nombre"] = *in.Name
	}
	if in.Description != nil {
		out["descripcion"] = *in.Description
	}
	if in.Cost != nil {
		out["costo"] = strconv.Itoa(*in.Cost)
	}
	if in.Stock != nil {
		out["stock"] = strconv.Itoa(*in.Stock)
	}
	if in.ImageURL != nil {
		out["image_url"] = *in.ImageURL
	}
	return out
}

func (in Input) validate(creating bool, image *backend.Upload) error {
	if creating {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		if in.Cost == nil || *in.Cost <= 0 {
			return fmt.Errorf("%w: cost must be positive", domain.ErrInvalidInput)
		}
	}
	if in.Cost != nil && *in.Cost <= 0 {
		return fmt.Errorf("%w: cost must be positive", domain.ErrInvalidInput)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	if image != nil && in.ImageURL != nil && *in.ImageURL != "" {
		return fmt.Errorf("%w: provide an image file or an image URL, not both", domain.ErrInvalidInput)
	}
	return nil
}

// Create adds a premio to the catalog. With an image file the request goes
// out as multipart; an external image URL travels as an ordinary field.
func (s *Service) Create(ctx context.Context, token, sessionID string, in Input, image *backend.Upload) (domain.Premio, error) {
	if err := in.validate(true, image); err != nil {
		return domain.Premio{}, err
	}

	var raw json.RawMessage
	if image != nil {
		if err := s.client.PostMultipart(ctx, token, basePath, in.fields(), image, &raw); err != nil {
			return domain.Premio{}, fmt.Errorf("create premio: %w", err)
		}
	} else {
		if err := s.client.PostJSON(ctx, token, basePath, in.fields(), &raw); err != nil {
			return domain.Premio{}, fmt.Errorf("create premio: %w", err)
		}
	}

	created := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Append(created)
	return created, nil
}

// Update edits a premio. An image file forces the multipart POST with a
// method override field.
func (s *Service) Update(ctx context.Context, token, sessionID, id string, in Input, image *backend.Upload) (domain.Premio, error) {
	if err := in.validate(false, image); err != nil {
		return domain.Premio{}, err
	}

	path := basePath + "/" + id
	var raw json.RawMessage
	if image != nil {
		if err := s.client.PutMultipart(ctx, token, path, in.fields(), image, &raw); err != nil {
			return domain.Premio{}, fmt.Errorf("update premio %s: %w", id, err)
		}
	} else {
		if err := s.client.PutJSON(ctx, token, path, in.fields(), &raw); err != nil {
			return domain.Premio{}, fmt.Errorf("update premio %s: %w", id, err)
		}
	}

	updated := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Replace(updated)
	return updated, nil
}

// Toggle flips a premio's active flag. Availability changes are visible to
// every collaborator, so the call goes upstream only after the admin
// confirms; the local catalog changes only after the backend confirms the
// new state.
func (s *Service) Toggle(ctx context.Context, token, sessionID, id string, confirmed bool) (domain.Premio, error) {
	v := s.views.For(sessionID)
	current, ok := v.Get(id)
	if !ok {
		return domain.Premio{}, domain.ErrNotFound
	}
	if !confirmed {
		return domain.Premio{}, domain.ErrConfirmRequired
	}

	var raw json.RawMessage
	if err := s.client.Patch(ctx, token, basePath+"/"+id+"/toggle", nil, &raw); err != nil {
		return domain.Premio{}, fmt.Errorf("toggle premio %s: %w", id, err)
	}

	toggled := domain.FromAPI(backend.UnwrapRecord(raw))
	if toggled.ID != id {
		toggled = current
		toggled.Active = !current.Active
	}
	v.Replace(toggled)
	return toggled, nil
}

// Delete removes a premio from the catalog after explicit confirmation.
func (s *Service) Delete(ctx context.Context, token, sessionID, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmRequired
	}
	if err := s.client.Delete(ctx, token, basePath+"/"+id); err != nil {
		return fmt.Errorf("delete premio %s: %w", id, err)
	}
	s.views.For(sessionID).Remove(id)
	return nil
}

// AdjustStock changes a premio's stock by delta, clamped so it never goes
// below zero.
func (s *Service) AdjustStock(ctx context.Context, token, sessionID, id string, delta int) (domain.Premio, error) {
	v := s.views.For(sessionID)
	current, ok := v.Get(id)
	if !ok {
		return domain.Premio{}, domain.ErrNotFound
	}

	next := current.Stock + delta
	if next < 0 {
		next = 0
	}

	var raw json.RawMessage
	if err := s.client.PutJSON(ctx, token, basePath+"/"+id, map[string]int{"stock": next}, &raw); err != nil {
		return domain.Premio{}, fmt.Errorf("adjust stock for premio %s: %w", id, err)
	}

	updated := domain.FromAPI(backend.UnwrapRecord(raw))
	if updated.ID != id {
		updated = current
		updated.Stock = next
	}
	v.Replace(updated)
	return updated, nil
}

// Deliver hands a premio to a collaborator. The stock decrement and the
// CoinFits debit happen on the backend inside a single call; the gateway
// never issues them as separate requests, so a failure leaves both sides
// untouched. The pre-checks only save a round trip on outcomes the backend
// would reject anyway.
func (s *Service) Deliver(ctx context.Context, token, sessionID, id, collaboratorID string, collaboratorCoins int) (domain.Premio, error) {
	v := s.views.For(sessionID)
	current, ok := v.Get(id)
	if !ok {
		return domain.Premio{}, domain.ErrNotFound
	}
	if !current.Redeemable() {
		return domain.Premio{}, domain.ErrNotRedeemable
	}
	if collaboratorCoins >= 0 && collaboratorCoins < current.Cost {
		return domain.Premio{}, domain.ErrInsufficientCoins
	}

	payload := map[string]string{"user_id": collaboratorID}
	var raw json.RawMessage
	if err := s.client.PostJSON(ctx, token, basePath+"/"+id+"/deliver", payload, &raw); err != nil {
		return domain.Premio{}, fmt.Errorf("deliver premio %s: %w", id, err)
	}

	delivered := domain.FromAPI(backend.UnwrapRecord(raw))
	if delivered.ID != id {
		delivered = current
		delivered.Stock = current.Stock - 1
		if delivered.Stock < 0 {
			delivered.Stock = 0
		}
	}
	v.Replace(delivered)
	return delivered, nil
}

// DropSession discards the session's view on logout.
func (s *Service) DropSession(sessionID string) {
	s.views.Drop(sessionID)
}

// EvictIdle drops views abandoned for longer than maxIdle.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	return s.views.EvictIdle(maxIdle)
}
