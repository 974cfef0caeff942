package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/security/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

const basePath = "/webadmin/users"

// Service manages console accounts and their roles.
type Service struct {
	client *backend.Client
	views  *view.Registry[domain.AdminUser]
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

// List refreshes the session's account list and returns the visible page.
func (s *Service) List(ctx context.Context, token, sessionID string, q ListQuery) (view.Page[domain.AdminUser], error) {
	v := s.views.For(sessionID)

	gen := v.BeginFetch()
	page, err := s.client.List(ctx, token, basePath, nil)
	if err != nil {
		return view.Page[domain.AdminUser]{}, fmt.Errorf("list admin users: %w", err)
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

// Input is the editable account surface.
type Input struct {
	Name            *string
	Email           *string
	Role            *string
	Password        *string
	PasswordConfirm *string
}

func (in Input) payload() map[string]string {
	out := map[string]string{}
	if in.Name != nil {
		out["nombre"] = *in.Name
	}
	if in.Email != nil {
		out["email"] = *in.Email
	}
	if in.Role != nil {
		out["rol"] = string(domain.ParseRole(*in.Role))
	}
	if in.Password != nil && *in.Password != "" {
		out["password"] = *in.Password
	}
	return out
}

func (in Input) validate(creating bool) error {
	if creating {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
			return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
		}
		if in.Password == nil || *in.Password == "" {
			return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
		}
	}
	if in.Password != nil && *in.Password != "" {
		if in.PasswordConfirm == nil || *in.Password != *in.PasswordConfirm {
			return fmt.Errorf("%w: password confirmation does not match", domain.ErrInvalidInput)
		}
	}
	return nil
}

// Create registers a console account.
func (s *Service) Create(ctx context.Context, token, sessionID string, in Input) (domain.AdminUser, error) {
	if err := in.validate(true); err != nil {
		return domain.AdminUser{}, err
	}

	var raw json.RawMessage
	if err := s.client.PostJSON(ctx, token, basePath, in.payload(), &raw); err != nil {
		return domain.AdminUser{}, fmt.Errorf("create admin user: %w", err)
	}

	created := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Append(created)
	return created, nil
}

// Update edits an account.
func (s *Service) Update(ctx context.Context, token, sessionID, id string, in Input) (domain.AdminUser, error) {
	if err := in.validate(false); err != nil {
		return domain.AdminUser{}, err
	}

	var raw json.RawMessage
	if err := s.client.PutJSON(ctx, token, basePath+"/"+id, in.payload(), &raw); err != nil {
		return domain.AdminUser{}, fmt.Errorf("update admin user %s: %w", id, err)
	}

	updated := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Replace(updated)
	return updated, nil
}

// Toggle flips an account's active flag. Deactivation locks a colleague out
// of the console, so the call goes upstream only after the admin confirms;
// the local list changes only after the backend confirms the new state.
func (s *Service) Toggle(ctx context.Context, token, sessionID, id string, confirmed bool) (domain.AdminUser, error) {
	v := s.views.For(sessionID)
	current, ok := v.Get(id)
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	if !confirmed {
		return domain.AdminUser{}, domain.ErrConfirmRequired
	}

	var raw json.RawMessage
	if err := s.client.Patch(ctx, token, basePath+"/"+id+"/toggle", nil, &raw); err != nil {
		return domain.AdminUser{}, fmt.Errorf("toggle admin user %s: %w", id, err)
	}

	toggled := domain.FromAPI(backend.UnwrapRecord(raw))
	if toggled.ID != id {
		toggled = current
		toggled.Active = !current.Active
	}
	v.Replace(toggled)
	return toggled, nil
}

// DropSession discards the session's view on logout.
func (s *Service) DropSession(sessionID string) {
	s.views.Drop(sessionID)
}

// EvictIdle drops views abandoned for longer than maxIdle.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	return s.views.EvictIdle(maxIdle)
}
