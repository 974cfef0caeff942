package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/collaborators/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

const basePath = "/webadmin/colaborators"

// Service keeps the per-session collaborator collections in sync with the
// core API.
type Service struct {
	client *backend.Client
	views  *view.Registry[domain.Collaborator]
}

func New(client *backend.Client) *Service {
	return &Service{
		client: client,
		views:  view.NewRegistry(domain.ViewSpec()),
	}
}

// ListQuery carries the list controls a request may adjust. Zero values
// leave the session's current view state alone.
type ListQuery struct {
	Filters  map[string]string
	Sort     string
	Page     int
	PageSize int
}

// List refreshes the session's collection from the core API, applies the
// requested controls and returns the visible page. A response that arrives
// after a newer fetch began is discarded; the page is then derived from the
// fresher data.
func (s *Service) List(ctx context.Context, token, sessionID string, q ListQuery) (view.Page[domain.Collaborator], error) {
	v := s.views.For(sessionID)

	gen := v.BeginFetch()
	page, err := s.client.List(ctx, token, basePath, nil)
	if err != nil {
		return view.Page[domain.Collaborator]{}, fmt.Errorf("list collaborators: %w", err)
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

// Get returns one collaborator from the session's collection, falling back
// to the core API when the collection has not been fetched yet.
func (s *Service) Get(ctx context.Context, token, sessionID, id string) (domain.Collaborator, error) {
	v := s.views.For(sessionID)
	if c, ok := v.Get(id); ok {
		return c, nil
	}

	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, token, basePath+"/"+id, nil, &raw); err != nil {
		return domain.Collaborator{}, fmt.Errorf("get collaborator %s: %w", id, err)
	}
	if len(raw) == 0 {
		return domain.Collaborator{}, domain.ErrNotFound
	}
	return domain.FromAPI(raw), nil
}

// Input is the editable collaborator surface. Pointer fields distinguish
// "leave unchanged" from "set to empty" on updates.
type Input struct {
	Name              *string
	Email             *string
	Phone             *string
	Area              *string
	Level             *string
	Status            *string
	Address           *string
	Occupation        *string
	Weight            *float64
	Height            *float64
	BloodType         *string
	Allergies         *string
	MedicalConditions *string
	Password          *string
	PasswordConfirm   *string
}

// fields maps the set values onto the backend's Spanish field names.
func (in Input) fields() map[string]string {
	out := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("nombre", in.Name)
	set("email", in.Email)
	set("telefono", in.Phone)
	set("area", in.Area)
	set("direccion", in.Address)
	set("ocupacion", in.Occupation)
	set("tipo_sangre", in.BloodType)
	set("alergias", in.Allergies)
	set("condiciones_medicas", in.MedicalConditions)
	set("password", in.Password)

	if in.Level != nil {
		out["nivel"] = string(domain.ParseLevel(*in.Level))
	}
	if in.Status != nil {
		out["estado"] = string(domain.ParseStatus(*in.Status))
	}
	if in.Weight != nil {
		out["peso"] = fmt.Sprintf("%g", *in.Weight)
	}
	if in.Height != nil {
		out["altura"] = fmt.Sprintf("%g", *in.Height)
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
	}
	if in.Password != nil && *in.Password != "" {
		if in.PasswordConfirm == nil || *in.Password != *in.PasswordConfirm {
			return fmt.Errorf("%w: password confirmation does not match", domain.ErrInvalidInput)
		}
	}
	return nil
}

// Create registers a collaborator. With a photo attached the request goes
// out as multipart; otherwise plain JSON. The new record is appended to the
// session's collection only after the backend confirms it.
func (s *Service) Create(ctx context.Context, token, sessionID string, in Input, photo *backend.Upload) (domain.Collaborator, error) {
	if err := in.validate(true); err != nil {
		return domain.Collaborator{}, err
	}

	var raw json.RawMessage
	if photo != nil {
		if err := s.client.PostMultipart(ctx, token, basePath, in.fields(), photo, &raw); err != nil {
			return domain.Collaborator{}, fmt.Errorf("create collaborator: %w", err)
		}
	} else {
		if err := s.client.PostJSON(ctx, token, basePath, in.fields(), &raw); err != nil {
			return domain.Collaborator{}, fmt.Errorf("create collaborator: %w", err)
		}
	}

	created := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Append(created)
	return created, nil
}

// Update edits a collaborator. A photo forces the multipart POST with a
// method override field; the backend's framework cannot parse multipart
// bodies on PUT.
func (s *Service) Update(ctx context.Context, token, sessionID, id string, in Input, photo *backend.Upload) (domain.Collaborator, error) {
	if err := in.validate(false); err != nil {
		return domain.Collaborator{}, err
	}

	path := basePath + "/" + id
	var raw json.RawMessage
	if photo != nil {
		if err := s.client.PutMultipart(ctx, token, path, in.fields(), photo, &raw); err != nil {
			return domain.Collaborator{}, fmt.Errorf("update collaborator %s: %w", id, err)
		}
	} else {
		if err := s.client.PutJSON(ctx, token, path, in.fields(), &raw); err != nil {
			return domain.Collaborator{}, fmt.Errorf("update collaborator %s: %w", id, err)
		}
	}

	updated := domain.FromAPI(backend.UnwrapRecord(raw))
	if updated.ID == "" {
		// some backend routes answer with a bare message; refetch so the
		// collection reflects what was stored
		return s.refresh(ctx, token, sessionID, id)
	}
	s.views.For(sessionID).Replace(updated)
	return updated, nil
}

// Delete removes a collaborator. The first call without confirmation is
// rejected so the console can show its confirm dialog; only a confirmed
// request reaches the backend, and the row disappears from the collection
// only after the backend says yes.
func (s *Service) Delete(ctx context.Context, token, sessionID, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmRequired
	}
	if err := s.client.Delete(ctx, token, basePath+"/"+id); err != nil {
		return fmt.Errorf("delete collaborator %s: %w", id, err)
	}
	s.views.For(sessionID).Remove(id)
	return nil
}

// Items exposes the session's full normalized collection.
func (s *Service) Items(sessionID string) []domain.Collaborator {
	return s.views.For(sessionID).Items()
}

// FilteredRows exposes the session's filtered and sorted collection without
// pagination; the CSV export covers every matching row.
func (s *Service) FilteredRows(sessionID string) []domain.Collaborator {
	return s.views.For(sessionID).Rows()
}

// DropSession discards the session's view on logout.
func (s *Service) DropSession(sessionID string) {
	s.views.Drop(sessionID)
}

// EvictIdle drops views abandoned for longer than maxIdle.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	return s.views.EvictIdle(maxIdle)
}

func (s *Service) refresh(ctx context.Context, token, sessionID, id string) (domain.Collaborator, error) {
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, token, basePath+"/"+id, nil, &raw); err != nil {
		return domain.Collaborator{}, fmt.Errorf("refresh collaborator %s: %w", id, err)
	}
	updated := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Replace(updated)
	return updated, nil
}
