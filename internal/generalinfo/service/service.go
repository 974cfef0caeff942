package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/generalinfo/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

const basePath = "/webadmin/info"

// Service manages the informational board shown in the collaborator app.
type Service struct {
	client *backend.Client
	views  *view.Registry[domain.Post]
}

func New(client *backend.Client) *Service {
	return &Service{
		client: client,
		views:  view.NewRegistry(domain.ViewSpec()),
	}
}

type ListQuery struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// List refreshes the session's board and returns the visible page.
func (s *Service) List(ctx context.Context, token, sessionID string, q ListQuery) (view.Page[domain.Post], error) {
	v := s.views.For(sessionID)

	gen := v.BeginFetch()
	page, err := s.client.List(ctx, token, basePath, nil)
	if err != nil {
		return view.Page[domain.Post]{}, fmt.Errorf("list info posts: %w", err)
	}
	v.ApplyFetch(gen, domain.FromAPIList(page.Data))

	v.SetFilter("search", q.Search)
	v.SetSort(q.Sort)
	if q.PageSize > 0 {
		v.SetPageSize(q.PageSize)
	}
	if q.Page > 0 {
		v.SetPage(q.Page)
	}

	return v.Page(), nil
}

// Input is the editable post surface. Each media slot takes either an
// uploaded file or an external URL; files are stored first through the
// backend's file endpoint and the returned path travels in the post payload.
type Input struct {
	Title    *string
	Content  *string
	ImageURL *string
	VideoURL *string
	Image    *backend.Upload
	Video    *backend.Upload
}

func (in Input) validate(creating bool) error {
	if creating {
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
			return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
		}
	}
	if in.Image != nil && in.ImageURL != nil && *in.ImageURL != "" {
		return fmt.Errorf("%w: provide an image file or an image URL, not both", domain.ErrInvalidInput)
	}
	if in.Video != nil && in.VideoURL != nil && *in.VideoURL != "" {
		return fmt.Errorf("%w: provide a video file or a video URL, not both", domain.ErrInvalidInput)
	}
	return nil
}

// payload resolves media into backend fields, uploading files first.
func (in Input) payload(ctx context.Context, client *backend.Client, token string) (map[string]string, error) {
	out := map[string]string{}
	if in.Title != nil {
		out["titulo"] = *in.Title
	}
	if in.Content != nil {
		out["contenido"] = *in.Content
	}

	if in.Image != nil {
		path, err := client.UploadFile(ctx, token, *in.Image)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		out["image_path"] = path
	} else if in.ImageURL != nil {
		out["image_url"] = *in.ImageURL
	}

	if in.Video != nil {
		path, err := client.UploadFile(ctx, token, *in.Video)
		if err != nil {
			return nil, fmt.Errorf("upload video: %w", err)
		}
		out["video_path"] = path
	} else if in.VideoURL != nil {
		out["video_url"] = *in.VideoURL
	}

	return out, nil
}

// Create publishes a post to the board.
func (s *Service) Create(ctx context.Context, token, sessionID string, in Input) (domain.Post, error) {
	if err := in.validate(true); err != nil {
		return domain.Post{}, err
	}

	payload, err := in.payload(ctx, s.client, token)
	if err != nil {
		return domain.Post{}, err
	}

	var raw json.RawMessage
	if err := s.client.PostJSON(ctx, token, basePath, payload, &raw); err != nil {
		return domain.Post{}, fmt.Errorf("create info post: %w", err)
	}

	created := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Append(created)
	return created, nil
}

// Update edits a post.
func (s *Service) Update(ctx context.Context, token, sessionID, id string, in Input) (domain.Post, error) {
	if err := in.validate(false); err != nil {
		return domain.Post{}, err
	}

	payload, err := in.payload(ctx, s.client, token)
	if err != nil {
		return domain.Post{}, err
	}

	var raw json.RawMessage
	if err := s.client.PutJSON(ctx, token, basePath+"/"+id, payload, &raw); err != nil {
		return domain.Post{}, fmt.Errorf("update info post %s: %w", id, err)
	}

	updated := domain.FromAPI(backend.UnwrapRecord(raw))
	s.views.For(sessionID).Replace(updated)
	return updated, nil
}

// Delete removes a post after explicit confirmation.
func (s *Service) Delete(ctx context.Context, token, sessionID, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmRequired
	}
	if err := s.client.Delete(ctx, token, basePath+"/"+id); err != nil {
		return fmt.Errorf("delete info post %s: %w", id, err)
	}
	s.views.For(sessionID).Remove(id)
	return nil
}

// DropSession discards the session's view on logout.
func (s *Service) DropSession(sessionID string) {
	s.views.Drop(sessionID)
}

// EvictIdle drops views abandoned for longer than maxIdle.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	return s.views.EvictIdle(maxIdle)
}
