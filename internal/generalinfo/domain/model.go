package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/normalize"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

var (
	ErrNotFound        = errors.New("info post not found")
	ErrInvalidInput    = errors.New("invalid info post data")
	ErrConfirmRequired = errors.New("deletion requires explicit confirmation")
)

// Post is an informational entry shown to collaborators in the mobile app:
// announcements, tips and program news.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Video     string    `json:"video"`
	CreatedAt time.Time `json:"createdAt"`
}

type apiPost struct {
	ID          json.Number `json:"id"`
	Titulo      string      `json:"titulo"`
	Title       string      `json:"title"`
	Contenido   string      `json:"contenido"`
	Descripcion string      `json:"descripcion"`
	Content     string      `json:"content"`
	ImagePath   *string     `json:"image_path"`
	ImageURL    *string     `json:"image_url"`
	VideoPath   *string     `json:"video_path"`
	VideoURL    *string     `json:"video_url"`
	CreatedAt   string      `json:"created_at"`
}

// FromAPI normalizes one backend post. Media fields may hold a stored path
// or an external URL; whichever is present wins.
func FromAPI(raw json.RawMessage) Post {
	var api apiPost
	_ = json.Unmarshal(raw, &api)

	pick := func(candidates ...*string) string {
		for _, c := range candidates {
			if c != nil && *c != "" {
				return *c
			}
		}
		return ""
	}

	return Post{
		ID:        api.ID.String(),
		Title:     normalize.Coalesce(api.Titulo, api.Title),
		Content:   normalize.Coalesce(api.Contenido, api.Descripcion, api.Content),
		Image:     pick(api.ImageURL, api.ImagePath),
		Video:     pick(api.VideoURL, api.VideoPath),
		CreatedAt: parseDate(api.CreatedAt),
	}
}

func FromAPIList(raw json.RawMessage) []Post {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}
	out := make([]Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromAPI(r))
	}
	return out
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ViewSpec declares the info board's filterable and sortable surface.
func ViewSpec() view.Spec[Post] {
	return view.Spec[Post]{
		ID: func(p Post) string { return p.ID },
		Filters: map[string]view.Predicate[Post]{
			"search": func(p Post, v string) bool {
				return strings.Contains(normalize.Fold(p.Title), normalize.Fold(v)) ||
					strings.Contains(normalize.Fold(p.Content), normalize.Fold(v))
			},
		},
		Sorts: map[string]view.Less[Post]{
			"title": func(a, b Post) bool { return normalize.Fold(a.Title) < normalize.Fold(b.Title) },
			"date":  func(a, b Post) bool { return a.CreatedAt.Before(b.CreatedAt) },
		},
	}
}
