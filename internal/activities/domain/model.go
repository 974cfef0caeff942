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
	ErrNotFound        = errors.New("activity not found")
	ErrAlreadyReviewed = errors.New("activity was already reviewed")
	ErrReviewInFlight  = errors.New("a review for this activity is already in progress")
)

// ReviewStatus is an activity's review state. Reviews are one-way: a pending
// activity becomes approved or rejected and never leaves that state.
type ReviewStatus string

const (
	StatusPendiente ReviewStatus = "pendiente"
	StatusAprobada  ReviewStatus = "aprobada"
	StatusRechazada ReviewStatus = "rechazada"
)

func ParseStatus(raw string) ReviewStatus {
	return ReviewStatus(normalize.Pick(raw, string(StatusPendiente),
		string(StatusPendiente), string(StatusAprobada), string(StatusRechazada)))
}

// Activity is a collaborator-submitted exercise record awaiting review.
type Activity struct {
	ID               string       `json:"id"`
	CollaboratorID   string       `json:"collaboratorId"`
	CollaboratorName string       `json:"collaboratorName"`
	Type             string       `json:"type"`
	Description      string       `json:"description"`
	Evidence         string       `json:"evidence"`
	CoinFits         int          `json:"coinFits"`
	Status           ReviewStatus `json:"status"`
	IsValid          bool         `json:"isValid"`
	Date             time.Time    `json:"date"`
}

// Pending reports whether the activity can still be reviewed.
func (a Activity) Pending() bool { return a.Status == StatusPendiente }

type apiActivity struct {
	ID          json.Number `json:"id"`
	UserID      json.Number `json:"user_id"`
	Tipo        string      `json:"tipo"`
	Type        string      `json:"type"`
	Descripcion string      `json:"descripcion"`
	Description string      `json:"description"`
	Evidencia   *string     `json:"evidencia"`
	PhotoURL    *string     `json:"photo_url"`
	CoinFits    int         `json:"coin_fits"`
	Estado      string      `json:"estado"`
	Status      string      `json:"status"`
	IsValid     *bool       `json:"is_valid"`
	Fecha       string      `json:"fecha"`
	CreatedAt   string      `json:"created_at"`

	User *struct {
		ID     json.Number `json:"id"`
		Nombre string      `json:"nombre"`
		Name   string      `json:"name"`
	} `json:"user"`
}

// FromAPI normalizes one backend activity. The submitter arrives as a nested
// user object on list routes and as a bare user_id elsewhere.
func FromAPI(raw json.RawMessage) Activity {
	var api apiActivity
	_ = json.Unmarshal(raw, &api)

	var evidence string
	if api.Evidencia != nil {
		evidence = *api.Evidencia
	} else if api.PhotoURL != nil {
		evidence = *api.PhotoURL
	}

	// some routes omit estado and only carry the is_valid flag
	status := normalize.Coalesce(api.Estado, api.Status)
	var st ReviewStatus
	switch {
	case status == "" && api.IsValid != nil && *api.IsValid:
		st = StatusAprobada
	case status == "" && api.IsValid != nil:
		st = StatusRechazada
	default:
		st = ParseStatus(status)
	}

	valid := st == StatusAprobada
	if api.IsValid != nil {
		valid = *api.IsValid
	}

	a := Activity{
		ID:             api.ID.String(),
		CollaboratorID: api.UserID.String(),
		Type:           normalize.Coalesce(api.Tipo, api.Type),
		Description:    normalize.Coalesce(api.Descripcion, api.Description),
		Evidence:       evidence,
		CoinFits:       api.CoinFits,
		Status:         st,
		IsValid:        valid,
		Date:           parseDate(normalize.Coalesce(api.Fecha, api.CreatedAt)),
	}
	if api.User != nil {
		a.CollaboratorName = normalize.Coalesce(api.User.Nombre, api.User.Name)
		if a.CollaboratorID == "" {
			a.CollaboratorID = api.User.ID.String()
		}
	}
	return a
}

func FromAPIList(raw json.RawMessage) []Activity {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}
	out := make([]Activity, 0, len(rows))
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

// ViewSpec declares the activity queue's filterable and sortable surface.
func ViewSpec() view.Spec[Activity] {
	return view.Spec[Activity]{
		ID: func(a Activity) string { return a.ID },
		Filters: map[string]view.Predicate[Activity]{
			"search": func(a Activity, v string) bool {
				return strings.Contains(normalize.Fold(a.CollaboratorName), normalize.Fold(v)) ||
					strings.Contains(normalize.Fold(a.Description), normalize.Fold(v))
			},
			"type":   func(a Activity, v string) bool { return normalize.EqualFold(a.Type, v) },
			"status": func(a Activity, v string) bool { return ParseStatus(v) == a.Status },
		},
		Sorts: map[string]view.Less[Activity]{
			"collaborator": func(a, b Activity) bool {
				return normalize.Fold(a.CollaboratorName) < normalize.Fold(b.CollaboratorName)
			},
			"type":     func(a, b Activity) bool { return normalize.Fold(a.Type) < normalize.Fold(b.Type) },
			"status":   func(a, b Activity) bool { return a.Status < b.Status },
			"coinFits": func(a, b Activity) bool { return a.CoinFits < b.CoinFits },
			"date":     func(a, b Activity) bool { return a.Date.Before(b.Date) },
		},
	}
}
