package domain

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/sanjerfit/webadmin-gateway/internal/normalize"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

var (
	ErrNotFound          = errors.New("premio not found")
	ErrConfirmRequired   = errors.New("operation requires explicit confirmation")
	ErrInvalidInput      = errors.New("invalid premio data")
	ErrNotRedeemable     = errors.New("premio is not redeemable")
	ErrInsufficientCoins = errors.New("collaborator does not have enough CoinFits")
)

// Premio is a prize collaborators redeem with CoinFits.
type Premio struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
	Image       string `json:"image"`
}

// Redeemable reports whether the premio can currently be delivered: it must
// be active and have stock left.
func (p Premio) Redeemable() bool { return p.Active && p.Stock > 0 }

type apiPremio struct {
	ID          json.Number `json:"id"`
	Nombre      string      `json:"nombre"`
	Name        string      `json:"name"`
	Descripcion string      `json:"descripcion"`
	Description string      `json:"description"`
	Costo       int         `json:"costo"`
	Cost        int         `json:"cost"`
	CoinFits    int         `json:"coin_fits"`
	Stock       int         `json:"stock"`
	Activo      *bool       `json:"activo"`
	Active      *bool       `json:"active"`
	Imagen      *string     `json:"imagen"`
	ImagePath   *string     `json:"image_path"`
	ImageURL    *string     `json:"image_url"`
}

// FromAPI normalizes one backend premio. The image may be a stored path or
// an external URL depending on how the premio was created.
func FromAPI(raw json.RawMessage) Premio {
	var api apiPremio
	_ = json.Unmarshal(raw, &api)

	cost := api.Costo
	if cost == 0 {
		cost = api.Cost
	}
	if cost == 0 {
		cost = api.CoinFits
	}

	active := false
	if api.Activo != nil {
		active = *api.Activo
	} else if api.Active != nil {
		active = *api.Active
	}

	var image string
	for _, v := range []*string{api.ImageURL, api.ImagePath, api.Imagen} {
		if v != nil && *v != "" {
			image = *v
			break
		}
	}

	return Premio{
		ID:          api.ID.String(),
		Name:        normalize.Coalesce(api.Nombre, api.Name),
		Description: normalize.Coalesce(api.Descripcion, api.Description),
		Cost:        cost,
		Stock:       api.Stock,
		Active:      active,
		Image:       image,
	}
}

func FromAPIList(raw json.RawMessage) []Premio {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}
	out := make([]Premio, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromAPI(r))
	}
	return out
}

// ViewSpec declares the premio catalog's filterable and sortable surface.
func ViewSpec() view.Spec[Premio] {
	return view.Spec[Premio]{
		ID: func(p Premio) string { return p.ID },
		Filters: map[string]view.Predicate[Premio]{
			"search": func(p Premio, v string) bool {
				return strings.Contains(normalize.Fold(p.Name), normalize.Fold(v)) ||
					strings.Contains(normalize.Fold(p.Description), normalize.Fold(v))
			},
			"active": func(p Premio, v string) bool {
				return p.Active == (normalize.Fold(v) == "true")
			},
			"redeemable": func(p Premio, v string) bool {
				return p.Redeemable() == (normalize.Fold(v) == "true")
			},
		},
		Sorts: map[string]view.Less[Premio]{
			"name":  func(a, b Premio) bool { return normalize.Fold(a.Name) < normalize.Fold(b.Name) },
			"cost":  func(a, b Premio) bool { return a.Cost < b.Cost },
			"stock": func(a, b Premio) bool { return a.Stock < b.Stock },
		},
	}
}
