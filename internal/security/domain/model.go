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
	ErrNotFound        = errors.New("admin user not found")
	ErrConfirmRequired = errors.New("operation requires explicit confirmation")
	ErrInvalidInput    = errors.New("invalid admin user data")
)

// Role is a console user's permission tier.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleEditor        Role = "Editor"
	RoleVisualizador  Role = "Visualizador"
	RoleColaborador   Role = "Colaborador"
)

// ParseRole folds accents and casing; unknown roles become Visualizador so a
// mistyped backend value can never grant write access.
func ParseRole(raw string) Role {
	return Role(normalize.Pick(raw, string(RoleVisualizador),
		string(RoleAdministrador), string(RoleEditor), string(RoleVisualizador), string(RoleColaborador)))
}

// CanWrite reports whether the role may mutate program data.
func (r Role) CanWrite() bool {
	return r == RoleAdministrador || r == RoleEditor
}

// AdminUser is a console account.
type AdminUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	LastLogin time.Time `json:"lastLogin"`
}

type apiAdminUser struct {
	ID           json.Number `json:"id"`
	Nombre       string      `json:"nombre"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Rol          string      `json:"rol"`
	Role         string      `json:"role"`
	Estado       string      `json:"estado"`
	Activo       *bool       `json:"activo"`
	Active       *bool       `json:"active"`
	LastLogin    string      `json:"last_login"`
	UltimoAcceso string      `json:"ultimo_acceso"`
}

// FromAPI normalizes one backend account. Some routes report status as a
// boolean flag, others as an estado string.
func FromAPI(raw json.RawMessage) AdminUser {
	var api apiAdminUser
	_ = json.Unmarshal(raw, &api)

	active := false
	switch {
	case api.Activo != nil:
		active = *api.Activo
	case api.Active != nil:
		active = *api.Active
	default:
		active = normalize.EqualFold(api.Estado, "Activo")
	}

	return AdminUser{
		ID:        api.ID.String(),
		Name:      normalize.Coalesce(api.Nombre, api.Name),
		Email:     api.Email,
		Role:      ParseRole(normalize.Coalesce(api.Rol, api.Role)),
		Active:    active,
		LastLogin: parseDate(normalize.Coalesce(api.LastLogin, api.UltimoAcceso)),
	}
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

func FromAPIList(raw json.RawMessage) []AdminUser {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}
	out := make([]AdminUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromAPI(r))
	}
	return out
}

// ViewSpec declares the account list's filterable and sortable surface.
func ViewSpec() view.Spec[AdminUser] {
	return view.Spec[AdminUser]{
		ID: func(u AdminUser) string { return u.ID },
		Filters: map[string]view.Predicate[AdminUser]{
			"search": func(u AdminUser, v string) bool {
				return strings.Contains(normalize.Fold(u.Name), normalize.Fold(v)) ||
					strings.Contains(normalize.Fold(u.Email), normalize.Fold(v))
			},
			"role": func(u AdminUser, v string) bool { return ParseRole(v) == u.Role },
			"active": func(u AdminUser, v string) bool {
				return u.Active == (normalize.Fold(v) == "true")
			},
		},
		Sorts: map[string]view.Less[AdminUser]{
			"name":  func(a, b AdminUser) bool { return normalize.Fold(a.Name) < normalize.Fold(b.Name) },
			"email": func(a, b AdminUser) bool { return normalize.Fold(a.Email) < normalize.Fold(b.Email) },
			"role":  func(a, b AdminUser) bool { return a.Role < b.Role },
			// accounts that never logged in (zero time) sort first
			"lastLogin": func(a, b AdminUser) bool { return a.LastLogin.Before(b.LastLogin) },
		},
	}
}
