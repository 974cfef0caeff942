package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sanjerfit/webadmin-gateway/internal/normalize"
	"github.com/sanjerfit/webadmin-gateway/internal/view"
)

var (
	ErrNotFound        = errors.New("collaborator not found")
	ErrConfirmRequired = errors.New("deletion requires explicit confirmation")
	ErrInvalidInput    = errors.New("invalid collaborator data")
)

// Level is the three-tier fitness classification.
type Level string

const (
	LevelKoala  Level = "KoalaFit"
	LevelJaguar Level = "JaguarFit"
	LevelHalcon Level = "HalconFit"
)

// Status is the collaborator's program status.
type Status string

const (
	StatusActivo   Status = "Activo"
	StatusInactivo Status = "Inactivo"
)

// ParseLevel folds accents and casing before matching; anything
// unrecognized becomes KoalaFit because the console branches exhaustively on
// the three tiers.
func ParseLevel(raw string) Level {
	return Level(normalize.Pick(raw, string(LevelKoala),
		string(LevelKoala), string(LevelJaguar), string(LevelHalcon)))
}

// ParseStatus defaults unknown values to Inactivo, the safe side for a
// wellness program roster.
func ParseStatus(raw string) Status {
	return Status(normalize.Pick(raw, string(StatusInactivo),
		string(StatusActivo), string(StatusInactivo)))
}

// Collaborator is the canonical in-memory shape the console renders. Field
// names mirror what the console expects.
type Collaborator struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Area              string    `json:"area"`
	Level             Level     `json:"level"`
	Status            Status    `json:"status"`
	Photo             string    `json:"photo"`
	Address           string    `json:"address"`
	Occupation        string    `json:"occupation"`
	Weight            float64   `json:"weight"`
	Height            float64   `json:"height"`
	BloodType         string    `json:"bloodType"`
	Allergies         string    `json:"allergies"`
	MedicalConditions string    `json:"medicalConditions"`
	BMI               string    `json:"bmi"`
	CoinFits          int       `json:"coinFits"`
	LastActive        time.Time `json:"lastActive"`
}

// BMI computes the body-mass index from weight in kilograms and height in
// centimeters, rendered with two decimals. Zero height yields an empty
// string rather than a division failure.
func BMI(weightKg, heightCm float64) string {
	if weightKg <= 0 || heightCm <= 0 {
		return ""
	}
	meters := heightCm / 100
	return fmt.Sprintf("%.2f", weightKg/(meters*meters))
}

// apiCollaborator is the wire shape the core API sends. The backend mixes
// Spanish and English field names across routes, so both are accepted.
type apiCollaborator struct {
	ID       json.Number `json:"id"`
	Nombre   string      `json:"nombre"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Telefono string      `json:"telefono"`
	Phone    string      `json:"phone"`
	Area     string      `json:"area"`
	Nivel    string      `json:"nivel"`
	Level    string      `json:"level"`
	Estado   string      `json:"estado"`
	Status   string      `json:"status"`

	Foto     *string `json:"foto"`
	PhotoURL *string `json:"photo_url"`

	Direccion  string  `json:"direccion"`
	Ocupacion  string  `json:"ocupacion"`
	Peso       float64 `json:"peso"`
	Weight     float64 `json:"weight"`
	Altura     float64 `json:"altura"`
	Height     float64 `json:"height"`
	TipoSangre string  `json:"tipo_sangre"`
	BloodType  string  `json:"blood_type"`

	Alergias            string `json:"alergias"`
	CondicionesMedicas  string `json:"condiciones_medicas"`

	CoinFits   int    `json:"coin_fits"`
	LastActive string `json:"last_active"`
	UpdatedAt  string `json:"updated_at"`
}

// FromAPI normalizes one backend record into the canonical shape. It never
// fails: unknown enum values fold to safe defaults and absent fields
// coalesce to zero values.
func FromAPI(raw json.RawMessage) Collaborator {
	var api apiCollaborator
	_ = json.Unmarshal(raw, &api)

	weight := api.Peso
	if weight == 0 {
		weight = api.Weight
	}
	height := api.Altura
	if height == 0 {
		height = api.Height
	}

	var photo string
	if api.PhotoURL != nil {
		photo = *api.PhotoURL
	} else if api.Foto != nil {
		photo = *api.Foto
	}

	return Collaborator{
		ID:                api.ID.String(),
		Name:              normalize.Coalesce(api.Nombre, api.Name),
		Email:             api.Email,
		Phone:             normalize.Coalesce(api.Telefono, api.Phone),
		Area:              api.Area,
		Level:             ParseLevel(normalize.Coalesce(api.Nivel, api.Level)),
		Status:            ParseStatus(normalize.Coalesce(api.Estado, api.Status)),
		Photo:             photo,
		Address:           api.Direccion,
		Occupation:        api.Ocupacion,
		Weight:            weight,
		Height:            height,
		BloodType:         normalize.Coalesce(api.TipoSangre, api.BloodType),
		Allergies:         api.Alergias,
		MedicalConditions: api.CondicionesMedicas,
		BMI:               BMI(weight, height),
		CoinFits:          api.CoinFits,
		LastActive:        parseDate(normalize.Coalesce(api.LastActive, api.UpdatedAt)),
	}
}

// FromAPIList decodes a backend array into canonical records, skipping
// entries that are not objects.
func FromAPIList(raw json.RawMessage) []Collaborator {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}

	out := make([]Collaborator, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromAPI(r))
	}
	return out
}

// parseDate accepts the formats the backend emits; anything unparseable is
// the zero time, which sorts as earliest.
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

// ViewSpec declares the collaborator list's filterable and sortable surface.
// Search is accent- and case-insensitive over name, email and phone; the
// remaining filters are exact matches through the same folding.
func ViewSpec() view.Spec[Collaborator] {
	contains := func(haystack, needle string) bool {
		return strings.Contains(normalize.Fold(haystack), normalize.Fold(needle))
	}

	return view.Spec[Collaborator]{
		ID: func(c Collaborator) string { return c.ID },
		Filters: map[string]view.Predicate[Collaborator]{
			"search": func(c Collaborator, v string) bool {
				return contains(c.Name, v) || contains(c.Email, v) || contains(c.Phone, v)
			},
			"area":      func(c Collaborator, v string) bool { return normalize.EqualFold(c.Area, v) },
			"level":     func(c Collaborator, v string) bool { return ParseLevel(v) == c.Level },
			"status":    func(c Collaborator, v string) bool { return normalize.EqualFold(string(c.Status), v) },
			"bloodType": func(c Collaborator, v string) bool { return normalize.EqualFold(c.BloodType, v) },
		},
		Sorts: map[string]view.Less[Collaborator]{
			"name":   func(a, b Collaborator) bool { return normalize.Fold(a.Name) < normalize.Fold(b.Name) },
			"email":  func(a, b Collaborator) bool { return normalize.Fold(a.Email) < normalize.Fold(b.Email) },
			"area":   func(a, b Collaborator) bool { return normalize.Fold(a.Area) < normalize.Fold(b.Area) },
			"level":  func(a, b Collaborator) bool { return a.Level < b.Level },
			"status": func(a, b Collaborator) bool { return a.Status < b.Status },
			// numeric, not lexicographic: "10" must not sort before "9"
			"coinFits":   func(a, b Collaborator) bool { return a.CoinFits < b.CoinFits },
			"lastActive": func(a, b Collaborator) bool { return a.LastActive.Before(b.LastActive) },
		},
	}
}
