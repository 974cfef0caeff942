package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromAPINormalizesAccentedEnums(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 7,
		"nombre": "María Pérez",
		"email": "maria@sanjer.com.gt",
		"nivel": "HalcónFit",
		"estado": "ACTIVO",
		"peso": 70,
		"altura": 170,
		"coin_fits": 120
	}`)

	c := FromAPI(raw)

	assert.Equal(t, "7", c.ID)
	assert.Equal(t, "María Pérez", c.Name)
	assert.Equal(t, LevelHalcon, c.Level)
	assert.Equal(t, StatusActivo, c.Status)
	assert.Equal(t, "24.22", c.BMI)
	assert.Equal(t, 120, c.CoinFits)
}

func TestFromAPIDefaultsUnknownEnums(t *testing.T) {
	c := FromAPI(json.RawMessage(`{"id": 1, "nivel": "TigreFit", "estado": "suspendido"}`))

	assert.Equal(t, LevelKoala, c.Level)
	assert.Equal(t, StatusInactivo, c.Status)
}

func TestFromAPIAcceptsEnglishFieldNames(t *testing.T) {
	c := FromAPI(json.RawMessage(`{
		"id": 2,
		"name": "Juan López",
		"phone": "5555-1234",
		"level": "jaguarfit",
		"status": "activo",
		"weight": 80,
		"height": 180,
		"photo_url": "https://cdn.example.com/juan.jpg"
	}`))

	assert.Equal(t, "Juan López", c.Name)
	assert.Equal(t, "5555-1234", c.Phone)
	assert.Equal(t, LevelJaguar, c.Level)
	assert.Equal(t, StatusActivo, c.Status)
	assert.Equal(t, "https://cdn.example.com/juan.jpg", c.Photo)
}

func TestBMIZeroHeight(t *testing.T) {
	assert.Equal(t, "", BMI(70, 0))
	assert.Equal(t, "", BMI(0, 170))
}

func TestSearchFilterIgnoresAccents(t *testing.T) {
	spec := ViewSpec()
	pred := spec.Filters["search"]

	c := Collaborator{Name: "José Rodríguez", Email: "jose@sanjer.com.gt"}

	assert.True(t, pred(c, "jose rod"))
	assert.True(t, pred(c, "RODRÍGUEZ"))
	assert.False(t, pred(c, "martinez"))
}

func TestLevelFilterMatchesAccentedValue(t *testing.T) {
	spec := ViewSpec()
	pred := spec.Filters["level"]

	c := Collaborator{Level: LevelHalcon}

	assert.True(t, pred(c, "HalcónFit"))
	assert.True(t, pred(c, "halconfit"))
	assert.False(t, pred(c, "JaguarFit"))
}

func TestCoinFitsSortIsNumeric(t *testing.T) {
	spec := ViewSpec()
	less := spec.Sorts["coinFits"]

	a := Collaborator{CoinFits: 9}
	b := Collaborator{CoinFits: 10}

	assert.True(t, less(a, b))
	assert.False(t, less(b, a))
}
