package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleDefaultsToReadOnly(t *testing.T) {
	assert.Equal(t, RoleAdministrador, ParseRole("ADMINISTRADOR"))
	assert.Equal(t, RoleEditor, ParseRole("editor"))
	assert.Equal(t, RoleColaborador, ParseRole("Colaborador"))

	// unknown roles must never grant write access
	assert.Equal(t, RoleVisualizador, ParseRole("SuperUsuario"))
	assert.Equal(t, RoleVisualizador, ParseRole(""))
}

func TestCanWrite(t *testing.T) {
	assert.True(t, RoleAdministrador.CanWrite())
	assert.True(t, RoleEditor.CanWrite())
	assert.False(t, RoleVisualizador.CanWrite())
	assert.False(t, RoleColaborador.CanWrite())
}

func TestFromAPIStatusVariants(t *testing.T) {
	boolFlag := FromAPI(json.RawMessage(`{"id": 1, "nombre": "Ana", "rol": "Editor", "activo": true}`))
	assert.True(t, boolFlag.Active)

	estado := FromAPI(json.RawMessage(`{"id": 2, "nombre": "Luis", "rol": "Editor", "estado": "ACTIVO"}`))
	assert.True(t, estado.Active)

	inactive := FromAPI(json.RawMessage(`{"id": 3, "nombre": "Eva", "rol": "Editor", "estado": "Inactivo"}`))
	assert.False(t, inactive.Active)
}

func TestFromAPILastLoginVariants(t *testing.T) {
	english := FromAPI(json.RawMessage(`{"id": 1, "nombre": "Ana", "last_login": "2026-08-20 09:15:00"}`))
	assert.Equal(t, 2026, english.LastLogin.Year())
	assert.Equal(t, time.August, english.LastLogin.Month())

	spanish := FromAPI(json.RawMessage(`{"id": 2, "nombre": "Luis", "ultimo_acceso": "2026-08-25T10:00:00Z"}`))
	assert.Equal(t, 25, spanish.LastLogin.Day())

	never := FromAPI(json.RawMessage(`{"id": 3, "nombre": "Eva"}`))
	assert.True(t, never.LastLogin.IsZero())
}
