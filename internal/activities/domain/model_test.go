package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromAPIStatusFallsBackToIsValid(t *testing.T) {
	approved := FromAPI(json.RawMessage(`{"id": 1, "is_valid": true}`))
	assert.Equal(t, StatusAprobada, approved.Status)
	assert.True(t, approved.IsValid)

	rejected := FromAPI(json.RawMessage(`{"id": 2, "is_valid": false}`))
	assert.Equal(t, StatusRechazada, rejected.Status)
	assert.False(t, rejected.IsValid)

	pending := FromAPI(json.RawMessage(`{"id": 3}`))
	assert.Equal(t, StatusPendiente, pending.Status)
	assert.False(t, pending.IsValid)
}

func TestFromAPINestedUser(t *testing.T) {
	a := FromAPI(json.RawMessage(`{
		"id": 9,
		"tipo": "Natación",
		"estado": "PENDIENTE",
		"user": {"id": 4, "nombre": "José"}
	}`))

	assert.Equal(t, "4", a.CollaboratorID)
	assert.Equal(t, "José", a.CollaboratorName)
	assert.Equal(t, StatusPendiente, a.Status)
	assert.True(t, a.Pending())
}
