package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	t.Run("strips accents and case", func(t *testing.T) {
		assert.Equal(t, "halconfit", Fold("HalcónFit"))
		assert.Equal(t, "halconfit", Fold("HALCONFIT"))
		assert.Equal(t, "tecnologia", Fold("Tecnología"))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "activo", Fold("  Activo "))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", Fold(""))
	})
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Halcónfit", "HalconFit"))
	assert.True(t, EqualFold("ACTIVO", "activo"))
	assert.False(t, EqualFold("Activo", "Inactivo"))
}

func TestPick(t *testing.T) {
	levels := []string{"KoalaFit", "JaguarFit", "HalconFit"}

	t.Run("accented variant maps to canonical spelling", func(t *testing.T) {
		assert.Equal(t, "HalconFit", Pick("Halcónfit", "KoalaFit", levels...))
	})

	t.Run("unknown value folds to the fallback", func(t *testing.T) {
		assert.Equal(t, "KoalaFit", Pick("Desconocido", "KoalaFit", levels...))
		assert.Equal(t, "KoalaFit", Pick("", "KoalaFit", levels...))
	})
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "a", Coalesce("", "a", "b"))
	assert.Equal(t, "", Coalesce("", ""))
}
