package view

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string
	Name  string
	Area  string
	Coins int
	Last  time.Time
}

func rowSpec() Spec[row] {
	return Spec[row]{
		ID: func(r row) string { return r.ID },
		Filters: map[string]Predicate[row]{
			"search": func(r row, v string) bool {
				return strings.Contains(strings.ToLower(r.Name), strings.ToLower(v))
			},
			"area": func(r row, v string) bool { return r.Area == v },
		},
		Sorts: map[string]Less[row]{
			"name":  func(a, b row) bool { return a.Name < b.Name },
			"coins": func(a, b row) bool { return a.Coins < b.Coins },
			"last":  func(a, b row) bool { return a.Last.Before(b.Last) },
		},
	}
}

func fill(v *View[row], rows []row) {
	gen := v.BeginFetch()
	v.ApplyFetch(gen, rows)
}

func sampleRows(n int) []row {
	rows := make([]row, 0, n)
	for i := 1; i <= n; i++ {
		area := "Operaciones"
		if i%8 == 0 {
			area = "Tecnología"
		}
		rows = append(rows, row{
			ID:    fmt.Sprintf("r%d", i),
			Name:  fmt.Sprintf("Colaborador %02d", i),
			Area:  area,
			Coins: (i * 37) % 200,
		})
	}
	return rows
}

func TestFiltersCombineWithAnd(t *testing.T) {
	v := New(rowSpec())
	fill(v, []row{
		{ID: "1", Name: "Ana", Area: "Tecnología"},
		{ID: "2", Name: "Anabel", Area: "Contabilidad"},
		{ID: "3", Name: "Carlos", Area: "Tecnología"},
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		assert.Equal(t, 3, v.Page().Total)
	})

	t.Run("two active filters intersect", func(t *testing.T) {
		v.SetFilter("search", "ana")
		v.SetFilter("area", "Tecnología")
		p := v.Page()
		require.Equal(t, 1, p.Total)
		assert.Equal(t, "Ana", p.Items[0].Name)
	})

	t.Run("clearing a filter widens the result set", func(t *testing.T) {
		v.SetFilter("area", "")
		assert.Equal(t, 2, v.Page().Total)
	})
}

func TestPagesConcatenateWithoutGapsOrDuplicates(t *testing.T) {
	v := New(rowSpec())
	fill(v, sampleRows(25))
	v.SetPageSize(7)
	v.SetSort("name")

	seen := map[string]int{}
	var orderedIDs []string
	total := v.Page().TotalPages
	for p := 1; p <= total; p++ {
		v.SetPage(p)
		for _, it := range v.Page().Items {
			seen[it.ID]++
			orderedIDs = append(orderedIDs, it.ID)
		}
	}

	assert.Len(t, orderedIDs, 25)
	for id, count := range seen {
		assert.Equal(t, 1, count, "row %s appeared %d times", id, count)
	}
}

func TestDoubleReversalRestoresOrder(t *testing.T) {
	v := New(rowSpec())
	fill(v, sampleRows(12))
	v.SetPageSize(12)

	v.SetSort("coins")
	before := v.Page().Items

	v.SetSort("coins") // descending
	v.SetSort("coins") // back to ascending
	after := v.Page().Items

	assert.Equal(t, before, after)
}

func TestNumericSortIsNotLexicographic(t *testing.T) {
	v := New(rowSpec())
	fill(v, []row{
		{ID: "a", Name: "A", Coins: 10},
		{ID: "b", Name: "B", Coins: 9},
		{ID: "c", Name: "C", Coins: 100},
	})
	v.SetSort("coins")

	items := v.Page().Items
	require.Len(t, items, 3)
	assert.Equal(t, []int{9, 10, 100}, []int{items[0].Coins, items[1].Coins, items[2].Coins})
}

func TestMissingDatesSortAsEarliest(t *testing.T) {
	v := New(rowSpec())
	now := time.Now()
	fill(v, []row{
		{ID: "a", Last: now},
		{ID: "b"}, // zero time
		{ID: "c", Last: now.Add(-time.Hour)},
	})
	v.SetSort("last")

	items := v.Page().Items
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].ID)
}

func TestFilterAndPageSizeChangesResetPage(t *testing.T) {
	v := New(rowSpec())
	fill(v, sampleRows(30))

	v.SetPage(3)
	v.SetFilter("search", "colaborador")
	assert.Equal(t, 1, v.Page().Number)

	v.SetPage(2)
	v.SetPageSize(5)
	assert.Equal(t, 1, v.Page().Number)

	// re-setting the identical filter value must not reset paging
	v.SetPage(3)
	v.SetFilter("search", "colaborador")
	assert.Equal(t, 3, v.Page().Number)
}

func TestPageClamping(t *testing.T) {
	v := New(rowSpec())
	fill(v, sampleRows(25))
	v.SetFilter("area", "Tecnología") // matches rows 8, 16, 24

	p := v.Page()
	require.Equal(t, 3, p.Total)
	assert.Equal(t, 1, p.TotalPages)

	v.SetPage(2)
	p = v.Page()
	assert.Equal(t, 1, p.Number)
	assert.Len(t, p.Items, 3)
}

func TestEmptyCollectionHasOnePage(t *testing.T) {
	v := New(rowSpec())
	fill(v, nil)

	p := v.Page()
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.Number)
	assert.Empty(t, p.Items)
}

func TestRowsIgnorePaginationButKeepFilterAndSort(t *testing.T) {
	v := New(rowSpec())
	fill(v, sampleRows(25))
	v.SetFilter("area", "Operaciones")
	v.SetSort("coins")
	v.SetPageSize(5)
	v.SetPage(2)

	rows := v.Rows()
	assert.Len(t, rows, 22)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Coins, rows[i].Coins)
	}

	// the page itself stays windowed
	assert.Len(t, v.Page().Items, 5)
}

func TestStaleFetchResponsesAreDiscarded(t *testing.T) {
	v := New(rowSpec())

	first := v.BeginFetch()
	second := v.BeginFetch()

	// newest response lands first
	require.True(t, v.ApplyFetch(second, []row{{ID: "new"}}))

	// the older response resolves afterwards and must not win
	assert.False(t, v.ApplyFetch(first, []row{{ID: "old"}}))

	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].ID)
}

func TestMutationsReconcileById(t *testing.T) {
	v := New(rowSpec())
	fill(v, sampleRows(3))

	t.Run("replace swaps in place", func(t *testing.T) {
		require.True(t, v.Replace(row{ID: "r2", Name: "Actualizado"}))
		got, ok := v.Get("r2")
		require.True(t, ok)
		assert.Equal(t, "Actualizado", got.Name)
	})

	t.Run("replace of a missing id changes nothing", func(t *testing.T) {
		before := v.Items()
		assert.False(t, v.Replace(row{ID: "missing"}))
		assert.Equal(t, before, v.Items())
	})

	t.Run("remove deletes exactly one", func(t *testing.T) {
		require.True(t, v.Remove("r1"))
		assert.Equal(t, 2, v.Len())
		assert.False(t, v.Remove("r1"))
	})

	t.Run("append adds confirmed creates", func(t *testing.T) {
		v.Append(row{ID: "r9"})
		_, ok := v.Get("r9")
		assert.True(t, ok)
	})
}

func TestRegistryIsolatesSessions(t *testing.T) {
	r := NewRegistry(rowSpec())

	a := r.For("session-a")
	b := r.For("session-b")
	require.NotSame(t, a, b)

	fill(a, sampleRows(5))
	assert.Equal(t, 5, a.Len())
	assert.Equal(t, 0, b.Len())

	assert.Same(t, a, r.For("session-a"))

	r.Drop("session-a")
	assert.NotSame(t, a, r.For("session-a"))
}

func TestRegistryEvictsIdleViews(t *testing.T) {
	r := NewRegistry(rowSpec())
	r.For("stale")

	assert.Equal(t, 0, r.EvictIdle(time.Minute))
	assert.Equal(t, 1, r.EvictIdle(0))
}
