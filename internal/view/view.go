// Package view implements the list/filter/sort/paginate state every admin
// page shares. Each admin session gets one View per list page; the page's
// service feeds it normalized entities fetched from the core API and the
// handlers read page slices out of it.
package view

import (
	"math"
	"sort"
	"sync"
)

// DefaultPageSize is the number of rows shown in paged lists.
const DefaultPageSize = 10

// Predicate reports whether an entity matches a filter value. An empty
// filter value never reaches the predicate; it matches everything.
type Predicate[T any] func(item T, value string) bool

// Less orders two entities for a sortable field.
type Less[T any] func(a, b T) bool

// Spec declares the filterable and sortable surface of a collection plus the
// identity used to reconcile mutations.
type Spec[T any] struct {
	Filters map[string]Predicate[T]
	Sorts   map[string]Less[T]
	ID      func(T) string
}

// Page is the derived slice handed to the renderer.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Number     int `json:"page"`
	PerPage    int `json:"per_page"`
}

// View owns one canonical in-memory collection and its filter/sort/page
// state. It is owned by a single page component; all methods are safe for
// concurrent use because overlapping fetches do happen (see BeginFetch).
type View[T any] struct {
	mu   sync.Mutex
	spec Spec[T]

	items   []T
	filters map[string]string

	sortField string
	sortAsc   bool

	page     int
	pageSize int

	// fetch generation counters for the stale-response guard
	latest  uint64
	applied uint64
}

func New[T any](spec Spec[T]) *View[T] {
	return &View[T]{
		spec:     spec,
		filters:  make(map[string]string),
		sortAsc:  true,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// BeginFetch registers a new list fetch and returns its generation. Callers
// pass the generation back to ApplyFetch once the response arrives.
func (v *View[T]) BeginFetch() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.latest++
	return v.latest
}

// ApplyFetch installs a fetched collection unless a newer fetch has been
// requested since, in which case the stale response is discarded and false
// is returned. Out-of-order responses therefore never overwrite fresher
// data.
func (v *View[T]) ApplyFetch(gen uint64, items []T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.latest || gen <= v.applied {
		return false
	}

	v.applied = gen
	v.items = append([]T(nil), items...)
	return true
}

// SetFilter records a filter value. A changed value resets pagination to
// page 1: a stale page number could otherwise point past the end of the
// shrunken result set. Setting the same value again is a no-op.
func (v *View[T]) SetFilter(name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.filters[name] == value {
		return
	}
	if value == "" {
		delete(v.filters, name)
	} else {
		v.filters[name] = value
	}
	v.page = 1
}

// Filter returns the current value for a filter field.
func (v *View[T]) Filter(name string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters[name]
}

// SetSort selects the sort field. Re-selecting the active field toggles
// direction; a new field starts ascending. Unknown fields are ignored.
func (v *View[T]) SetSort(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if field == "" {
		return
	}
	if _, ok := v.spec.Sorts[field]; !ok {
		return
	}

	if v.sortField == field {
		v.sortAsc = !v.sortAsc
		return
	}
	v.sortField = field
	v.sortAsc = true
}

// Sort reports the active sort field and direction.
func (v *View[T]) Sort() (field string, asc bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortField, v.sortAsc
}

// SetPage requests a page. Out-of-range values are clamped when the page is
// rendered, never treated as errors.
func (v *View[T]) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 {
		n = 1
	}
	v.page = n
}

// SetPageSize changes the page size and resets to page 1, for the same
// reason a filter change does.
func (v *View[T]) SetPageSize(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if n < 1 || n == v.pageSize {
		return
	}
	v.pageSize = n
	v.page = 1
}

// Page derives the visible slice from the filtered and sorted collection.
func (v *View[T]) Page() Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := v.filtered()
	v.sortRows(rows)

	total := len(rows)
	totalPages := int(math.Ceil(float64(total) / float64(v.pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	if v.page > totalPages {
		v.page = totalPages
	}
	if v.page < 1 {
		v.page = 1
	}

	start := (v.page - 1) * v.pageSize
	end := start + v.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      rows[start:end],
		Total:      total,
		TotalPages: totalPages,
		Number:     v.page,
		PerPage:    v.pageSize,
	}
}

// Rows returns the filtered and sorted collection without pagination, for
// exports that cover every matching row.
func (v *View[T]) Rows() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	rows := v.filtered()
	v.sortRows(rows)
	return rows
}

// Items returns a snapshot of the full canonical collection.
func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// Len returns the unfiltered collection size.
func (v *View[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Get finds an entity by ID.
func (v *View[T]) Get(id string) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, it := range v.items {
		if v.spec.ID(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Append adds a freshly created entity to the canonical collection. Used
// after the backend confirms a create; there is no optimistic insert.
func (v *View[T]) Append(item T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items, item)
}

// Replace swaps the entity with the same ID in place. Returns false when no
// such entity exists, leaving the collection untouched.
func (v *View[T]) Replace(item T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.spec.ID(item)
	for i, it := range v.items {
		if v.spec.ID(it) == id {
			v.items[i] = item
			return true
		}
	}
	return false
}

// Remove deletes the entity by ID. Called only after the backend confirms
// the deletion.
func (v *View[T]) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, it := range v.items {
		if v.spec.ID(it) == id {
			v.items = append(v.items[:i], v.items[i+1:]...)
			return true
		}
	}
	return false
}

// filtered applies every active filter with logical AND. Caller holds v.mu.
func (v *View[T]) filtered() []T {
	rows := make([]T, 0, len(v.items))

	for _, it := range v.items {
		match := true
		for name, value := range v.filters {
			pred, ok := v.spec.Filters[name]
			if !ok {
				continue
			}
			if !pred(it, value) {
				match = false
				break
			}
		}
		if match {
			rows = append(rows, it)
		}
	}
	return rows
}

// sortRows orders rows by the active sort field. Caller holds v.mu.
func (v *View[T]) sortRows(rows []T) {
	if v.sortField == "" {
		return
	}
	less, ok := v.spec.Sorts[v.sortField]
	if !ok {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if v.sortAsc {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}
