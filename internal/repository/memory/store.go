// Package memory is an in-process implementation of the repository
// interfaces. It enforces the same uniqueness and reference rules as the
// Postgres schema and is used by tests and by DB_DRIVER=memory.
package memory

import (
	"strings"
	"sync"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
)

// state holds every table behind one lock. A write holding the lock sees and
// changes all tables atomically, which stands in for a database transaction.
type state struct {
	mu         sync.RWMutex
	suppliers  table[domain.Supplier]
	categories table[domain.Category]
	products   table[domain.Product]
	invoices   table[domain.StockInInvoice]
	items      table[domain.StockInItem]
	stockOuts  table[domain.StockOut]
	users      table[domain.User]
}

// NewStore returns an empty store with every repository sharing one state.
func NewStore() *repository.Store {
	s := &state{
		suppliers:  newTable[domain.Supplier](),
		categories: newTable[domain.Category](),
		products:   newTable[domain.Product](),
		invoices:   newTable[domain.StockInInvoice](),
		items:      newTable[domain.StockInItem](),
		stockOuts:  newTable[domain.StockOut](),
		users:      newTable[domain.User](),
	}
	return &repository.Store{
		Suppliers:  &supplierRepository{s},
		Categories: &categoryRepository{s},
		Products:   &productRepository{s},
		StockIn:    &stockInRepository{s},
		StockOut:   &stockOutRepository{s},
		Summary:    &stockSummaryRepository{s},
		Users:      &userRepository{s},
	}
}

// table keeps rows by id and remembers insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) insert(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) put(id string, row T) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// oldestFirst returns rows in insertion order.
func (t *table[T]) oldestFirst() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// newestFirst mirrors ORDER BY created_at DESC.
func (t *table[T]) newestFirst() []T {
	out := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		out = append(out, t.rows[t.order[i]])
	}
	return out
}

func (t *table[T]) exists(match func(T) bool) bool {
	for _, row := range t.rows {
		if match(row) {
			return true
		}
	}
	return false
}

// paginate applies offset paging to an already filtered and ordered slice.
func paginate[T any](rows []T, params domain.ListParams) ([]T, int) {
	params = params.Normalize()
	total := len(rows)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	page := make([]T, end-start)
	copy(page, rows[start:end])
	return page, total
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := rows[:0]
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// matches is the in-memory counterpart of ILIKE '%term%' over several columns.
func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func missingReference(constraint string) error {
	return domain.NotFound("referenced record not found (%s)", constraint)
}

func stillInUse(entity string) error {
	return domain.Conflict("%s is still in use", entity)
}
