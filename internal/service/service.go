// backend-go/internal/service/service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/google/uuid"
)

// Services bundles every service the HTTP layer needs.
type Services struct {
	Suppliers  *SupplierService
	Categories *CategoryService
	Products   *ProductService
	StockIn    *StockInService
	StockOut   *StockOutService
	Summary    *StockSummaryService
}

// New builds every service over one store.
func New(store *repository.Store) *Services {
	return &Services{
		Suppliers:  NewSupplierService(store.Suppliers),
		Categories: NewCategoryService(store.Categories),
		Products:   NewProductService(store.Products, store.Categories),
		StockIn:    NewStockInService(store.StockIn, store.Suppliers, store.Products),
		StockOut:   NewStockOutService(store.StockOut, store.Products, store.Summary),
		Summary:    NewStockSummaryService(store.Summary),
	}
}

type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// validID reports whether id can be a primary key. Malformed ids are reported
// as not found rather than reaching the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.Validation("%s is required", field)
	}
	return value, nil
}

// trimmedField trims a supplied patch field and rejects a blank one. A nil
// field stays nil.
func trimmedField(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, domain.Validation("%s cannot be empty", field)
	}
	return &v, nil
}

func listPage[T any](ctx context.Context, params domain.ListParams, list func(context.Context, domain.ListParams) ([]T, int, error)) (*domain.Page[T], error) {
	params = params.Normalize()
	params.Search = strings.TrimSpace(params.Search)

	items, total, err := list(ctx, params)
	if err != nil {
		return nil, err
	}
	return &domain.Page[T]{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}
