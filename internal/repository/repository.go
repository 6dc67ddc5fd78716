package repository

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
)

// Lookups return (nil, nil) when the row does not exist. Update returns
// (nil, nil) when the id matched nothing.

type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	FindByID(ctx context.Context, id string) (*domain.Supplier, error)
	FindByName(ctx context.Context, name string) (*domain.Supplier, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Supplier, int, error)
	Update(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Category, int, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByNaturalKey(ctx context.Context, productCode, nameEn, nameKh string) (*domain.Product, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type StockInRepository interface {
	// CreateInvoice inserts the header and every line in one transaction.
	CreateInvoice(ctx context.Context, invoice *domain.StockInInvoice, items []domain.StockInItem) (*domain.StockInInvoice, []domain.StockInItem, error)
	FindInvoiceByID(ctx context.Context, id string) (*domain.StockInInvoice, error)
	ListInvoices(ctx context.Context, params domain.ListParams) ([]domain.StockInInvoice, int, error)
	CountInvoices(ctx context.Context) (int, error)
	FindItemByID(ctx context.Context, id string) (*domain.StockInItem, error)
	ListItems(ctx context.Context, params domain.ListParams) ([]domain.StockInItem, int, error)
	// UpdateInvoiceAndItem locks the invoice and the item scoped to it, resolves
	// the change with merge and writes both rows, all in one transaction.
	UpdateInvoiceAndItem(ctx context.Context, invoiceID, itemID string, merge domain.MergeFunc) error
	DeleteItem(ctx context.Context, invoiceID, itemID string) (bool, error)
	// DeleteInvoice removes the invoice together with its items.
	DeleteInvoice(ctx context.Context, id string) (bool, error)
	TotalQuantity(ctx context.Context) (int64, error)
}

type StockOutRepository interface {
	Create(ctx context.Context, stockOut *domain.StockOut) (*domain.StockOut, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.StockOut, int, error)
	Count(ctx context.Context) (int, error)
}

type StockSummaryRepository interface {
	// ListMovements returns per-product sums over every product, including
	// products without any movement, ordered by name_en.
	ListMovements(ctx context.Context, params domain.ListParams) ([]domain.StockMovement, int, error)
	FindMovement(ctx context.Context, productID string) (*domain.StockMovement, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Store bundles every repository a process needs.
type Store struct {
	Suppliers  SupplierRepository
	Categories CategoryRepository
	Products   ProductRepository
	StockIn    StockInRepository
	StockOut   StockOutRepository
	Summary    StockSummaryRepository
	Users      UserRepository
}
