package postgres

import "github.com/andresuchdata/stockroom/backend-go/internal/repository"

// NewStore wires every Postgres repository onto one pool.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Suppliers:  NewSupplierRepository(db),
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		StockIn:    NewStockInRepository(db),
		StockOut:   NewStockOutRepository(db),
		Summary:    NewStockSummaryRepository(db),
		Users:      NewUserRepository(db),
	}
}
