package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type stockOutRepository struct {
	db *DB
}

func NewStockOutRepository(db *DB) *stockOutRepository {
	return &stockOutRepository{db: db}
}

const stockOutSearch = `($1 = '' OR p.name_en ILIKE '%' || $1 || '%' OR p.name_kh ILIKE '%' || $1 || '%' OR u.user_name ILIKE '%' || $1 || '%')`

func (r *stockOutRepository) Create(ctx context.Context, so *domain.StockOut) (*domain.StockOut, error) {
	query := `
		INSERT INTO stock_out (id, product_id, quantity, employee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, product_id, quantity, employee, created_at, updated_at
	`
	var created domain.StockOut
	err := sqlx.GetContext(ctx, r.db, &created, query,
		so.ID, so.ProductID, so.Quantity, so.EmployeeID, so.CreatedAt, so.UpdatedAt)
	if err != nil {
		return nil, translateWrite(err, "stock out", "create")
	}
	return &created, nil
}

func (r *stockOutRepository) List(ctx context.Context, params domain.ListParams) ([]domain.StockOut, int, error) {
	query := `
		SELECT
			so.id,
			so.product_id,
			so.quantity,
			so.employee,
			so.created_at,
			so.updated_at,
			p.name_en,
			p.name_kh,
			u.user_name
		FROM stock_out so
		JOIN products p ON so.product_id = p.id
		JOIN users u ON so.employee = u.id
		WHERE ` + stockOutSearch + `
		ORDER BY so.created_at DESC, so.id
		LIMIT $2 OFFSET $3
	`
	countQuery := `
		SELECT COUNT(*)
		FROM stock_out so
		JOIN products p ON so.product_id = p.id
		JOIN users u ON so.employee = u.id
		WHERE ` + stockOutSearch

	rows, total, err := selectPage[domain.StockOut](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stock out: %w", err)
	}
	return rows, total, nil
}

func (r *stockOutRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "stock_out")
}
