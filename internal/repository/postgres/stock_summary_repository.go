package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type stockSummaryRepository struct {
	db *DB
}

func NewStockSummaryRepository(db *DB) *stockSummaryRepository {
	return &stockSummaryRepository{db: db}
}

// Stock-in and stock-out are aggregated separately before joining so a
// product with several rows on both sides is not double counted.
const movementSelect = `
	SELECT
		p.id AS product_id,
		p.product_code,
		p.name_en,
		p.name_kh,
		c.category_name,
		p.beginning_quantity,
		p.minimum_stock,
		COALESCE(si.total_quantity, 0) AS total_stock_in,
		COALESCE(si.total_cost, 0) AS total_stock_in_cost,
		COALESCE(so.total_quantity, 0) AS total_stock_out
	FROM products p
	JOIN categories c ON p.category_id = c.id
	LEFT JOIN (
		SELECT product_id, SUM(quantity) AS total_quantity, SUM(total_price) AS total_cost
		FROM stock_in_items
		GROUP BY product_id
	) si ON si.product_id = p.id
	LEFT JOIN (
		SELECT product_id, SUM(quantity) AS total_quantity
		FROM stock_out
		GROUP BY product_id
	) so ON so.product_id = p.id
`

const movementSearch = `($1 = '' OR p.name_en ILIKE '%' || $1 || '%' OR p.name_kh ILIKE '%' || $1 || '%' OR p.product_code ILIKE '%' || $1 || '%' OR c.category_name ILIKE '%' || $1 || '%')`

func (r *stockSummaryRepository) ListMovements(ctx context.Context, params domain.ListParams) ([]domain.StockMovement, int, error) {
	query := movementSelect + `
		WHERE ` + movementSearch + `
		ORDER BY p.name_en ASC, p.id
		LIMIT $2 OFFSET $3
	`
	countQuery := `
		SELECT COUNT(*)
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE ` + movementSearch

	rows, total, err := selectPage[domain.StockMovement](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock summary: %w", err)
	}
	return rows, total, nil
}

func (r *stockSummaryRepository) FindMovement(ctx context.Context, productID string) (*domain.StockMovement, error) {
	var m domain.StockMovement
	if err := sqlx.GetContext(ctx, r.db, &m, movementSelect+` WHERE p.id = $1`, productID); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product stock: %w", err)
	}
	return &m, nil
}
