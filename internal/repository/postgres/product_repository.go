package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

const productSelect = `
	SELECT
		p.id,
		p.category_id,
		c.category_name,
		p.product_code,
		p.name_en,
		p.name_kh,
		p.beginning_quantity,
		p.minimum_stock,
		p.created_at,
		p.updated_at
	FROM products p
	JOIN categories c ON p.category_id = c.id
`

const productSearch = `($1 = '' OR p.product_code ILIKE '%' || $1 || '%' OR p.name_en ILIKE '%' || $1 || '%' OR p.name_kh ILIKE '%' || $1 || '%' OR c.category_name ILIKE '%' || $1 || '%')`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (id, category_id, product_code, name_en, name_kh, beginning_quantity, minimum_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CategoryID, p.ProductCode, p.NameEn, p.NameKh,
		p.BeginningQuantity, p.MinimumStock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, translateWrite(err, "product", "create")
	}
	return r.FindByID(ctx, p.ID)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.findOne(ctx, productSelect+` WHERE p.id = $1 LIMIT 1`, id)
}

func (r *productRepository) FindByNaturalKey(ctx context.Context, productCode, nameEn, nameKh string) (*domain.Product, error) {
	return r.findOne(ctx, productSelect+`
		WHERE p.product_code = $1 AND p.name_en = $2 AND p.name_kh = $3
		LIMIT 1
	`, productCode, nameEn, nameKh)
}

func (r *productRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Product, error) {
	var p domain.Product
	if err := sqlx.GetContext(ctx, r.db, &p, query, args...); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, params domain.ListParams) ([]domain.Product, int, error) {
	query := productSelect + `
		WHERE ` + productSearch + `
		ORDER BY p.created_at DESC, p.id
		LIMIT $2 OFFSET $3
	`
	countQuery := `
		SELECT COUNT(*)
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE ` + productSearch

	products, total, err := selectPage[domain.Product](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET category_id = $1,
			product_code = $2,
			name_en = $3,
			name_kh = $4,
			beginning_quantity = $5,
			minimum_stock = $6,
			updated_at = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		p.CategoryID, p.ProductCode, p.NameEn, p.NameKh,
		p.BeginningQuantity, p.MinimumStock, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, translateWrite(err, "product", "update")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, p.ID)
}

func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "products", "product", id)
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "products")
}
