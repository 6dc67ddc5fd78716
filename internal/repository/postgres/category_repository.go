package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type categoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *categoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, category_name, description, created_at, updated_at`

const categorySearch = `($1 = '' OR category_name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (id, category_name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns

	var created domain.Category
	err := sqlx.GetContext(ctx, r.db, &created, query,
		c.ID, c.CategoryName, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, translateWrite(err, "category", "create")
	}
	return &created, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.findOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 LIMIT 1`, id)
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE category_name = $1 LIMIT 1`, name)
}

func (r *categoryRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Category, error) {
	var c domain.Category
	if err := sqlx.GetContext(ctx, r.db, &c, query, arg); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context, params domain.ListParams) ([]domain.Category, int, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE ` + categorySearch + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	countQuery := `SELECT COUNT(*) FROM categories WHERE ` + categorySearch

	categories, total, err := selectPage[domain.Category](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE categories
		SET category_name = $1, description = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + categoryColumns

	var updated domain.Category
	if err := sqlx.GetContext(ctx, r.db, &updated, query, c.CategoryName, c.Description, c.UpdatedAt, c.ID); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateWrite(err, "category", "update")
	}
	return &updated, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "categories", "category", id)
}

func (r *categoryRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "categories")
}
