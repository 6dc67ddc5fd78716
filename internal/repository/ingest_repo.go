package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/google/uuid"
)

// IngestRepository bulk-loads master data. Every upsert is keyed on the
// record's natural key so a seed file can be replayed.
type IngestRepository struct {
	db rowQuerier
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewIngestRepository(db rowQuerier) *IngestRepository {
	return &IngestRepository{db: db}
}

func (r *IngestRepository) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) (string, error) {
	query := `
		INSERT INTO suppliers (id, supplier_name, phone_number, address, company_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (supplier_name)
		DO UPDATE SET
			phone_number = EXCLUDED.phone_number,
			address = EXCLUDED.address,
			company_name = EXCLUDED.company_name,
			updated_at = NOW()
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		supplier.SupplierName,
		supplier.PhoneNumber,
		supplier.Address,
		supplier.CompanyName,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert supplier: %w", err)
	}
	return id, nil
}

func (r *IngestRepository) UpsertCategory(ctx context.Context, category *domain.Category) (string, error) {
	query := `
		INSERT INTO categories (id, category_name, description, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (category_name)
		DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		category.CategoryName,
		category.Description,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert category: %w", err)
	}
	return id, nil
}

// UpsertProduct resolves the category by product.CategoryName when
// CategoryID is empty.
func (r *IngestRepository) UpsertProduct(ctx context.Context, product *domain.Product) (string, error) {
	categoryID := product.CategoryID
	if categoryID == "" {
		err := r.db.QueryRowContext(ctx,
			`SELECT id FROM categories WHERE category_name = $1`, product.CategoryName,
		).Scan(&categoryID)
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("category %q not found for product %s", product.CategoryName, product.ProductCode)
		}
		if err != nil {
			return "", fmt.Errorf("failed to resolve category: %w", err)
		}
	}

	query := `
		INSERT INTO products (id, category_id, product_code, name_en, name_kh, beginning_quantity, minimum_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (product_code, name_en, name_kh)
		DO UPDATE SET
			category_id = EXCLUDED.category_id,
			beginning_quantity = EXCLUDED.beginning_quantity,
			minimum_stock = EXCLUDED.minimum_stock,
			updated_at = NOW()
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		categoryID,
		product.ProductCode,
		product.NameEn,
		product.NameKh,
		product.BeginningQuantity,
		product.MinimumStock,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert product: %w", err)
	}
	return id, nil
}

// UpsertUser expects user.Password to already hold the hash.
func (r *IngestRepository) UpsertUser(ctx context.Context, user *domain.User) (string, error) {
	query := `
		INSERT INTO users (id, user_name, email, role, password, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			user_name = EXCLUDED.user_name,
			role = EXCLUDED.role,
			password = EXCLUDED.password,
			updated_at = NOW()
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		user.UserName,
		user.Email,
		string(user.Role),
		user.Password,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert user: %w", err)
	}
	return id, nil
}
