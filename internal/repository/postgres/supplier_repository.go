package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) *supplierRepository {
	return &supplierRepository{db: db}
}

const supplierColumns = `id, supplier_name, phone_number, address, company_name, created_at, updated_at`

const supplierSearch = `($1 = '' OR supplier_name ILIKE '%' || $1 || '%' OR company_name ILIKE '%' || $1 || '%' OR phone_number ILIKE '%' || $1 || '%')`

func (r *supplierRepository) Create(ctx context.Context, s *domain.Supplier) (*domain.Supplier, error) {
	query := `
		INSERT INTO suppliers (id, supplier_name, phone_number, address, company_name, created_at, updated_at)
		VALUES (:id, :supplier_name, :phone_number, :address, :company_name, :created_at, :updated_at)
		RETURNING ` + supplierColumns

	var created domain.Supplier
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare supplier insert: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &created, s); err != nil {
		return nil, translateWrite(err, "supplier", "create")
	}
	return &created, nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 LIMIT 1`, id)
}

func (r *supplierRepository) FindByName(ctx context.Context, name string) (*domain.Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE supplier_name = $1 LIMIT 1`, name)
}

func (r *supplierRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := sqlx.GetContext(ctx, r.db, &s, query, arg); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context, params domain.ListParams) ([]domain.Supplier, int, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE ` + supplierSearch + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE ` + supplierSearch

	suppliers, total, err := selectPage[domain.Supplier](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, total, nil
}

func (r *supplierRepository) Update(ctx context.Context, s *domain.Supplier) (*domain.Supplier, error) {
	query := `
		UPDATE suppliers
		SET supplier_name = $1, phone_number = $2, address = $3, company_name = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + supplierColumns

	var updated domain.Supplier
	err := sqlx.GetContext(ctx, r.db, &updated, query,
		s.SupplierName, s.PhoneNumber, s.Address, s.CompanyName, s.UpdatedAt, s.ID)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, translateWrite(err, "supplier", "update")
	}
	return &updated, nil
}

func (r *supplierRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "suppliers", "supplier", id)
}

func (r *supplierRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "suppliers")
}

func deleteByID(ctx context.Context, db *DB, table, entity, id string) (bool, error) {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, translateDelete(err, entity)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func countRows(ctx context.Context, db *DB, table string) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, db, &total, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return total, nil
}
