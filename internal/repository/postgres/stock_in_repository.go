package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type stockInRepository struct {
	db *DB
}

func NewStockInRepository(db *DB) *stockInRepository {
	return &stockInRepository{db: db}
}

const invoiceSelect = `
	SELECT
		i.id,
		i.supplier_id,
		s.supplier_name,
		i.purchase_date,
		i.reference_number,
		i.due_date,
		i.created_at,
		i.updated_at
	FROM invoice_stock_in i
	JOIN suppliers s ON i.supplier_id = s.id
`

const invoiceSearch = `($1 = '' OR i.reference_number ILIKE '%' || $1 || '%' OR s.supplier_name ILIKE '%' || $1 || '%')`

const itemColumns = `id, invoice_stockin_id, product_id, quantity, unit_price, total_price, expire_date, created_at, updated_at`

const itemSelect = `
	SELECT
		sii.id,
		sii.invoice_stockin_id,
		sii.product_id,
		sii.quantity,
		sii.unit_price,
		sii.total_price,
		sii.expire_date,
		sii.created_at,
		sii.updated_at,
		p.name_en,
		p.name_kh,
		i.reference_number,
		s.supplier_name
	FROM stock_in_items sii
	JOIN invoice_stock_in i ON sii.invoice_stockin_id = i.id
	JOIN suppliers s ON i.supplier_id = s.id
	JOIN products p ON sii.product_id = p.id
`

const itemSearch = `($1 = '' OR p.name_en ILIKE '%' || $1 || '%' OR p.name_kh ILIKE '%' || $1 || '%' OR i.reference_number ILIKE '%' || $1 || '%' OR s.supplier_name ILIKE '%' || $1 || '%')`

func (r *stockInRepository) CreateInvoice(ctx context.Context, invoice *domain.StockInInvoice, items []domain.StockInItem) (*domain.StockInInvoice, []domain.StockInItem, error) {
	var (
		createdInvoice domain.StockInInvoice
		createdItems   = make([]domain.StockInItem, 0, len(items))
	)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_stock_in (id, supplier_id, purchase_date, reference_number, due_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, invoice.ID, invoice.SupplierID, invoice.PurchaseDate, invoice.ReferenceNumber,
			invoice.DueDate, invoice.CreatedAt, invoice.UpdatedAt)
		if err != nil {
			return translateWrite(err, "invoice reference_number", "create")
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO stock_in_items (`+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+itemColumns)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			var created domain.StockInItem
			err := stmt.GetContext(ctx, &created,
				item.ID, invoice.ID, item.ProductID, item.Quantity, item.UnitPrice,
				item.TotalPrice, item.ExpireDate, item.CreatedAt, item.UpdatedAt)
			if err != nil {
				return translateWrite(err, "stock in item", "create")
			}
			createdItems = append(createdItems, created)
		}

		if err := tx.GetContext(ctx, &createdInvoice, invoiceSelect+` WHERE i.id = $1`, invoice.ID); err != nil {
			return fmt.Errorf("failed to read created invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	createdInvoice.Items = createdItems
	return &createdInvoice, createdItems, nil
}

func (r *stockInRepository) FindInvoiceByID(ctx context.Context, id string) (*domain.StockInInvoice, error) {
	var invoice domain.StockInInvoice
	if err := sqlx.GetContext(ctx, r.db, &invoice, invoiceSelect+` WHERE i.id = $1`, id); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	items, err := r.itemsForInvoices(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	invoice.Items = items[id]
	if invoice.Items == nil {
		invoice.Items = make([]domain.StockInItem, 0)
	}
	return &invoice, nil
}

func (r *stockInRepository) ListInvoices(ctx context.Context, params domain.ListParams) ([]domain.StockInInvoice, int, error) {
	query := invoiceSelect + `
		WHERE ` + invoiceSearch + `
		ORDER BY i.created_at DESC, i.id
		LIMIT $2 OFFSET $3
	`
	countQuery := `
		SELECT COUNT(*)
		FROM invoice_stock_in i
		JOIN suppliers s ON i.supplier_id = s.id
		WHERE ` + invoiceSearch

	invoices, total, err := selectPage[domain.StockInInvoice](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
	}
	items, err := r.itemsForInvoices(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range invoices {
		invoices[i].Items = items[invoices[i].ID]
		if invoices[i].Items == nil {
			invoices[i].Items = make([]domain.StockInItem, 0)
		}
	}

	return invoices, total, nil
}

func (r *stockInRepository) itemsForInvoices(ctx context.Context, invoiceIDs []string) (map[string][]domain.StockInItem, error) {
	grouped := make(map[string][]domain.StockInItem, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return grouped, nil
	}

	var items []domain.StockInItem
	query := itemSelect + `
		WHERE sii.invoice_stockin_id = ANY($1::uuid[])
		ORDER BY sii.created_at, sii.id
	`
	if err := sqlx.SelectContext(ctx, r.db, &items, query, pq.Array(invoiceIDs)); err != nil {
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}

	for _, item := range items {
		grouped[item.InvoiceID] = append(grouped[item.InvoiceID], item)
	}
	return grouped, nil
}

func (r *stockInRepository) CountInvoices(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "invoice_stock_in")
}

func (r *stockInRepository) FindItemByID(ctx context.Context, id string) (*domain.StockInItem, error) {
	var item domain.StockInItem
	if err := sqlx.GetContext(ctx, r.db, &item, itemSelect+` WHERE sii.id = $1`, id); err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stock in item: %w", err)
	}
	return &item, nil
}

func (r *stockInRepository) ListItems(ctx context.Context, params domain.ListParams) ([]domain.StockInItem, int, error) {
	query := itemSelect + `
		WHERE ` + itemSearch + `
		ORDER BY sii.created_at DESC, sii.id
		LIMIT $2 OFFSET $3
	`
	countQuery := `
		SELECT COUNT(*)
		FROM stock_in_items sii
		JOIN invoice_stock_in i ON sii.invoice_stockin_id = i.id
		JOIN suppliers s ON i.supplier_id = s.id
		JOIN products p ON sii.product_id = p.id
		WHERE ` + itemSearch

	items, total, err := selectPage[domain.StockInItem](ctx, r.db, query, countQuery, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stock in items: %w", err)
	}
	return items, total, nil
}

func (r *stockInRepository) UpdateInvoiceAndItem(ctx context.Context, invoiceID, itemID string, merge domain.MergeFunc) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var state domain.InvoiceItemState

		err := tx.GetContext(ctx, &state.Invoice, `
			SELECT id, supplier_id, purchase_date, reference_number, due_date, created_at, updated_at
			FROM invoice_stock_in
			WHERE id = $1
			FOR UPDATE
		`, invoiceID)
		if err != nil {
			if noRows(err) {
				return domain.NotFound("invoice not found")
			}
			return fmt.Errorf("failed to lock invoice: %w", err)
		}

		err = tx.GetContext(ctx, &state.Item, `
			SELECT `+itemColumns+`
			FROM stock_in_items
			WHERE id = $1 AND invoice_stockin_id = $2
			FOR UPDATE
		`, itemID, invoiceID)
		if err != nil {
			if noRows(err) {
				return domain.NotFound("item not found for the given invoice")
			}
			return fmt.Errorf("failed to lock stock in item: %w", err)
		}

		change, err := merge(state)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			UPDATE invoice_stock_in
			SET purchase_date = $1,
				due_date = $2,
				supplier_id = $3,
				reference_number = $4,
				updated_at = $5
			WHERE id = $6
		`, change.PurchaseDate, change.DueDate, change.SupplierID, change.ReferenceNumber, now, invoiceID)
		if err != nil {
			return translateWrite(err, "invoice reference_number", "update")
		}
		if err := requireAffected(res, "invoice not found or update failed"); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE stock_in_items
			SET quantity = $1,
				unit_price = $2,
				total_price = $3,
				expire_date = $4,
				product_id = $5,
				updated_at = $6
			WHERE id = $7 AND invoice_stockin_id = $8
		`, change.Quantity, change.UnitPrice, change.TotalPrice, change.ExpireDate, change.ProductID, now, itemID, invoiceID)
		if err != nil {
			return translateWrite(err, "stock in item", "update")
		}
		return requireAffected(res, "item not found or update failed")
	})
}

func (r *stockInRepository) DeleteItem(ctx context.Context, invoiceID, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM stock_in_items WHERE id = $1 AND invoice_stockin_id = $2`, itemID, invoiceID)
	if err != nil {
		return false, translateDelete(err, "stock in item")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *stockInRepository) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM stock_in_items WHERE invoice_stockin_id = $1`, id); err != nil {
			return translateDelete(err, "stock in item")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM invoice_stock_in WHERE id = $1`, id)
		if err != nil {
			return translateDelete(err, "invoice")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		deleted = affected > 0
		return nil
	})
	return deleted, err
}

func (r *stockInRepository) TotalQuantity(ctx context.Context) (int64, error) {
	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COALESCE(SUM(quantity), 0) FROM stock_in_items`); err != nil {
		return 0, fmt.Errorf("failed to sum stock in quantity: %w", err)
	}
	return total, nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffecter, notFound string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.NotFound("%s", notFound)
	}
	return nil
}
