package memory

import (
	"context"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
)

type stockInRepository struct{ s *state }

func (r *stockInRepository) CreateInvoice(_ context.Context, invoice *domain.StockInInvoice, items []domain.StockInItem) (*domain.StockInInvoice, []domain.StockInItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Every check runs before the first write so a failure leaves nothing behind.
	if _, ok := r.s.suppliers.get(invoice.SupplierID); !ok {
		return nil, nil, missingReference("invoice_stock_in_supplier_id_fkey")
	}
	if r.s.referenceTaken(invoice.ReferenceNumber, invoice.ID) {
		return nil, nil, domain.Conflict("invoice reference_number already exists")
	}
	for _, item := range items {
		if _, ok := r.s.products.get(item.ProductID); !ok {
			return nil, nil, missingReference("stock_in_items_product_id_fkey")
		}
		if _, ok := r.s.items.get(item.ID); ok {
			return nil, nil, domain.Conflict("stock in item already exists")
		}
	}

	header := *invoice
	header.Items = nil
	r.s.invoices.insert(header.ID, header)

	created := make([]domain.StockInItem, 0, len(items))
	for _, item := range items {
		item.InvoiceID = header.ID
		item.ExpireDate = copyDate(item.ExpireDate)
		r.s.items.insert(item.ID, item)
		created = append(created, r.s.joinItem(item))
	}

	result := r.s.joinInvoice(header)
	return &result, created, nil
}

func (r *stockInRepository) FindInvoiceByID(_ context.Context, id string) (*domain.StockInInvoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.invoices.get(id)
	if !ok {
		return nil, nil
	}
	invoice := r.s.joinInvoice(row)
	return &invoice, nil
}

func (r *stockInRepository) ListInvoices(_ context.Context, params domain.ListParams) ([]domain.StockInInvoice, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]domain.StockInInvoice, 0, len(r.s.invoices.rows))
	for _, row := range r.s.invoices.newestFirst() {
		invoice := r.s.joinInvoice(row)
		if matches(params.Search, invoice.ReferenceNumber, invoice.SupplierName) {
			rows = append(rows, invoice)
		}
	}
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *stockInRepository) CountInvoices(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.invoices.rows), nil
}

func (r *stockInRepository) FindItemByID(_ context.Context, id string) (*domain.StockInItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.items.get(id)
	if !ok {
		return nil, nil
	}
	item := r.s.joinItem(row)
	return &item, nil
}

func (r *stockInRepository) ListItems(_ context.Context, params domain.ListParams) ([]domain.StockInItem, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]domain.StockInItem, 0, len(r.s.items.rows))
	for _, row := range r.s.items.newestFirst() {
		item := r.s.joinItem(row)
		if matches(params.Search, item.NameEn, item.NameKh, item.ReferenceNumber, item.SupplierName) {
			rows = append(rows, item)
		}
	}
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *stockInRepository) UpdateInvoiceAndItem(_ context.Context, invoiceID, itemID string, merge domain.MergeFunc) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	invoice, ok := r.s.invoices.get(invoiceID)
	if !ok {
		return domain.NotFound("invoice not found")
	}
	item, ok := r.s.items.get(itemID)
	if !ok || item.InvoiceID != invoiceID {
		return domain.NotFound("item not found for the given invoice")
	}

	change, err := merge(domain.InvoiceItemState{Invoice: invoice, Item: item})
	if err != nil {
		return err
	}

	if _, ok := r.s.suppliers.get(change.SupplierID); !ok {
		return missingReference("invoice_stock_in_supplier_id_fkey")
	}
	if r.s.referenceTaken(change.ReferenceNumber, invoiceID) {
		return domain.Conflict("invoice reference_number already exists")
	}
	if _, ok := r.s.products.get(change.ProductID); !ok {
		return missingReference("stock_in_items_product_id_fkey")
	}

	now := time.Now().UTC()

	invoice.SupplierID = change.SupplierID
	invoice.PurchaseDate = change.PurchaseDate
	invoice.DueDate = change.DueDate
	invoice.ReferenceNumber = change.ReferenceNumber
	invoice.UpdatedAt = now

	expire := change.ExpireDate
	item.ProductID = change.ProductID
	item.Quantity = change.Quantity
	item.UnitPrice = change.UnitPrice
	item.TotalPrice = change.TotalPrice
	item.ExpireDate = &expire
	item.UpdatedAt = now

	r.s.invoices.put(invoiceID, invoice)
	r.s.items.put(itemID, item)
	return nil
}

func (r *stockInRepository) DeleteItem(_ context.Context, invoiceID, itemID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items.get(itemID)
	if !ok || item.InvoiceID != invoiceID {
		return false, nil
	}
	return r.s.items.remove(itemID), nil
}

func (r *stockInRepository) DeleteInvoice(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.invoices.get(id); !ok {
		return false, nil
	}
	for _, item := range r.s.items.oldestFirst() {
		if item.InvoiceID == id {
			r.s.items.remove(item.ID)
		}
	}
	return r.s.invoices.remove(id), nil
}

func (r *stockInRepository) TotalQuantity(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, item := range r.s.items.rows {
		total += int64(item.Quantity)
	}
	return total, nil
}

func (s *state) referenceTaken(reference, invoiceID string) bool {
	return s.invoices.exists(func(x domain.StockInInvoice) bool {
		return x.ID != invoiceID && x.ReferenceNumber == reference
	})
}

// joinInvoice fills the supplier name and the invoice's items oldest first.
func (s *state) joinInvoice(invoice domain.StockInInvoice) domain.StockInInvoice {
	if sup, ok := s.suppliers.get(invoice.SupplierID); ok {
		invoice.SupplierName = sup.SupplierName
	}
	invoice.Items = make([]domain.StockInItem, 0)
	for _, item := range s.items.oldestFirst() {
		if item.InvoiceID == invoice.ID {
			invoice.Items = append(invoice.Items, s.joinItem(item))
		}
	}
	return invoice
}

func (s *state) joinItem(item domain.StockInItem) domain.StockInItem {
	item.ExpireDate = copyDate(item.ExpireDate)
	if p, ok := s.products.get(item.ProductID); ok {
		item.NameEn = p.NameEn
		item.NameKh = p.NameKh
	}
	if inv, ok := s.invoices.get(item.InvoiceID); ok {
		item.ReferenceNumber = inv.ReferenceNumber
		if sup, ok := s.suppliers.get(inv.SupplierID); ok {
			item.SupplierName = sup.SupplierName
		}
	}
	return item
}

func copyDate(d *domain.Date) *domain.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
