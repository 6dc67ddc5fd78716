package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type StockInService struct {
	repo      repository.StockInRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	now       clock
}

func NewStockInService(repo repository.StockInRepository, suppliers repository.SupplierRepository, products repository.ProductRepository) *StockInService {
	return &StockInService{repo: repo, suppliers: suppliers, products: products, now: utcNow}
}

// lineAmounts is a normalised quantity and price pair with its line total.
type lineAmounts struct {
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// normalizeAmounts floors the quantity, rounds prices to two places and
// defaults the total to quantity × unit price.
func normalizeAmounts(quantity, unitPrice, totalPrice *float64) (lineAmounts, error) {
	if quantity == nil {
		return lineAmounts{}, domain.Validation("quantity is required")
	}
	if unitPrice == nil {
		return lineAmounts{}, domain.Validation("unit_price is required")
	}
	if !finite(*quantity) || *quantity < 0 {
		return lineAmounts{}, domain.Validation("quantity must be a number greater than or equal to 0")
	}
	if !finite(*unitPrice) || *unitPrice < 0 {
		return lineAmounts{}, domain.Validation("unit_price must be a number greater than or equal to 0")
	}

	qty, ok := domain.FloorQuantity(*quantity)
	if !ok {
		return lineAmounts{}, domain.Validation("quantity must not exceed %d", domain.MaxQuantity)
	}
	out := lineAmounts{
		Quantity:  qty,
		UnitPrice: domain.RoundMoney(decimal.NewFromFloat(*unitPrice)),
	}
	if out.UnitPrice.GreaterThan(domain.MaxUnitPrice) {
		return lineAmounts{}, domain.Validation("unit_price must not exceed %s", domain.MaxUnitPrice.StringFixed(2))
	}

	if totalPrice == nil {
		out.TotalPrice = domain.LineTotal(out.Quantity, out.UnitPrice)
	} else {
		if !finite(*totalPrice) || *totalPrice < 0 {
			return lineAmounts{}, domain.Validation("total_price must be a number greater than or equal to 0")
		}
		out.TotalPrice = domain.RoundMoney(decimal.NewFromFloat(*totalPrice))
	}
	if out.TotalPrice.GreaterThan(domain.MaxTotalPrice) {
		return lineAmounts{}, domain.Validation("total_price must not exceed %s", domain.MaxTotalPrice.StringFixed(2))
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseDateField(field, value string) (domain.Date, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, domain.Validation("%s must be a valid date in YYYY-MM-DD format", field)
	}
	return d, nil
}

// resolveExpireDate picks the supplied date, then the stored one, then one
// year from today.
func resolveExpireDate(supplied, stored *domain.Date, today domain.Date) domain.Date {
	switch {
	case supplied != nil:
		return *supplied
	case stored != nil && !stored.IsZero():
		return *stored
	default:
		return today.AddYears(1)
	}
}

func (s *StockInService) CreateStockIn(ctx context.Context, in domain.NewStockIn) (*domain.StockInResult, error) {
	if len(in.Items) == 0 {
		return nil, domain.Validation("items must be a non-empty array")
	}

	reference, err := required("reference_number", in.ReferenceNumber)
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parseDateField("purchase_date", in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDateField("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.requireSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	now := s.now()
	today := domain.NewDate(now)
	invoice := &domain.StockInInvoice{
		ID:              uuid.NewString(),
		SupplierID:      in.SupplierID,
		PurchaseDate:    purchaseDate,
		ReferenceNumber: reference,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	checked := make(map[string]bool, len(in.Items))
	items := make([]domain.StockInItem, 0, len(in.Items))
	for i, line := range in.Items {
		if !checked[line.ProductID] {
			if err := s.requireProduct(ctx, line.ProductID); err != nil {
				return nil, err
			}
			checked[line.ProductID] = true
		}

		amounts, err := normalizeAmounts(line.Quantity, line.UnitPrice, line.TotalPrice)
		if err != nil {
			return nil, prefixField(fmt.Sprintf("items[%d]", i), err)
		}

		var supplied *domain.Date
		if line.ExpireDate != nil {
			d, err := parseDateField("expire_date", *line.ExpireDate)
			if err != nil {
				return nil, prefixField(fmt.Sprintf("items[%d]", i), err)
			}
			supplied = &d
		}
		expire := resolveExpireDate(supplied, nil, today)

		items = append(items, domain.StockInItem{
			ID:         uuid.NewString(),
			InvoiceID:  invoice.ID,
			ProductID:  line.ProductID,
			Quantity:   amounts.Quantity,
			UnitPrice:  amounts.UnitPrice,
			TotalPrice: amounts.TotalPrice,
			ExpireDate: &expire,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	created, createdItems, err := s.repo.CreateInvoice(ctx, invoice, items)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("invoice_id", created.ID).
		Str("reference_number", created.ReferenceNumber).
		Int("items", len(createdItems)).
		Msg("stock in created")

	return &domain.StockInResult{Invoice: created, Items: createdItems}, nil
}

// invoiceItemUpdate is a validated update request. Empty ids mean "keep the
// stored reference".
type invoiceItemUpdate struct {
	SupplierID      string
	PurchaseDate    domain.Date
	DueDate         domain.Date
	ReferenceNumber string
	ProductID       string
	Amounts         lineAmounts
	ExpireDate      *domain.Date
}

// merge resolves the update against the locked rows.
func (u invoiceItemUpdate) merge(today domain.Date) domain.MergeFunc {
	return func(current domain.InvoiceItemState) (domain.InvoiceItemChange, error) {
		supplierID := u.SupplierID
		if supplierID == "" {
			supplierID = current.Invoice.SupplierID
		}
		productID := u.ProductID
		if productID == "" {
			productID = current.Item.ProductID
		}
		return domain.InvoiceItemChange{
			SupplierID:      supplierID,
			PurchaseDate:    u.PurchaseDate,
			DueDate:         u.DueDate,
			ReferenceNumber: u.ReferenceNumber,
			ProductID:       productID,
			Quantity:        u.Amounts.Quantity,
			UnitPrice:       u.Amounts.UnitPrice,
			TotalPrice:      u.Amounts.TotalPrice,
			ExpireDate:      resolveExpireDate(u.ExpireDate, current.Item.ExpireDate, today),
		}, nil
	}
}

func (s *StockInService) validateUpdate(ctx context.Context, inv domain.InvoiceUpdate, item domain.ItemUpdate) (invoiceItemUpdate, error) {
	var out invoiceItemUpdate

	if inv.PurchaseDate == nil {
		return out, domain.Validation("purchase_date is required")
	}
	if inv.DueDate == nil {
		return out, domain.Validation("due_date is required")
	}
	if inv.ReferenceNumber == nil || strings.TrimSpace(*inv.ReferenceNumber) == "" {
		return out, domain.Validation("reference_number is required")
	}

	var err error
	if out.PurchaseDate, err = parseDateField("purchase_date", *inv.PurchaseDate); err != nil {
		return out, err
	}
	if out.DueDate, err = parseDateField("due_date", *inv.DueDate); err != nil {
		return out, err
	}
	out.ReferenceNumber = strings.TrimSpace(*inv.ReferenceNumber)

	if out.Amounts, err = normalizeAmounts(item.Quantity, item.UnitPrice, item.TotalPrice); err != nil {
		return out, err
	}
	if item.ExpireDate != nil {
		d, err := parseDateField("expire_date", *item.ExpireDate)
		if err != nil {
			return out, err
		}
		out.ExpireDate = &d
	}

	if inv.SupplierID != nil && *inv.SupplierID != "" {
		if err := s.requireSupplier(ctx, *inv.SupplierID); err != nil {
			return out, err
		}
		out.SupplierID = *inv.SupplierID
	}
	if item.ProductID != nil && *item.ProductID != "" {
		if err := s.requireProduct(ctx, *item.ProductID); err != nil {
			return out, err
		}
		out.ProductID = *item.ProductID
	}
	return out, nil
}

// UpdateInvoiceAndItem revises an invoice header and one of its items in one
// transaction and returns both as re-read after commit.
func (s *StockInService) UpdateInvoiceAndItem(ctx context.Context, invoiceID, itemID string, inv domain.InvoiceUpdate, item domain.ItemUpdate) (*domain.StockInResult, error) {
	update, err := s.validateUpdate(ctx, inv, item)
	if err != nil {
		return nil, err
	}
	if !validID(invoiceID) {
		return nil, domain.NotFound("invoice not found")
	}
	if !validID(itemID) {
		return nil, domain.NotFound("item not found for the given invoice")
	}

	today := domain.NewDate(s.now())
	if err := s.repo.UpdateInvoiceAndItem(ctx, invoiceID, itemID, update.merge(today)); err != nil {
		return nil, err
	}

	var (
		invoice *domain.StockInInvoice
		updated *domain.StockInItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoice, err = s.repo.FindInvoiceByID(gctx, invoiceID)
		return err
	})
	g.Go(func() error {
		var err error
		updated, err = s.repo.FindItemByID(gctx, itemID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.NotFound("invoice not found")
	}
	if updated == nil {
		return nil, domain.NotFound("item not found for the given invoice")
	}

	log.Info().
		Str("invoice_id", invoiceID).
		Str("item_id", itemID).
		Msg("stock in invoice and item updated")

	return &domain.StockInResult{Invoice: invoice, Item: updated}, nil
}

func (s *StockInService) GetInvoice(ctx context.Context, id string) (*domain.StockInInvoice, error) {
	if !validID(id) {
		return nil, domain.NotFound("invoice not found")
	}
	invoice, err := s.repo.FindInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.NotFound("invoice not found")
	}
	return invoice, nil
}

func (s *StockInService) ListInvoices(ctx context.Context, params domain.ListParams) (*domain.Page[domain.StockInInvoice], error) {
	return listPage(ctx, params, s.repo.ListInvoices)
}

func (s *StockInService) CountInvoices(ctx context.Context) (int, error) {
	return s.repo.CountInvoices(ctx)
}

func (s *StockInService) GetItem(ctx context.Context, id string) (*domain.StockInItem, error) {
	if !validID(id) {
		return nil, domain.NotFound("stock in item not found")
	}
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("stock in item not found")
	}
	return item, nil
}

func (s *StockInService) ListItems(ctx context.Context, params domain.ListParams) (*domain.Page[domain.StockInItem], error) {
	return listPage(ctx, params, s.repo.ListItems)
}

// DeleteItem removes an item only through the invoice that owns it.
func (s *StockInService) DeleteItem(ctx context.Context, invoiceID, itemID string) error {
	if !validID(invoiceID) || !validID(itemID) {
		return domain.NotFound("item not found or does not belong to invoice")
	}
	deleted, err := s.repo.DeleteItem(ctx, invoiceID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound("item not found or does not belong to invoice")
	}
	return nil
}

// DeleteInvoice removes the invoice and all of its items. It reports false
// when nothing matched.
func (s *StockInService) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	return s.repo.DeleteInvoice(ctx, id)
}

func (s *StockInService) TotalQuantity(ctx context.Context) (int64, error) {
	return s.repo.TotalQuantity(ctx)
}

func (s *StockInService) requireSupplier(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NotFound("supplier not found")
	}
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.NotFound("supplier not found")
	}
	return nil
}

func (s *StockInService) requireProduct(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NotFound("product not found")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("product not found")
	}
	return nil
}

// prefixField qualifies a validation message with the offending line.
func prefixField(prefix string, err error) error {
	if domain.KindOf(err) != domain.KindValidation {
		return err
	}
	return domain.Validation("%s.%s", prefix, domain.MessageOf(err))
}
