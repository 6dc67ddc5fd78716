package service

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	store *repository.Store
	svc   *Services
	user  domain.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	svc := New(store)
	frozen := func() time.Time { return fixedNow }
	svc.Suppliers.now = frozen
	svc.Categories.now = frozen
	svc.Products.now = frozen
	svc.StockIn.now = frozen
	svc.StockOut.now = frozen

	return &fixture{
		ctx:   context.Background(),
		store: store,
		svc:   svc,
		user:  domain.Principal{ID: uuid.NewString(), Role: domain.RoleOfficer},
	}
}

func (f *fixture) supplier(t *testing.T, name string) *domain.Supplier {
	t.Helper()
	s, err := f.svc.Suppliers.Create(f.ctx, domain.Supplier{SupplierName: name, CompanyName: name + " Co"})
	if err != nil {
		t.Fatalf("create supplier %q: %v", name, err)
	}
	return s
}

func (f *fixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := f.svc.Categories.Create(f.ctx, domain.Category{CategoryName: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

func (f *fixture) product(t *testing.T, categoryID, code string, beginning, minimum int) *domain.Product {
	t.Helper()
	p, err := f.svc.Products.Create(f.ctx, domain.Product{
		CategoryID:        categoryID,
		ProductCode:       code,
		NameEn:            "Product " + code,
		NameKh:            "ផលិតផល " + code,
		BeginningQuantity: beginning,
		MinimumStock:      minimum,
	})
	if err != nil {
		t.Fatalf("create product %q: %v", code, err)
	}
	return p
}

func (f *fixture) stockIn(t *testing.T, supplierID, reference string, items ...domain.NewStockInItem) *domain.StockInResult {
	t.Helper()
	res, err := f.svc.StockIn.CreateStockIn(f.ctx, domain.NewStockIn{
		SupplierID:      supplierID,
		PurchaseDate:    "2024-03-01",
		ReferenceNumber: reference,
		DueDate:         "2024-04-01",
		Items:           items,
	})
	if err != nil {
		t.Fatalf("create stock in %q: %v", reference, err)
	}
	return res
}

func (f *fixture) stockOut(t *testing.T, productID string, quantity int) {
	t.Helper()
	if _, err := f.svc.StockOut.CreateStockOut(f.ctx, f.user, productID, quantity); err != nil {
		t.Fatalf("create stock out: %v", err)
	}
}

func (f *fixture) productStock(t *testing.T, productID string) *domain.StockSummary {
	t.Helper()
	s, err := f.svc.Summary.GetProductStock(f.ctx, productID)
	if err != nil {
		t.Fatalf("get product stock: %v", err)
	}
	return s
}

func line(productID string, quantity, unitPrice float64) domain.NewStockInItem {
	return domain.NewStockInItem{ProductID: productID, Quantity: &quantity, UnitPrice: &unitPrice}
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertKind(t *testing.T, err error, want domain.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := domain.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: got %s, want %s", name, got, want)
	}
}
