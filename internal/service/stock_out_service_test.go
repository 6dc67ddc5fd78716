package service

import (
	"testing"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/google/uuid"
)

func TestCreateStockOut(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Paper")
	p := f.product(t, c.ID, "A4", 20, 0)

	out, err := f.svc.StockOut.CreateStockOut(f.ctx, f.user, p.ID, 5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.EmployeeID != f.user.ID || out.Quantity != 5 || out.NameEn != p.NameEn {
		t.Errorf("unexpected stock out: %+v", out)
	}

	count, _ := f.svc.StockOut.Count(f.ctx)
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}

	page, err := f.svc.StockOut.List(f.ctx, domain.ListParams{Search: "a4"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("search by product name: got %d rows", page.Total)
	}
}

func TestCreateStockOutRejects(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Ink")
	p := f.product(t, c.ID, "INK", 1, 0)

	_, err := f.svc.StockOut.CreateStockOut(f.ctx, f.user, uuid.NewString(), 1)
	assertKind(t, err, domain.KindNotFound)

	_, err = f.svc.StockOut.CreateStockOut(f.ctx, f.user, p.ID, -1)
	assertKind(t, err, domain.KindValidation)

	_, err = f.svc.StockOut.CreateStockOut(f.ctx, f.user, p.ID, domain.MaxQuantity+1)
	assertKind(t, err, domain.KindValidation)

	_, err = f.svc.StockOut.CreateStockOut(f.ctx, domain.Principal{ID: "anonymous"}, p.ID, 1)
	assertKind(t, err, domain.KindUnauthorized)

	count, _ := f.svc.StockOut.Count(f.ctx)
	if count != 0 {
		t.Errorf("rejected stock outs must not persist, got %d", count)
	}
}

// Stock out beyond the quantity in hand is accepted; the shortfall surfaces
// in the summary instead.
func TestStockOutBeyondQuantityInHand(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Toner")
	p := f.product(t, c.ID, "TN", 2, 1)

	if _, err := f.svc.StockOut.CreateStockOut(f.ctx, f.user, p.ID, 10); err != nil {
		t.Fatalf("stock out beyond quantity in hand should be accepted: %v", err)
	}
	if stock := f.productStock(t, p.ID); !stock.NegativeStock || stock.QuantityInHand != -8 {
		t.Errorf("expected negative stock of -8, got %+v", stock)
	}
}
