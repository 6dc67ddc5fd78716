package service

import (
	"testing"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
)

func TestStockScenario(t *testing.T) {
	f := newFixture(t)
	s1 := f.supplier(t, "S1")
	c1 := f.category(t, "C1")
	p1 := f.product(t, c1.ID, "P1", 100, 10)

	res := f.stockIn(t, s1.ID, "INV-001", line(p1.ID, 50, 2.00))
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	assertDecimal(t, "total_price", res.Items[0].TotalPrice, "100.00")

	stock := f.productStock(t, p1.ID)
	if stock.QuantityInHand != 150 {
		t.Errorf("quantity_in_hand: got %d, want 150", stock.QuantityInHand)
	}
	assertDecimal(t, "unit_avg_cost", stock.UnitAvgCost, "2.00")
	assertDecimal(t, "available_amount", stock.AvailableAmount, "300.00")

	f.stockOut(t, p1.ID, 30)

	stock = f.productStock(t, p1.ID)
	if stock.QuantityInHand != 120 {
		t.Errorf("quantity_in_hand after stock out: got %d, want 120", stock.QuantityInHand)
	}
	assertDecimal(t, "available_amount after stock out", stock.AvailableAmount, "240.00")
}

func TestIdleProductsAppearWithZeros(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Idle")
	f.product(t, c.ID, "B", 7, 0)
	f.product(t, c.ID, "A", 0, 0)

	page, err := f.svc.Summary.GetStockSummary(f.ctx, domain.ListParams{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 products, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].NameEn != "Product A" || page.Items[1].NameEn != "Product B" {
		t.Errorf("expected ordering by name_en, got %q then %q", page.Items[0].NameEn, page.Items[1].NameEn)
	}
	for _, s := range page.Items {
		if s.QuantityInHand != s.BeginningQuantity {
			t.Errorf("%s: quantity_in_hand %d != beginning_quantity %d", s.NameEn, s.QuantityInHand, s.BeginningQuantity)
		}
		assertDecimal(t, s.NameEn+" unit_avg_cost", s.UnitAvgCost, "0")
		assertDecimal(t, s.NameEn+" available_amount", s.AvailableAmount, "0")
	}
}

func TestQuantityInHandAcrossManyMovements(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t, "Many")
	c := f.category(t, "Mixed")
	p := f.product(t, c.ID, "M", 10, 5)
	other := f.product(t, c.ID, "O", 0, 0)

	f.stockIn(t, sup.ID, "INV-A", line(p.ID, 4, 1.50), line(p.ID, 6, 2.50), line(other.ID, 9, 9))
	f.stockIn(t, sup.ID, "INV-B", line(p.ID, 10, 3))
	f.stockOut(t, p.ID, 3)
	f.stockOut(t, p.ID, 2)
	f.stockOut(t, other.ID, 1)

	stock := f.productStock(t, p.ID)
	// 10 + (4+6+10) - (3+2)
	if stock.QuantityInHand != 25 {
		t.Fatalf("quantity_in_hand: got %d, want 25", stock.QuantityInHand)
	}
	if stock.TotalStockIn != 20 || stock.TotalStockOut != 5 {
		t.Errorf("totals: in=%d out=%d", stock.TotalStockIn, stock.TotalStockOut)
	}
	// (6 + 15 + 30) / 20 = 2.55
	assertDecimal(t, "unit_avg_cost", stock.UnitAvgCost, "2.55")
	assertDecimal(t, "available_amount", stock.AvailableAmount, "63.75")
}

func TestNegativeStockIsReportedNotPrevented(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Short")
	p := f.product(t, c.ID, "N", 5, 2)

	f.stockOut(t, p.ID, 8)

	stock := f.productStock(t, p.ID)
	if stock.QuantityInHand != -3 {
		t.Fatalf("quantity_in_hand: got %d, want -3", stock.QuantityInHand)
	}
	if !stock.NegativeStock || !stock.LowStock {
		t.Errorf("expected negative and low stock flags, got negative=%v low=%v", stock.NegativeStock, stock.LowStock)
	}
}

func TestSummarySearchAndPaging(t *testing.T) {
	f := newFixture(t)
	drinks := f.category(t, "Drinks")
	snacks := f.category(t, "Snacks")
	f.product(t, drinks.ID, "D1", 1, 0)
	f.product(t, drinks.ID, "D2", 1, 0)
	f.product(t, snacks.ID, "S1", 1, 0)

	page, err := f.svc.Summary.GetStockSummary(f.ctx, domain.ListParams{Page: 1, PageSize: 1, Search: "drink"})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 1 {
		t.Fatalf("expected total 2 with one row, got total=%d rows=%d", page.Total, len(page.Items))
	}
	if page.Items[0].ProductCode != "D1" {
		t.Errorf("expected D1 first, got %s", page.Items[0].ProductCode)
	}

	all, err := f.svc.Summary.All(f.ctx, "", 2)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 rows across pages, got %d", len(all))
	}
}

func TestGetProductStockUnknown(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"not-a-uuid", "3b0e2a64-5c1f-4f43-9a43-3cf4a1f0e111"} {
		_, err := f.svc.Summary.GetProductStock(f.ctx, id)
		assertKind(t, err, domain.KindNotFound)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		movement domain.StockMovement
		qih      int64
		avg      string
		amount   string
		low, neg bool
	}{
		{
			name:     "no movement",
			movement: domain.StockMovement{BeginningQuantity: 12, MinimumStock: 3, TotalStockInCost: dec("0")},
			qih:      12, avg: "0", amount: "0",
		},
		{
			name:     "rounded average",
			movement: domain.StockMovement{TotalStockIn: 3, TotalStockInCost: dec("10.00")},
			qih:      3, avg: "3.33", amount: "10.00", low: false,
		},
		{
			name:     "at threshold",
			movement: domain.StockMovement{BeginningQuantity: 5, MinimumStock: 5, TotalStockInCost: dec("0")},
			qih:      5, avg: "0", amount: "0", low: true,
		},
		{
			name:     "negative",
			movement: domain.StockMovement{TotalStockIn: 2, TotalStockInCost: dec("4.00"), TotalStockOut: 5},
			qih:      -3, avg: "2.00", amount: "-6.00", low: true, neg: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.movement)
			if got.QuantityInHand != tt.qih {
				t.Errorf("quantity_in_hand: got %d, want %d", got.QuantityInHand, tt.qih)
			}
			assertDecimal(t, "unit_avg_cost", got.UnitAvgCost, tt.avg)
			assertDecimal(t, "available_amount", got.AvailableAmount, tt.amount)
			if got.LowStock != tt.low || got.NegativeStock != tt.neg {
				t.Errorf("flags: low=%v neg=%v, want low=%v neg=%v", got.LowStock, got.NegativeStock, tt.low, tt.neg)
			}
		})
	}
}
