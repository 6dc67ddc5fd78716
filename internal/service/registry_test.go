package service

import (
	"testing"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/google/uuid"
)

func TestSupplierLifecycle(t *testing.T) {
	f := newFixture(t)
	s := f.supplier(t, "Mekong Trading")

	_, err := f.svc.Suppliers.Create(f.ctx, domain.Supplier{SupplierName: "Mekong Trading"})
	assertKind(t, err, domain.KindConflict)

	_, err = f.svc.Suppliers.Create(f.ctx, domain.Supplier{SupplierName: "  "})
	assertKind(t, err, domain.KindValidation)

	updated, err := f.svc.Suppliers.Update(f.ctx, s.ID, domain.SupplierPatch{PhoneNumber: ptr("012 345 678")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PhoneNumber != "012 345 678" || updated.SupplierName != "Mekong Trading" || updated.CompanyName != "Mekong Trading Co" {
		t.Errorf("patch must merge only supplied fields, got %+v", updated)
	}

	_, err = f.svc.Suppliers.Update(f.ctx, s.ID, domain.SupplierPatch{})
	assertKind(t, err, domain.KindValidation)

	_, err = f.svc.Suppliers.Update(f.ctx, uuid.NewString(), domain.SupplierPatch{Address: ptr("x")})
	assertKind(t, err, domain.KindNotFound)

	count, _ := f.svc.Suppliers.Count(f.ctx)
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}

	deleted, err := f.svc.Suppliers.Delete(f.ctx, s.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = f.svc.Suppliers.Delete(f.ctx, s.ID)
	if err != nil || deleted {
		t.Errorf("deleting a missing row must return false without error, got deleted=%v err=%v", deleted, err)
	}
	deleted, err = f.svc.Suppliers.Delete(f.ctx, "garbage")
	if err != nil || deleted {
		t.Errorf("malformed id must return false, got deleted=%v err=%v", deleted, err)
	}
}

func TestSupplierRenameConflict(t *testing.T) {
	f := newFixture(t)
	f.supplier(t, "First")
	second := f.supplier(t, "Second")

	_, err := f.svc.Suppliers.Update(f.ctx, second.ID, domain.SupplierPatch{SupplierName: ptr("First")})
	assertKind(t, err, domain.KindConflict)

	_, err = f.svc.Suppliers.Update(f.ctx, second.ID, domain.SupplierPatch{SupplierName: ptr("First ")})
	assertKind(t, err, domain.KindConflict)

	renamed, err := f.svc.Suppliers.Update(f.ctx, second.ID, domain.SupplierPatch{SupplierName: ptr("  Third  ")})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.SupplierName != "Third" {
		t.Errorf("patched name must be stored trimmed, got %q", renamed.SupplierName)
	}
}

func TestCategoryAndProductRenamesAreTrimmed(t *testing.T) {
	f := newFixture(t)
	f.category(t, "Drinks")
	snacks := f.category(t, "Snacks")

	_, err := f.svc.Categories.Update(f.ctx, snacks.ID, domain.CategoryPatch{CategoryName: ptr(" Drinks")})
	assertKind(t, err, domain.KindConflict)

	f.product(t, snacks.ID, "P-1", 0, 0)
	other := f.product(t, snacks.ID, "P-2", 0, 0)

	// Fixture names are "Product <code>" and "ផលិតផល <code>".
	_, err = f.svc.Products.Update(f.ctx, other.ID, domain.ProductPatch{
		ProductCode: ptr("P-1 "),
		NameEn:      ptr(" Product P-1"),
		NameKh:      ptr("ផលិតផល P-1"),
	})
	assertKind(t, err, domain.KindConflict)

	updated, err := f.svc.Products.Update(f.ctx, other.ID, domain.ProductPatch{ProductCode: ptr(" P-3 ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ProductCode != "P-3" {
		t.Errorf("patched code must be stored trimmed, got %q", updated.ProductCode)
	}
}

func TestSupplierSearchAndPaging(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Alpha Foods", "Beta Drinks", "alpha Paper"} {
		f.supplier(t, name)
	}

	page, err := f.svc.Suppliers.List(f.ctx, domain.ListParams{Search: "ALPHA"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("case-insensitive search: got %d, want 2", page.Total)
	}
	if page.Page != domain.DefaultPage || page.PageSize != domain.DefaultPageSize {
		t.Errorf("defaults not applied: page=%d size=%d", page.Page, page.PageSize)
	}

	page, err = f.svc.Suppliers.List(f.ctx, domain.ListParams{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 {
		t.Errorf("offset paging: total=%d len=%d", page.Total, len(page.Items))
	}
}

func TestCategoryInUseCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Frozen")
	f.product(t, c.ID, "ICE", 0, 0)

	_, err := f.svc.Categories.Delete(f.ctx, c.ID)
	assertKind(t, err, domain.KindConflict)

	if _, err := f.svc.Categories.Get(f.ctx, c.ID); err != nil {
		t.Fatalf("category must survive: %v", err)
	}
}

func TestProductRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Beverages")
	created := f.product(t, c.ID, "BEV-1", 100, 10)

	got, err := f.svc.Products.Get(f.ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CategoryName != "Beverages" ||
		got.ProductCode != "BEV-1" ||
		got.NameEn != created.NameEn ||
		got.NameKh != created.NameKh ||
		got.BeginningQuantity != 100 ||
		got.MinimumStock != 10 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestProductCreateRules(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Tools")
	f.product(t, c.ID, "T-1", 0, 0)

	tests := []struct {
		name string
		in   domain.Product
		kind domain.ErrorKind
	}{
		{"unknown category", domain.Product{CategoryID: uuid.NewString(), ProductCode: "T-2", NameEn: "a", NameKh: "b"}, domain.KindNotFound},
		{"malformed category", domain.Product{CategoryID: "nope", ProductCode: "T-2", NameEn: "a", NameKh: "b"}, domain.KindNotFound},
		{"duplicate natural key", domain.Product{CategoryID: c.ID, ProductCode: "T-1", NameEn: "Product T-1", NameKh: "ផលិតផល T-1"}, domain.KindConflict},
		{"negative beginning quantity", domain.Product{CategoryID: c.ID, ProductCode: "T-3", NameEn: "a", NameKh: "b", BeginningQuantity: -1}, domain.KindValidation},
		{"missing code", domain.Product{CategoryID: c.ID, NameEn: "a", NameKh: "b"}, domain.KindValidation},
		{"beginning quantity too large", domain.Product{CategoryID: c.ID, ProductCode: "T-4", NameEn: "a", NameKh: "b", BeginningQuantity: domain.MaxQuantity + 1}, domain.KindValidation},
		{"minimum stock too large", domain.Product{CategoryID: c.ID, ProductCode: "T-5", NameEn: "a", NameKh: "b", MinimumStock: domain.MaxQuantity + 1}, domain.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Products.Create(f.ctx, tt.in)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestProductUpdate(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Old")
	moved := f.category(t, "New")
	p := f.product(t, c.ID, "P-1", 1, 1)
	f.product(t, c.ID, "P-2", 1, 1)

	updated, err := f.svc.Products.Update(f.ctx, p.ID, domain.ProductPatch{CategoryID: ptr(moved.ID), MinimumStock: ptr(4)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CategoryName != "New" || updated.MinimumStock != 4 || updated.BeginningQuantity != 1 {
		t.Errorf("unexpected product after update: %+v", updated)
	}

	_, err = f.svc.Products.Update(f.ctx, p.ID, domain.ProductPatch{CategoryID: ptr(uuid.NewString())})
	assertKind(t, err, domain.KindNotFound)

	_, err = f.svc.Products.Update(f.ctx, p.ID, domain.ProductPatch{
		ProductCode: ptr("P-2"),
		NameEn:      ptr("Product P-2"),
		NameKh:      ptr("ផលិតផល P-2"),
	})
	assertKind(t, err, domain.KindConflict)
}
