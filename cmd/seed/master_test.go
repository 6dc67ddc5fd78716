package main

import (
	"strings"
	"testing"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestParseCSVKeysRowsByHeader(t *testing.T) {
	input := "\ufeffCategory_Name, product_code,name_en,name_kh,beginning_quantity\n" +
		"Beverages, P-001 ,Water,Tuek,\"1,200\"\n" +
		"Snacks,P-002,Chips,Banh\n"

	rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["category_name"] != "Beverages" || rows[0]["product_code"] != "P-001" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	if _, ok := rows[1]["beginning_quantity"]; ok {
		t.Errorf("short row must leave trailing columns unset, got %v", rows[1])
	}

	p, err := productFromRecord(rows[0])
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if p.BeginningQuantity != 1200 || p.MinimumStock != 0 {
		t.Errorf("unexpected quantities %+v", p)
	}
}

func TestProductFromRecordRejects(t *testing.T) {
	base := record{"category_name": "Snacks", "product_code": "P-1", "name_en": "Chips", "name_kh": "Banh"}

	cases := map[string]record{
		"missing name":       {"category_name": "Snacks", "product_code": "P-1", "name_kh": "Banh"},
		"negative quantity":  with(base, "beginning_quantity", "-3"),
		"fractional min":     with(base, "minimum_stock", "2.5"),
		"quantity too large": with(base, "beginning_quantity", "2147483648"),
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := productFromRecord(row); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSupplierAndCategoryRequireNames(t *testing.T) {
	if _, err := supplierFromRecord(record{"phone_number": "1"}); err == nil {
		t.Error("supplier without a name must be rejected")
	}
	if _, err := categoryFromRecord(record{"description": "x"}); err == nil {
		t.Error("category without a name must be rejected")
	}
	s, err := supplierFromRecord(record{"supplier_name": "Mekong", "company_name": "Mekong Co"})
	if err != nil || s.CompanyName != "Mekong Co" {
		t.Errorf("unexpected supplier %+v, %v", s, err)
	}
}

func TestNewUserHashesPassword(t *testing.T) {
	u, err := newUser(" Ops@Example.com ", "", "Manager", "correct-horse")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if u.Email != "ops@example.com" || u.UserName != "ops@example.com" || u.Role != domain.RoleManager {
		t.Errorf("unexpected user %+v", u)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not match: %v", err)
	}

	if _, err := newUser("ops@example.com", "", "root", "correct-horse"); err == nil {
		t.Error("unknown role must be rejected")
	}
	if _, err := newUser("ops@example.com", "", "user", "short"); err == nil {
		t.Error("short password must be rejected")
	}
	if _, err := newUser("not-an-email", "", "user", "correct-horse"); err == nil {
		t.Error("invalid email must be rejected")
	}
}

func with(r record, key, value string) record {
	out := make(record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[key] = value
	return out
}
