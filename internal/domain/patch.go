package domain

import "time"

// SupplierPatch carries the fields a caller supplied on update; nil means keep.
type SupplierPatch struct {
	SupplierName *string `json:"supplier_name"`
	PhoneNumber  *string `json:"phone_number"`
	Address      *string `json:"address"`
	CompanyName  *string `json:"company_name"`
}

func (p SupplierPatch) IsEmpty() bool {
	return p.SupplierName == nil && p.PhoneNumber == nil && p.Address == nil && p.CompanyName == nil
}

func (p SupplierPatch) Apply(cur Supplier, now time.Time) Supplier {
	cur.SupplierName = pick(p.SupplierName, cur.SupplierName)
	cur.PhoneNumber = pick(p.PhoneNumber, cur.PhoneNumber)
	cur.Address = pick(p.Address, cur.Address)
	cur.CompanyName = pick(p.CompanyName, cur.CompanyName)
	cur.UpdatedAt = now
	return cur
}

type CategoryPatch struct {
	CategoryName *string `json:"category_name"`
	Description  *string `json:"description"`
}

func (p CategoryPatch) IsEmpty() bool {
	return p.CategoryName == nil && p.Description == nil
}

func (p CategoryPatch) Apply(cur Category, now time.Time) Category {
	cur.CategoryName = pick(p.CategoryName, cur.CategoryName)
	cur.Description = pick(p.Description, cur.Description)
	cur.UpdatedAt = now
	return cur
}

type ProductPatch struct {
	CategoryID        *string `json:"category_id"`
	ProductCode       *string `json:"product_code"`
	NameEn            *string `json:"name_en"`
	NameKh            *string `json:"name_kh"`
	BeginningQuantity *int    `json:"beginning_quantity"`
	MinimumStock      *int    `json:"minimum_stock"`
}

func (p ProductPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.ProductCode == nil && p.NameEn == nil &&
		p.NameKh == nil && p.BeginningQuantity == nil && p.MinimumStock == nil
}

// TouchesNaturalKey reports whether the (code, en, kh) triple may change.
func (p ProductPatch) TouchesNaturalKey() bool {
	return p.ProductCode != nil || p.NameEn != nil || p.NameKh != nil
}

func (p ProductPatch) Apply(cur Product, now time.Time) Product {
	cur.CategoryID = pick(p.CategoryID, cur.CategoryID)
	cur.ProductCode = pick(p.ProductCode, cur.ProductCode)
	cur.NameEn = pick(p.NameEn, cur.NameEn)
	cur.NameKh = pick(p.NameKh, cur.NameKh)
	cur.BeginningQuantity = pick(p.BeginningQuantity, cur.BeginningQuantity)
	cur.MinimumStock = pick(p.MinimumStock, cur.MinimumStock)
	cur.UpdatedAt = now
	return cur
}

func pick[T any](v *T, fallback T) T {
	if v != nil {
		return *v
	}
	return fallback
}
