package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor goods are purchased from
type Supplier struct {
	ID           string    `json:"id" db:"id"`
	SupplierName string    `json:"supplier_name" db:"supplier_name"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Address      string    `json:"address" db:"address"`
	CompanyName  string    `json:"company_name" db:"company_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Category groups products
type Category struct {
	ID           string    `json:"id" db:"id"`
	CategoryName string    `json:"category_name" db:"category_name"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a stock-keeping unit. BeginningQuantity is the opening balance
// before any tracked movement.
type Product struct {
	ID                string    `json:"id" db:"id"`
	CategoryID        string    `json:"category_id" db:"category_id"`
	CategoryName      string    `json:"category_name" db:"category_name"`
	ProductCode       string    `json:"product_code" db:"product_code"`
	NameEn            string    `json:"name_en" db:"name_en"`
	NameKh            string    `json:"name_kh" db:"name_kh"`
	BeginningQuantity int       `json:"beginning_quantity" db:"beginning_quantity"`
	MinimumStock      int       `json:"minimum_stock" db:"minimum_stock"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// StockInInvoice is the header of one purchase from one supplier
type StockInInvoice struct {
	ID              string        `json:"id" db:"id"`
	SupplierID      string        `json:"supplier_id" db:"supplier_id"`
	SupplierName    string        `json:"supplier_name" db:"supplier_name"`
	PurchaseDate    Date          `json:"purchase_date" db:"purchase_date"`
	ReferenceNumber string        `json:"reference_number" db:"reference_number"`
	DueDate         Date          `json:"due_date" db:"due_date"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
	Items           []StockInItem `json:"items" db:"-"`
}

// StockInItem is one product line of an invoice. TotalPrice is persisted at
// write time.
type StockInItem struct {
	ID              string          `json:"id" db:"id"`
	InvoiceID       string          `json:"invoice_stockin_id" db:"invoice_stockin_id"`
	ProductID       string          `json:"product_id" db:"product_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price" db:"total_price"`
	ExpireDate      *Date           `json:"expire_date" db:"expire_date"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	NameEn          string          `json:"name_en" db:"name_en"`
	NameKh          string          `json:"name_kh" db:"name_kh"`
	ReferenceNumber string          `json:"reference_number,omitempty" db:"reference_number"`
	SupplierName    string          `json:"supplier_name,omitempty" db:"supplier_name"`
}

// StockOut is a single depletion event. It has no update path.
type StockOut struct {
	ID           string    `json:"id" db:"id"`
	ProductID    string    `json:"product_id" db:"product_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	EmployeeID   string    `json:"employee" db:"employee"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	NameEn       string    `json:"name_en" db:"name_en"`
	NameKh       string    `json:"name_kh" db:"name_kh"`
	EmployeeName string    `json:"user_name" db:"user_name"`
}

// User is an operator account. Password holds the hash and is never serialised.
type User struct {
	ID        string    `json:"id" db:"id"`
	UserName  string    `json:"user_name" db:"user_name"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StockMovement holds the raw per-product sums the summary is derived from.
type StockMovement struct {
	ProductID         string          `db:"product_id"`
	ProductCode       string          `db:"product_code"`
	NameEn            string          `db:"name_en"`
	NameKh            string          `db:"name_kh"`
	CategoryName      string          `db:"category_name"`
	BeginningQuantity int64           `db:"beginning_quantity"`
	MinimumStock      int64           `db:"minimum_stock"`
	TotalStockIn      int64           `db:"total_stock_in"`
	TotalStockInCost  decimal.Decimal `db:"total_stock_in_cost"`
	TotalStockOut     int64           `db:"total_stock_out"`
}

// StockSummary is the derived stock position of one product
type StockSummary struct {
	ProductID         string          `json:"product_id"`
	ProductCode       string          `json:"product_code"`
	NameEn            string          `json:"name_en"`
	NameKh            string          `json:"name_kh"`
	CategoryName      string          `json:"category_name"`
	BeginningQuantity int64           `json:"beginning_quantity"`
	MinimumStock      int64           `json:"minimum_stock"`
	TotalStockIn      int64           `json:"total_stock_in"`
	TotalStockOut     int64           `json:"total_stock_out"`
	QuantityInHand    int64           `json:"quantity_in_hand"`
	UnitAvgCost       decimal.Decimal `json:"unit_avg_cost"`
	AvailableAmount   decimal.Decimal `json:"available_amount"`
	LowStock          bool            `json:"low_stock"`
	NegativeStock     bool            `json:"negative_stock"`
}

// ListParams carries offset paging and the optional search term
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Normalize substitutes defaults for non-positive paging values.
func (p ListParams) Normalize() ListParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of a listing
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
