package domain

import "github.com/shopspring/decimal"

// NewStockIn is the validated request to create an invoice with its lines.
type NewStockIn struct {
	SupplierID      string           `json:"supplier_id"`
	PurchaseDate    string           `json:"purchase_date"`
	ReferenceNumber string           `json:"reference_number"`
	DueDate         string           `json:"due_date"`
	Items           []NewStockInItem `json:"items"`
}

type NewStockInItem struct {
	ProductID  string   `json:"product_id"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalPrice *float64 `json:"total_price"`
	ExpireDate *string  `json:"expire_date"`
}

// InvoiceUpdate revises an invoice header. SupplierID is optional.
type InvoiceUpdate struct {
	PurchaseDate    *string `json:"purchase_date"`
	DueDate         *string `json:"due_date"`
	ReferenceNumber *string `json:"reference_number"`
	SupplierID      *string `json:"supplier_id"`
}

// ItemUpdate revises a line item. ProductID, TotalPrice and ExpireDate are optional.
type ItemUpdate struct {
	ProductID  *string  `json:"product_id"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalPrice *float64 `json:"total_price"`
	ExpireDate *string  `json:"expire_date"`
}

// InvoiceItemState is the current, locked state of an invoice and one of its items.
type InvoiceItemState struct {
	Invoice StockInInvoice
	Item    StockInItem
}

// InvoiceItemChange is the fully resolved write for an invoice and one item.
type InvoiceItemChange struct {
	SupplierID      string
	PurchaseDate    Date
	DueDate         Date
	ReferenceNumber string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	ExpireDate      Date
}

// MergeFunc resolves a change against the current state inside the transaction.
type MergeFunc func(current InvoiceItemState) (InvoiceItemChange, error)

// StockInResult is the response of create and update operations.
type StockInResult struct {
	Invoice *StockInInvoice `json:"invoice"`
	Items   []StockInItem   `json:"items,omitempty"`
	Item    *StockInItem    `json:"item,omitempty"`
}
