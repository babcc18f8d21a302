// Package domain contains persistence models for sale and purchase returns.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type RefundMethod string

const (
	RefundMethodCash             RefundMethod = "Cash"
	RefundMethodBankTransfer     RefundMethod = "Bank Transfer"
	RefundMethodCreditAdjustment RefundMethod = "Credit Adjustment"
)

func (m RefundMethod) Valid() bool {
	switch m {
	case RefundMethodCash, RefundMethodBankTransfer, RefundMethodCreditAdjustment:
		return true
	}
	return false
}

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "Pending"
	RefundStatusRefunded RefundStatus = "Refunded"
	RefundStatusAdjusted RefundStatus = "Adjusted"
)

func (s RefundStatus) Valid() bool {
	switch s {
	case RefundStatusPending, RefundStatusRefunded, RefundStatusAdjusted:
		return true
	}
	return false
}

// StockDisposition records what happened to returned goods. Only
// DispositionRestock puts them back on the shelf.
type StockDisposition string

const (
	DispositionRestock        StockDisposition = "Added back to stock"
	DispositionDamaged        StockDisposition = "Marked as damaged"
	DispositionPendingInspect StockDisposition = "Pending inspection"
	DispositionDiscarded      StockDisposition = "Discarded"
)

func (d StockDisposition) Valid() bool {
	switch d {
	case DispositionRestock, DispositionDamaged, DispositionPendingInspect, DispositionDiscarded:
		return true
	}
	return false
}

// Restocks reports whether returned quantities go back into stock.
func (d StockDisposition) Restocks() bool {
	return d == DispositionRestock
}

// ProductSnapshot is a copy of product attributes taken when the return
// is written. It is never refreshed from the live product.
type ProductSnapshot struct {
	ProductID   snowflake.ID `gorm:"not null;index" json:"product_id"`
	ProductName string       `gorm:"type:text;not null" json:"product_name"`
	ProductSKU  string       `gorm:"type:text" json:"product_sku,omitempty"`
	Brand       string       `gorm:"type:text" json:"brand,omitempty"`
	BatchNo     string       `gorm:"type:text" json:"batch_no,omitempty"`
	ExpiryDate  *time.Time   `json:"expiry_date,omitempty"`
}

// ReturnTotals is shared by both return kinds.
type ReturnTotals struct {
	ItemsSubtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"items_subtotal"`
	DiscountPercentage    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"discount_percentage"`
	DiscountAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"discount_amount"`
	TaxPercentage         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_percentage"`
	TaxAmount             decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	ExtraChargesDeduction decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"extra_charges_deduction"`
	RoundOff              decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"round_off"`
	RefundTotal           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"refund_total"`
}

type SaleReturn struct {
	ID                    snowflake.ID     `gorm:"primaryKey" json:"id"`
	ReturnNumber          string           `gorm:"type:text;not null;uniqueIndex:ux_sale_returns_number" json:"return_number"`
	OriginalInvoiceID     snowflake.ID     `gorm:"not null;index" json:"original_invoice_id"`
	OriginalInvoiceNumber string           `gorm:"type:text;not null" json:"original_invoice_number"`
	CustomerID            *snowflake.ID    `gorm:"index" json:"customer_id,omitempty"`
	CustomerName          string           `gorm:"type:text" json:"customer_name,omitempty"`
	CustomerContact       string           `gorm:"type:text" json:"customer_contact,omitempty"`
	ReturnTotals          `gorm:"embedded"`
	RefundMethod          RefundMethod     `gorm:"type:text;not null" json:"refund_method"`
	RefundAmount          decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"refund_amount"`
	RefundStatus          RefundStatus     `gorm:"type:text;not null;index" json:"refund_status"`
	StockDisposition      StockDisposition `gorm:"column:stock_adjustment_status;type:text;not null" json:"stock_adjustment_status"`
	ReturnReason          string           `gorm:"type:text" json:"return_reason,omitempty"`
	Notes                 string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy             string           `gorm:"type:text" json:"created_by,omitempty"`
	CreatedAt             time.Time        `gorm:"not null;index" json:"created_at"`
	Items                 []SaleReturnItem `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (SaleReturn) TableName() string { return "sale_returns" }

type SaleReturnItem struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	ReturnID         snowflake.ID `gorm:"not null;index" json:"return_id"`
	Position         int          `gorm:"not null" json:"position"`
	ProductSnapshot  `gorm:"embedded"`
	ReturnedQuantity int64           `gorm:"not null" json:"returned_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	ReturnReason     string          `gorm:"type:text" json:"return_reason,omitempty"`
}

func (SaleReturnItem) TableName() string { return "sale_return_items" }

// PurchaseReturn sends goods back to a supplier. Stock always leaves.
type PurchaseReturn struct {
	ID                    snowflake.ID         `gorm:"primaryKey" json:"id"`
	ReturnNumber          string               `gorm:"type:text;not null;uniqueIndex:ux_purchase_returns_number" json:"return_number"`
	OriginalInvoiceID     snowflake.ID         `gorm:"not null;index" json:"original_invoice_id"`
	OriginalInvoiceNumber string               `gorm:"type:text;not null" json:"original_invoice_number"`
	SupplierID            snowflake.ID         `gorm:"not null;index" json:"supplier_id"`
	SupplierName          string               `gorm:"type:text" json:"supplier_name,omitempty"`
	SupplierContact       string               `gorm:"type:text" json:"supplier_contact,omitempty"`
	ReturnTotals          `gorm:"embedded"`
	RefundMethod          RefundMethod         `gorm:"type:text;not null" json:"refund_method"`
	RefundAmount          decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"refund_amount"`
	RefundStatus          RefundStatus         `gorm:"type:text;not null;index" json:"refund_status"`
	ReturnReason          string               `gorm:"type:text" json:"return_reason,omitempty"`
	Notes                 string               `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy             string               `gorm:"type:text" json:"created_by,omitempty"`
	CreatedAt             time.Time            `gorm:"not null;index" json:"created_at"`
	Items                 []PurchaseReturnItem `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (PurchaseReturn) TableName() string { return "purchase_returns" }

type PurchaseReturnItem struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	ReturnID         snowflake.ID `gorm:"not null;index" json:"return_id"`
	Position         int          `gorm:"not null" json:"position"`
	ProductSnapshot  `gorm:"embedded"`
	ReturnedQuantity int64           `gorm:"not null" json:"returned_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	ReturnReason     string          `gorm:"type:text" json:"return_reason,omitempty"`
}

func (PurchaseReturnItem) TableName() string { return "purchase_return_items" }
