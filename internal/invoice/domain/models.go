// Package domain contains persistence models for sale and purchase invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"gorm.io/datatypes"
)

const DefaultPaymentMethod = "Cash"

// SaleInvoice is a sale to a customer. A nil CustomerID is a walk-in sale.
type SaleInvoice struct {
	ID             snowflake.ID         `gorm:"primaryKey" json:"id"`
	InvoiceNumber  string               `gorm:"type:text;not null;uniqueIndex:ux_sale_invoices_number" json:"invoice_number"`
	CustomerID     *snowflake.ID        `gorm:"index" json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	DiscountType   pricing.DiscountType `gorm:"type:text;not null" json:"discount_type"`
	DiscountValue  decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"discount_value"`
	DiscountAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"discount_amount"`
	ExtraCharges   datatypes.JSONMap    `gorm:"type:json" json:"extra_charges"`
	ExtraTotal     decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"extra_total"`
	TaxEnabled     bool                 `gorm:"not null" json:"tax_enabled"`
	TaxRate        decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"tax_rate"`
	TaxAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	RoundOff       bool                 `gorm:"not null" json:"round_off"`
	RoundOffAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"round_off_amount"`
	Total          decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"total"`
	Paid           decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"paid"`
	Balance        decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"balance"`
	PaymentMethod  string               `gorm:"type:text;not null" json:"payment_method"`
	Status         pricing.Status       `gorm:"type:text;not null;index" json:"status"`
	Notes          string               `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time            `gorm:"not null;index" json:"created_at"`
	Items          []SaleInvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (SaleInvoice) TableName() string { return "sale_invoices" }

// Charges decodes the stored extra charge breakdown.
func (i SaleInvoice) Charges() pricing.ExtraCharges {
	return ChargesFromMap(i.ExtraCharges)
}

type SaleInvoiceItem struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Position  int             `gorm:"not null" json:"position"`
	ProductID snowflake.ID    `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"discount"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
}

func (SaleInvoiceItem) TableName() string { return "sale_invoice_items" }

// PurchaseInvoice is stock bought from a supplier.
type PurchaseInvoice struct {
	ID             snowflake.ID          `gorm:"primaryKey" json:"id"`
	InvoiceNumber  string                `gorm:"type:text;not null;uniqueIndex:ux_purchase_invoices_number" json:"invoice_number"`
	SupplierID     snowflake.ID          `gorm:"not null;index" json:"supplier_id"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	DiscountType   pricing.DiscountType  `gorm:"type:text;not null" json:"discount_type"`
	DiscountValue  decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"discount_value"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"discount_amount"`
	TaxEnabled     bool                  `gorm:"not null" json:"tax_enabled"`
	TaxRate        decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"tax_rate"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	Shipping       decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"shipping"`
	Total          decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"total"`
	Paid           decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"paid"`
	Balance        decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"balance"`
	PaymentMethod  string                `gorm:"type:text;not null" json:"payment_method"`
	Status         pricing.Status        `gorm:"type:text;not null;index" json:"status"`
	Notes          string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time             `gorm:"not null;index" json:"created_at"`
	Items          []PurchaseInvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (PurchaseInvoice) TableName() string { return "purchase_invoices" }

type PurchaseInvoiceItem struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Position  int             `gorm:"not null" json:"position"`
	ProductID snowflake.ID    `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_cost"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
}

func (PurchaseInvoiceItem) TableName() string { return "purchase_invoice_items" }

// ChargesToMap encodes charges as decimal strings keyed by charge name.
func ChargesToMap(c pricing.ExtraCharges) datatypes.JSONMap {
	return datatypes.JSONMap{
		"packing":  c.Packing.String(),
		"service":  c.Service.String(),
		"bag":      c.Bag.String(),
		"delivery": c.Delivery.String(),
	}
}

func ChargesFromMap(m datatypes.JSONMap) pricing.ExtraCharges {
	return pricing.ExtraCharges{
		Packing:  decimalFromAny(m["packing"]),
		Service:  decimalFromAny(m["service"]),
		Bag:      decimalFromAny(m["bag"]),
		Delivery: decimalFromAny(m["delivery"]),
	}
}

func decimalFromAny(v any) decimal.Decimal {
	switch val := v.(type) {
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(val)
	case int64:
		return decimal.NewFromInt(val)
	default:
		return decimal.Zero
	}
}
