package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeReceived PaymentType = "received"
	PaymentTypeMade     PaymentType = "made"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeReceived || t == PaymentTypeMade
}

type ReferenceType string

const (
	ReferenceSaleInvoice     ReferenceType = "sale_invoice"
	ReferencePurchaseInvoice ReferenceType = "purchase_invoice"
	ReferenceNone            ReferenceType = "none"
)

func (t ReferenceType) Valid() bool {
	switch t {
	case ReferenceSaleInvoice, ReferencePurchaseInvoice, ReferenceNone:
		return true
	}
	return false
}

// MethodCash is the method counted as cash in hand.
const MethodCash = "Cash"

type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Type          PaymentType     `gorm:"type:text;not null" json:"type"`
	ReferenceType ReferenceType   `gorm:"type:text;not null" json:"reference_type"`
	ReferenceID   *snowflake.ID   `gorm:"index" json:"reference_id,omitempty"`
	CustomerID    *snowflake.ID   `gorm:"index" json:"customer_id,omitempty"`
	SupplierID    *snowflake.ID   `gorm:"index" json:"supplier_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentMethod string          `gorm:"type:text;not null" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// RecentPayment is a payment with counterparty and invoice labels.
type RecentPayment struct {
	Payment
	CustomerName  string `json:"customer_name,omitempty"`
	SupplierName  string `json:"supplier_name,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}
