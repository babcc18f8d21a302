package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SourceType names the document that moved stock.
type SourceType string

const (
	SourceTypeSaleInvoice      SourceType = "sale_invoice"
	SourceTypePurchaseInvoice  SourceType = "purchase_invoice"
	SourceTypeSaleReturn       SourceType = "sale_return"
	SourceTypePurchaseReturn   SourceType = "purchase_return"
	SourceTypeManualAdjustment SourceType = "manual_adjustment"
)

func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeSaleInvoice,
		SourceTypePurchaseInvoice,
		SourceTypeSaleReturn,
		SourceTypePurchaseReturn,
		SourceTypeManualAdjustment:
		return true
	}
	return false
}

// Source identifies the document an adjustment batch belongs to.
type Source struct {
	Type SourceType
	ID   snowflake.ID
	Note string
}

// Adjustment is a signed stock delta for one product.
type Adjustment struct {
	ProductID snowflake.ID
	Delta     int64
}

// Policy is chosen by the caller for each document kind.
type Policy struct {
	AllowNegativeStock bool
}

// StockMovement is an append-only record of one stock change.
type StockMovement struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID   snowflake.ID `gorm:"not null;index:ix_stock_movements_product,priority:1" json:"product_id"`
	SourceType  SourceType   `gorm:"type:text;not null" json:"source_type"`
	SourceID    snowflake.ID `gorm:"not null;index" json:"source_id"`
	Delta       int64        `gorm:"not null" json:"delta"`
	StockBefore int64        `gorm:"not null" json:"stock_before"`
	StockAfter  int64        `gorm:"not null" json:"stock_after"`
	Note        string       `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;index:ix_stock_movements_product,priority:2" json:"created_at"`
}

func (StockMovement) TableName() string { return "stock_movements" }
