package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive        Status = "active"
	StatusShortInMarket Status = "short_in_market"
	StatusDiscontinued  Status = "discontinued"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusShortInMarket, StatusDiscontinued:
		return true
	default:
		return false
	}
}

// Product is the live catalog entry. Invoice lines reference it by id;
// return lines copy what they need into a snapshot instead.
type Product struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"type:text;not null" json:"name"`
	SKU             *string         `gorm:"type:varchar(64);uniqueIndex:ux_products_sku" json:"sku,omitempty"`
	Category        string          `gorm:"type:text;not null" json:"category"`
	SubCategory     string          `gorm:"type:text" json:"sub_category,omitempty"`
	Brand           string          `gorm:"type:text" json:"brand,omitempty"`
	Unit            string          `gorm:"type:text;not null;default:'Piece'" json:"unit"`
	ConversionRate  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1" json:"conversion_rate"`
	ConversionUnit  string          `gorm:"type:text" json:"conversion_unit,omitempty"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_price"`
	SalePrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sale_price"`
	WholesalePrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"wholesale_price"`
	Stock           int64           `gorm:"not null;default:0" json:"stock"`
	ReorderLevel    int64           `gorm:"not null;default:10" json:"reorder_level"`
	SupplierID      *snowflake.ID   `gorm:"index" json:"supplier_id,omitempty"`
	Status          Status          `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// IsLowStock reports stock that is positive but at or under the reorder level.
func (p Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= p.ReorderLevel
}
