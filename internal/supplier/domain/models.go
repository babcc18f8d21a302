package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Supplier carries what the store still owes it in Balance.
type Supplier struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:text;not null" json:"name"`
	ContactPerson string          `gorm:"type:text" json:"contact_person,omitempty"`
	Phone         string          `gorm:"type:text" json:"phone,omitempty"`
	Email         string          `gorm:"type:text" json:"email,omitempty"`
	Address       string          `gorm:"type:text" json:"address,omitempty"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Supplier) TableName() string { return "suppliers" }
