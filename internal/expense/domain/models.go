package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Category      string          `gorm:"type:text;not null;index" json:"category"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentMethod string          `gorm:"type:text;not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Expense) TableName() string { return "expenses" }
