package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type AdjustStockRequest struct {
	ProductID string
	Delta     int64
	Note      string
}

type Ledger interface {
	// Apply writes every adjustment inside tx. It never opens its own
	// transaction, so a failure leaves rollback to the caller.
	Apply(ctx context.Context, tx *gorm.DB, src Source, adjustments []Adjustment, policy Policy) ([]StockMovement, error)
	AdjustStock(ctx context.Context, req AdjustStockRequest) (StockMovement, error)
	ListMovements(ctx context.Context, productID string, limit int) ([]StockMovement, error)
}

var (
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrProductNotFound   = errors.New("product_not_found")
	ErrInvalidSourceType = errors.New("invalid_source_type")
	ErrInvalidSourceID   = errors.New("invalid_source_id")
	ErrInvalidProductID  = errors.New("invalid_product_id")
	ErrInvalidDelta      = errors.New("invalid_delta")
)

// InsufficientStockError carries the product that would go negative.
type InsufficientStockError struct {
	ProductID snowflake.ID
	Stock     int64
	Delta     int64
}

func (e *InsufficientStockError) Error() string {
	return ErrInsufficientStock.Error() + ": product " + e.ProductID.String()
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
