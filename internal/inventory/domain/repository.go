package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindStock returns the current stock and whether the product exists.
	FindStock(ctx context.Context, db *gorm.DB, productID snowflake.ID) (int64, bool, error)
	UpdateStock(ctx context.Context, db *gorm.DB, productID snowflake.ID, stock int64) error
	InsertMovement(ctx context.Context, db *gorm.DB, movement *StockMovement) error
	ListMovements(ctx context.Context, db *gorm.DB, productID snowflake.ID, limit int) ([]StockMovement, error)
}
