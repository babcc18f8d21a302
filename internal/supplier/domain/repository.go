package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, supplier *Supplier) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Supplier, error)
	List(ctx context.Context, db *gorm.DB, filter ListSupplierFilter, page pagination.Pagination) ([]*Supplier, error)
	// AdjustBalance adds delta to the running balance and reports whether
	// the supplier exists.
	AdjustBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, delta decimal.Decimal) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	TotalBalance(ctx context.Context, db *gorm.DB) (decimal.Decimal, error)
}
