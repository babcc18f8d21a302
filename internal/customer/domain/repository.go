package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	// AdjustBalance adds delta to the running balance and reports whether
	// the customer exists.
	AdjustBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, delta decimal.Decimal) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	TotalBalance(ctx context.Context, db *gorm.DB) (decimal.Decimal, error)
}
