package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	List(ctx context.Context, db *gorm.DB, filter ListExpenseFilter, page pagination.Pagination) ([]*Expense, error)
	SumBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (decimal.Decimal, error)
}
