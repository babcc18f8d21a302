package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	List(ctx context.Context, db *gorm.DB, filter PaymentFilter, page pagination.Pagination) ([]*RecentPayment, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]RecentPayment, error)
	// CashInHand sums received minus made over cash payments.
	CashInHand(ctx context.Context, db *gorm.DB) (decimal.Decimal, error)
	SumBetween(ctx context.Context, db *gorm.DB, paymentType PaymentType, from, to time.Time) (decimal.Decimal, error)
}
