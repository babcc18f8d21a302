package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
)

// Stats summarises the current UTC day alongside running totals.
type Stats struct {
	Date             time.Time       `json:"date"`
	TodaySales       decimal.Decimal `json:"today_sales"`
	TodayPurchases   decimal.Decimal `json:"today_purchases"`
	TodayExpenses    decimal.Decimal `json:"today_expenses"`
	TodayReceived    decimal.Decimal `json:"today_received"`
	TodayPaidOut     decimal.Decimal `json:"today_paid_out"`
	CustomerBalances decimal.Decimal `json:"customer_balances"`
	// CashInHand is cash received minus cash paid out, over all time.
	CashInHand       decimal.Decimal `json:"cash_in_hand"`
	ProductCount     int64           `json:"product_count"`
	SaleInvoiceCount int64           `json:"sale_invoice_count"`
}

// Service is read-only; nothing here writes to the store.
type Service interface {
	Stats(ctx context.Context) (Stats, error)
	OutOfStock(ctx context.Context) ([]productdomain.Product, error)
	LowStock(ctx context.Context) ([]productdomain.Product, error)
	RecentPayments(ctx context.Context, limit int) ([]paymentdomain.RecentPayment, error)
}
