package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	InsertSaleInvoice(ctx context.Context, db *gorm.DB, invoice *SaleInvoice) error
	InsertSaleItems(ctx context.Context, db *gorm.DB, items []SaleInvoiceItem) error
	FindSaleInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SaleInvoice, error)
	ListSaleItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]SaleInvoiceItem, error)
	ListSaleInvoices(ctx context.Context, db *gorm.DB, filter SaleInvoiceFilter, page pagination.Pagination) ([]*SaleInvoice, error)
	UpdateSalePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, paid, balance decimal.Decimal, status pricing.Status) error
	SaleStats(ctx context.Context, db *gorm.DB) (SaleInvoiceStats, error)
	CountSaleInvoices(ctx context.Context, db *gorm.DB) (int64, error)
	// SaleTotalBetween sums invoice totals created in [from, to).
	SaleTotalBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (decimal.Decimal, error)

	InsertPurchaseInvoice(ctx context.Context, db *gorm.DB, invoice *PurchaseInvoice) error
	InsertPurchaseItems(ctx context.Context, db *gorm.DB, items []PurchaseInvoiceItem) error
	FindPurchaseInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PurchaseInvoice, error)
	ListPurchaseItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]PurchaseInvoiceItem, error)
	ListPurchaseInvoices(ctx context.Context, db *gorm.DB, filter PurchaseInvoiceFilter, page pagination.Pagination) ([]*PurchaseInvoice, error)
	UpdatePurchasePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, paid, balance decimal.Decimal, status pricing.Status) error
	PurchaseStats(ctx context.Context, db *gorm.DB) (PurchaseInvoiceStats, error)
	PurchaseTotalBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (decimal.Decimal, error)
}
