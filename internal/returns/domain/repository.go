package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	InsertSaleReturn(ctx context.Context, db *gorm.DB, ret *SaleReturn) error
	InsertSaleReturnItems(ctx context.Context, db *gorm.DB, items []SaleReturnItem) error
	FindSaleReturn(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SaleReturn, error)
	ListSaleReturnItems(ctx context.Context, db *gorm.DB, returnID snowflake.ID) ([]SaleReturnItem, error)
	ListSaleReturns(ctx context.Context, db *gorm.DB, filter ReturnFilter, page pagination.Pagination) ([]*SaleReturn, error)
	SaleReturnStats(ctx context.Context, db *gorm.DB) (SaleReturnCounts, error)
	// SaleReturnedQuantities sums quantities already returned against a
	// sale invoice, keyed by product.
	SaleReturnedQuantities(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (map[snowflake.ID]int64, error)

	InsertPurchaseReturn(ctx context.Context, db *gorm.DB, ret *PurchaseReturn) error
	InsertPurchaseReturnItems(ctx context.Context, db *gorm.DB, items []PurchaseReturnItem) error
	FindPurchaseReturn(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PurchaseReturn, error)
	ListPurchaseReturnItems(ctx context.Context, db *gorm.DB, returnID snowflake.ID) ([]PurchaseReturnItem, error)
	ListPurchaseReturns(ctx context.Context, db *gorm.DB, filter ReturnFilter, page pagination.Pagination) ([]*PurchaseReturn, error)
	PurchaseReturnedQuantities(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (map[snowflake.ID]int64, error)
}
