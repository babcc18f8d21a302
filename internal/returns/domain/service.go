package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type ReturnItemDraft struct {
	ProductID        string
	ReturnedQuantity int64
	UnitPrice        decimal.Decimal
	BatchNo          string
	// ExpiryDate overrides the product's expiry in the snapshot.
	ExpiryDate   *time.Time
	ReturnReason string
}

// ReturnDraft carries the fields shared by both return kinds.
type ReturnDraft struct {
	OriginalInvoiceID     string
	Items                 []ReturnItemDraft
	DiscountPercentage    decimal.Decimal
	TaxPercentage         decimal.Decimal
	ExtraChargesDeduction decimal.Decimal
	RoundOff              decimal.Decimal
	RefundMethod          RefundMethod
	// RefundAmount defaults to the refund total when nil.
	RefundAmount *decimal.Decimal
	RefundStatus RefundStatus
	ReturnReason string
	Notes        string
	CreatedBy    string
}

type SaleReturnDraft struct {
	ReturnDraft
	CustomerName     string
	CustomerContact  string
	StockDisposition StockDisposition
}

type PurchaseReturnDraft struct {
	ReturnDraft
	SupplierName    string
	SupplierContact string
}

type ListReturnRequest struct {
	PageToken         string
	PageSize          int32
	RefundStatus      RefundStatus
	OriginalInvoiceID string
}

type ReturnFilter struct {
	RefundStatus      RefundStatus
	OriginalInvoiceID *snowflake.ID
}

type ListSaleReturnResponse struct {
	pagination.PageInfo
	Returns []SaleReturn `json:"returns"`
}

type ListPurchaseReturnResponse struct {
	pagination.PageInfo
	Returns []PurchaseReturn `json:"returns"`
}

type SaleReturnCounts struct {
	TotalReturns      int64
	TotalRefunded     decimal.Decimal
	PendingReturns    int64
	CompletedReturns  int64
	TotalSaleInvoices int64
}

type SaleReturnStats struct {
	TotalReturns     int64           `json:"total_returns"`
	TotalRefunded    decimal.Decimal `json:"total_refunded"`
	PendingReturns   int64           `json:"pending_returns"`
	CompletedReturns int64           `json:"completed_returns"`
	// ReturnRate is returns per hundred sale invoices, one decimal place.
	ReturnRate decimal.Decimal `json:"return_rate"`
}

type Service interface {
	CreateSaleReturn(context.Context, SaleReturnDraft) (SaleReturn, error)
	GetSaleReturn(context.Context, string) (SaleReturn, error)
	ListSaleReturns(context.Context, ListReturnRequest) (ListSaleReturnResponse, error)
	SaleReturnStats(context.Context) (SaleReturnStats, error)

	CreatePurchaseReturn(context.Context, PurchaseReturnDraft) (PurchaseReturn, error)
	GetPurchaseReturn(context.Context, string) (PurchaseReturn, error)
	ListPurchaseReturns(context.Context, ListReturnRequest) (ListPurchaseReturnResponse, error)
}

var (
	ErrInvalidID                    = errors.New("invalid_id")
	ErrInvalidOriginalInvoice       = errors.New("invalid_original_invoice_id")
	ErrInvalidItems                 = errors.New("invalid_items")
	ErrInvalidProduct               = errors.New("invalid_product_id")
	ErrInvalidReturnedQuantity      = errors.New("invalid_returned_quantity")
	ErrInvalidUnitPrice             = errors.New("invalid_unit_price")
	ErrInvalidDiscountPercentage    = errors.New("invalid_discount_percentage")
	ErrInvalidTaxPercentage         = errors.New("invalid_tax_percentage")
	ErrInvalidExtraChargesDeduction = errors.New("invalid_extra_charges_deduction")
	ErrInvalidRefundMethod          = errors.New("invalid_refund_method")
	ErrInvalidRefundAmount          = errors.New("invalid_refund_amount")
	ErrInvalidRefundStatus          = errors.New("invalid_refund_status")
	ErrInvalidStockDisposition      = errors.New("invalid_stock_adjustment_status")
	ErrOriginalInvoiceNotFound      = errors.New("original_invoice_not_found")
	ErrNotFound                     = errors.New("not_found")
)
