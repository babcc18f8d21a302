package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type SaleInvoiceItemDraft struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// SaleInvoiceDraft is the caller supplied shape of a new sale invoice.
// Totals are always recomputed from it.
type SaleInvoiceDraft struct {
	CustomerID    string
	Items         []SaleInvoiceItemDraft
	DiscountType  pricing.DiscountType
	Discount      decimal.Decimal
	Charges       pricing.ExtraCharges
	TaxEnabled    bool
	TaxRate       decimal.Decimal
	RoundOff      bool
	Paid          decimal.Decimal
	PaymentMethod string
	Notes         string
}

type PurchaseInvoiceItemDraft struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

type PurchaseInvoiceDraft struct {
	SupplierID    string
	Items         []PurchaseInvoiceItemDraft
	DiscountType  pricing.DiscountType
	Discount      decimal.Decimal
	TaxEnabled    bool
	TaxRate       decimal.Decimal
	Shipping      decimal.Decimal
	Paid          decimal.Decimal
	PaymentMethod string
	Notes         string
}

type ListSaleInvoiceRequest struct {
	PageToken  string
	PageSize   int32
	Status     pricing.Status
	CustomerID string
}

type SaleInvoiceFilter struct {
	Status     pricing.Status
	CustomerID *snowflake.ID
}

type ListSaleInvoiceResponse struct {
	pagination.PageInfo
	Invoices []SaleInvoice `json:"invoices"`
}

type ListPurchaseInvoiceRequest struct {
	PageToken  string
	PageSize   int32
	Status     pricing.Status
	SupplierID string
}

type PurchaseInvoiceFilter struct {
	Status     pricing.Status
	SupplierID *snowflake.ID
}

type ListPurchaseInvoiceResponse struct {
	pagination.PageInfo
	Invoices []PurchaseInvoice `json:"invoices"`
}

type SaleInvoiceStats struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	PaidInvoices    int64           `json:"paid_invoices"`
	PendingInvoices int64           `json:"pending_invoices"`
	TotalCustomers  int64           `json:"total_customers"`
}

type PurchaseInvoiceStats struct {
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	PendingOrders   int64           `json:"pending_orders"`
	PartialOrders   int64           `json:"partial_orders"`
	ActiveSuppliers int64           `json:"active_suppliers"`
}

type Service interface {
	CreateSaleInvoice(context.Context, SaleInvoiceDraft) (SaleInvoice, error)
	GetSaleInvoice(context.Context, string) (SaleInvoice, error)
	ListSaleInvoices(context.Context, ListSaleInvoiceRequest) (ListSaleInvoiceResponse, error)
	SaleInvoiceStats(context.Context) (SaleInvoiceStats, error)

	CreatePurchaseInvoice(context.Context, PurchaseInvoiceDraft) (PurchaseInvoice, error)
	GetPurchaseInvoice(context.Context, string) (PurchaseInvoice, error)
	ListPurchaseInvoices(context.Context, ListPurchaseInvoiceRequest) (ListPurchaseInvoiceResponse, error)
	PurchaseInvoiceStats(context.Context) (PurchaseInvoiceStats, error)
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidCustomer     = errors.New("invalid_customer_id")
	ErrInvalidSupplier     = errors.New("invalid_supplier_id")
	ErrInvalidItems        = errors.New("invalid_items")
	ErrInvalidProduct      = errors.New("invalid_product_id")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidUnitPrice    = errors.New("invalid_unit_price")
	ErrInvalidUnitCost     = errors.New("invalid_unit_cost")
	ErrInvalidDiscount     = errors.New("invalid_discount")
	ErrInvalidDiscountType = errors.New("invalid_discount_type")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrInvalidShipping     = errors.New("invalid_shipping")
	ErrInvalidPaid         = errors.New("invalid_paid")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrSupplierNotFound    = errors.New("supplier_not_found")
	ErrNotFound            = errors.New("not_found")
)
