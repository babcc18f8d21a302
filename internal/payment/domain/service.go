package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

const DefaultRecentLimit = 5

type PaymentDraft struct {
	Type          PaymentType
	ReferenceType ReferenceType
	ReferenceID   string
	CustomerID    string
	SupplierID    string
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         string
}

type ListPaymentRequest struct {
	PageToken     string
	PageSize      int32
	Type          PaymentType
	ReferenceType ReferenceType
	ReferenceID   string
}

type PaymentFilter struct {
	Type          PaymentType
	ReferenceType ReferenceType
	ReferenceID   *snowflake.ID
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []RecentPayment `json:"payments"`
}

type Service interface {
	Create(context.Context, PaymentDraft) (Payment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
	ListRecent(ctx context.Context, limit int) ([]RecentPayment, error)
}

var (
	ErrInvalidType          = errors.New("invalid_type")
	ErrInvalidReferenceType = errors.New("invalid_reference_type")
	ErrInvalidReference     = errors.New("invalid_reference_id")
	ErrInvalidCustomer      = errors.New("invalid_customer_id")
	ErrInvalidSupplier      = errors.New("invalid_supplier_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidLimit         = errors.New("invalid_limit")
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrCustomerNotFound     = errors.New("customer_not_found")
	ErrSupplierNotFound     = errors.New("supplier_not_found")
)
