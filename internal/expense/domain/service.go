package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

const DefaultPaymentMethod = "Cash"

type CreateExpenseRequest struct {
	Category      string
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
}

type ListExpenseRequest struct {
	PageToken string
	PageSize  int32
	Category  string
}

type ListExpenseFilter struct {
	Category string
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

type Service interface {
	Create(context.Context, CreateExpenseRequest) (Expense, error)
	List(context.Context, ListExpenseRequest) (ListExpenseResponse, error)
}

var (
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidAmount   = errors.New("invalid_amount")
)
