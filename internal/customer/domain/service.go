package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Phone     string
	// Outstanding limits the page to customers who still owe money.
	Outstanding bool
}

type ListCustomerFilter struct {
	Name        string
	Phone       string
	Outstanding bool
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// UpdateCustomerRequest patches contact details. Nil fields are left
// unchanged; the balance is only moved by invoices and payments.
type UpdateCustomerRequest struct {
	ID      string
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, string) (Customer, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
