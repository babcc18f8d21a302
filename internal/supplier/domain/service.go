package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type ListSupplierRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Phone     string
}

type ListSupplierFilter struct {
	Name  string
	Phone string
}

type ListSupplierResponse struct {
	pagination.PageInfo
	Suppliers []Supplier `json:"suppliers"`
}

type CreateSupplierRequest struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

type Service interface {
	Create(context.Context, CreateSupplierRequest) (Supplier, error)
	List(context.Context, ListSupplierRequest) (ListSupplierResponse, error)
	GetByID(context.Context, string) (Supplier, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
