package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Product, error)
	Update(ctx context.Context, req UpdateRequest) (Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	ListOutOfStock(ctx context.Context) ([]Product, error)
	ListLowStock(ctx context.Context) ([]Product, error)
}

type CreateRequest struct {
	Name            string
	SKU             string
	Category        string
	SubCategory     string
	Brand           string
	Unit            string
	ConversionRate  *decimal.Decimal
	ConversionUnit  string
	CostPrice       *decimal.Decimal
	SalePrice       *decimal.Decimal
	WholesalePrice  decimal.Decimal
	Stock           int64
	ReorderLevel    *int64
	SupplierID      *snowflake.ID
	Status          Status
	ExpiryDate      *time.Time
	ManufactureDate *time.Time
	Description     string
}

// UpdateRequest changes only the fields that are set. Stock is not
// editable here; it moves through inventory adjustments.
type UpdateRequest struct {
	ID              string
	Name            *string
	SKU             *string
	Category        *string
	SubCategory     *string
	Brand           *string
	Unit            *string
	CostPrice       *decimal.Decimal
	SalePrice       *decimal.Decimal
	WholesalePrice  *decimal.Decimal
	ReorderLevel    *int64
	Status          *Status
	ExpiryDate      *time.Time
	ManufactureDate *time.Time
	Description     *string
}

type ListRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Category  string
	Status    Status
}

type ListFilter struct {
	Name     string
	Category string
	Status   Status
}

type ListResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidCostPrice    = errors.New("invalid_cost_price")
	ErrInvalidSalePrice    = errors.New("invalid_sale_price")
	ErrInvalidPrice        = errors.New("invalid_wholesale_price")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidReorderLevel = errors.New("invalid_reorder_level")
	ErrInvalidStock        = errors.New("invalid_stock")
	ErrDuplicateSKU        = errors.New("duplicate_sku")
	ErrNotFound            = errors.New("not_found")
)
