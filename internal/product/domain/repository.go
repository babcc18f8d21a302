package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Product, error)
	ListOutOfStock(ctx context.Context, db *gorm.DB) ([]Product, error)
	ListLowStock(ctx context.Context, db *gorm.DB) ([]Product, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
