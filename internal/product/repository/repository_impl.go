package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/product/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

const productColumns = `id, name, sku, category, sub_category, brand, unit, conversion_rate,
	conversion_unit, cost_price, sale_price, wholesale_price, stock, reorder_level, supplier_id,
	status, expiry_date, manufacture_date, description, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.SKU,
		p.Category,
		p.SubCategory,
		p.Brand,
		p.Unit,
		p.ConversionRate,
		p.ConversionUnit,
		p.CostPrice,
		p.SalePrice,
		p.WholesalePrice,
		p.Stock,
		p.ReorderLevel,
		p.SupplierID,
		p.Status,
		p.ExpiryDate,
		p.ManufactureDate,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET name = ?, sku = ?, category = ?, sub_category = ?, brand = ?, unit = ?,
			cost_price = ?, sale_price = ?, wholesale_price = ?, reorder_level = ?, status = ?,
			expiry_date = ?, manufacture_date = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name,
		p.SKU,
		p.Category,
		p.SubCategory,
		p.Brand,
		p.Unit,
		p.CostPrice,
		p.SalePrice,
		p.WholesalePrice,
		p.ReorderLevel,
		p.Status,
		p.ExpiryDate,
		p.ManufactureDate,
		p.Description,
		p.UpdatedAt,
		p.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id = ?`,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Product, error) {
	var products []*domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListOutOfStock(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT ` + productColumns + ` FROM products WHERE stock <= 0 ORDER BY stock ASC, id ASC`,
	).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListLowStock(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT ` + productColumns + ` FROM products
		 WHERE stock > 0 AND stock <= reorder_level
		 ORDER BY stock ASC, id ASC`,
	).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}
