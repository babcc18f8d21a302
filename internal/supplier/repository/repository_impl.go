package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO suppliers (id, name, contact_person, phone, email, address, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		supplier.ID,
		supplier.Name,
		supplier.ContactPerson,
		supplier.Phone,
		supplier.Email,
		supplier.Address,
		supplier.Balance,
		supplier.CreatedAt,
		supplier.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, contact_person, phone, email, address, balance, created_at, updated_at
		 FROM suppliers WHERE id = ?`,
		id,
	).Scan(&supplier).Error
	if err != nil {
		return nil, err
	}
	if supplier.ID == 0 {
		return nil, nil
	}
	return &supplier, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSupplierFilter, page pagination.Pagination) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	stmt := db.WithContext(ctx).Model(&domain.Supplier{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Phone != "" {
		stmt = stmt.Where("phone = ?", filter.Phone)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repo) AdjustBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, delta decimal.Decimal) (bool, error) {
	supplier, err := r.FindByID(ctx, db, id)
	if err != nil || supplier == nil {
		return false, err
	}
	err = db.WithContext(ctx).Exec(
		`UPDATE suppliers SET balance = ?, updated_at = ? WHERE id = ?`,
		supplier.Balance.Add(delta),
		db.NowFunc(),
		id,
	).Error
	return err == nil, err
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Supplier{}).Count(&count).Error
	return count, err
}

func (r *repo) TotalBalance(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Raw(`SELECT SUM(balance) FROM suppliers`).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
