package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/customer/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, name, phone, email, address, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.Balance,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET name = ?, phone = ?, email = ?, address = ?, updated_at = ? WHERE id = ?`,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.UpdatedAt,
		customer.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, phone, email, address, balance, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Phone != "" {
		stmt = stmt.Where("phone = ?", filter.Phone)
	}
	if filter.Outstanding {
		stmt = stmt.Where("balance > 0")
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) AdjustBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, delta decimal.Decimal) (bool, error) {
	customer, err := r.FindByID(ctx, db, id)
	if err != nil || customer == nil {
		return false, err
	}
	err = db.WithContext(ctx).Exec(
		`UPDATE customers SET balance = ?, updated_at = ? WHERE id = ?`,
		customer.Balance.Add(delta),
		db.NowFunc(),
		id,
	).Error
	return err == nil, err
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Customer{}).Count(&count).Error
	return count, err
}

func (r *repo) TotalBalance(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Raw(`SELECT SUM(balance) FROM customers`).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
