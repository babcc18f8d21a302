package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/expense/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO expenses (id, category, description, amount, payment_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.Category,
		expense.Description,
		expense.Amount,
		expense.PaymentMethod,
		expense.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListExpenseFilter, page pagination.Pagination) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	stmt := db.WithContext(ctx).Model(&domain.Expense{})
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) SumBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM expenses
		 WHERE created_at >= ? AND created_at < ?`,
		from,
		to,
	).Scan(&row).Error
	return row.Total, err
}
