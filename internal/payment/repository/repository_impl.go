package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/payment/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, type, reference_type, reference_id, customer_id, supplier_id,
			amount, payment_method, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		string(payment.Type),
		string(payment.ReferenceType),
		payment.ReferenceID,
		payment.CustomerID,
		payment.SupplierID,
		payment.Amount,
		payment.PaymentMethod,
		payment.Notes,
		payment.CreatedAt,
	).Error
}

const (
	labelledColumns = `p.id, p.type, p.reference_type, p.reference_id, p.customer_id, p.supplier_id,
		p.amount, p.payment_method, p.notes, p.created_at,
		COALESCE(c.name, '') AS customer_name,
		COALESCE(s.name, '') AS supplier_name,
		COALESCE(si.invoice_number, pi.invoice_number, '') AS invoice_number`
	labelJoins = `LEFT JOIN customers c ON p.customer_id = c.id
		LEFT JOIN suppliers s ON p.supplier_id = s.id
		LEFT JOIN sale_invoices si ON p.reference_type = 'sale_invoice' AND p.reference_id = si.id
		LEFT JOIN purchase_invoices pi ON p.reference_type = 'purchase_invoice' AND p.reference_id = pi.id`
)

// List pages payments newest first. The page is selected from payments
// alone and labelled afterwards, so the cursor only ever compares payment ids.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.PaymentFilter, page pagination.Pagination) ([]*domain.RecentPayment, error) {
	stmt := db.WithContext(ctx).Model(&domain.Payment{})
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", string(filter.Type))
	}
	if filter.ReferenceType != "" {
		stmt = stmt.Where("reference_type = ?", string(filter.ReferenceType))
	}
	if filter.ReferenceID != nil {
		stmt = stmt.Where("reference_id = ?", *filter.ReferenceID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt).Order("id desc")
	if stmt.Error != nil {
		return nil, stmt.Error
	}

	var items []*domain.RecentPayment
	err := db.WithContext(ctx).Raw(
		`SELECT `+labelledColumns+` FROM (?) p `+labelJoins+` ORDER BY p.id DESC`,
		stmt,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.RecentPayment, error) {
	var items []domain.RecentPayment
	err := db.WithContext(ctx).Raw(
		`SELECT `+labelledColumns+` FROM payments p `+labelJoins+`
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ?`,
		limit,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CashInHand(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0) AS total
		 FROM payments
		 WHERE payment_method = ?`,
		string(domain.PaymentTypeReceived),
		domain.MethodCash,
	).Scan(&row).Error
	return row.Total, err
}

func (r *repo) SumBetween(ctx context.Context, db *gorm.DB, paymentType domain.PaymentType, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM payments
		 WHERE type = ? AND created_at >= ? AND created_at < ?`,
		string(paymentType),
		from,
		to,
	).Scan(&row).Error
	return row.Total, err
}
