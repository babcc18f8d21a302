package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/invoice/domain"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

const (
	saleInvoiceColumns = `id, invoice_number, customer_id, subtotal, discount_type, discount_value,
		discount_amount, extra_charges, extra_total, tax_enabled, tax_rate, tax_amount, round_off,
		round_off_amount, total, paid, balance, payment_method, status, notes, created_at`
	purchaseInvoiceColumns = `id, invoice_number, supplier_id, subtotal, discount_type, discount_value,
		discount_amount, tax_enabled, tax_rate, tax_amount, shipping, total, paid, balance,
		payment_method, status, notes, created_at`
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSaleInvoice(ctx context.Context, db *gorm.DB, invoice *domain.SaleInvoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sale_invoices (`+saleInvoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.CustomerID,
		invoice.Subtotal,
		string(invoice.DiscountType),
		invoice.DiscountValue,
		invoice.DiscountAmount,
		invoice.ExtraCharges,
		invoice.ExtraTotal,
		invoice.TaxEnabled,
		invoice.TaxRate,
		invoice.TaxAmount,
		invoice.RoundOff,
		invoice.RoundOffAmount,
		invoice.Total,
		invoice.Paid,
		invoice.Balance,
		invoice.PaymentMethod,
		string(invoice.Status),
		invoice.Notes,
		invoice.CreatedAt,
	).Error
}

func (r *repo) InsertSaleItems(ctx context.Context, db *gorm.DB, items []domain.SaleInvoiceItem) error {
	for _, item := range items {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO sale_invoice_items (
				id, invoice_id, position, product_id, quantity, unit_price, discount, total
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.InvoiceID,
			item.Position,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.Discount,
			item.Total,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindSaleInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SaleInvoice, error) {
	var invoice domain.SaleInvoice
	err := db.WithContext(ctx).Raw(
		`SELECT `+saleInvoiceColumns+` FROM sale_invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) ListSaleItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.SaleInvoiceItem, error) {
	var items []domain.SaleInvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, position, product_id, quantity, unit_price, discount, total
		 FROM sale_invoice_items WHERE invoice_id = ? ORDER BY position ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListSaleInvoices(ctx context.Context, db *gorm.DB, filter domain.SaleInvoiceFilter, page pagination.Pagination) ([]*domain.SaleInvoice, error) {
	var invoices []*domain.SaleInvoice
	stmt := db.WithContext(ctx).Model(&domain.SaleInvoice{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", string(filter.Status))
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) UpdateSalePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, paid, balance decimal.Decimal, status pricing.Status) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sale_invoices SET paid = ?, balance = ?, status = ? WHERE id = ?`,
		paid,
		balance,
		string(status),
		id,
	).Error
}

func (r *repo) SaleStats(ctx context.Context, db *gorm.DB) (domain.SaleInvoiceStats, error) {
	var row struct {
		TotalSales      decimal.Decimal
		PaidInvoices    int64
		PendingInvoices int64
		TotalCustomers  int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COALESCE(SUM(total), 0) FROM sale_invoices) AS total_sales,
			(SELECT COUNT(*) FROM sale_invoices WHERE status = ?) AS paid_invoices,
			(SELECT COUNT(*) FROM sale_invoices WHERE status = ?) AS pending_invoices,
			(SELECT COUNT(*) FROM customers) AS total_customers`,
		string(pricing.StatusPaid),
		string(pricing.StatusPending),
	).Scan(&row).Error
	if err != nil {
		return domain.SaleInvoiceStats{}, err
	}
	return domain.SaleInvoiceStats{
		TotalSales:      row.TotalSales,
		PaidInvoices:    row.PaidInvoices,
		PendingInvoices: row.PendingInvoices,
		TotalCustomers:  row.TotalCustomers,
	}, nil
}

func (r *repo) CountSaleInvoices(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.SaleInvoice{}).Count(&count).Error
	return count, err
}

func (r *repo) InsertPurchaseInvoice(ctx context.Context, db *gorm.DB, invoice *domain.PurchaseInvoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO purchase_invoices (`+purchaseInvoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.SupplierID,
		invoice.Subtotal,
		string(invoice.DiscountType),
		invoice.DiscountValue,
		invoice.DiscountAmount,
		invoice.TaxEnabled,
		invoice.TaxRate,
		invoice.TaxAmount,
		invoice.Shipping,
		invoice.Total,
		invoice.Paid,
		invoice.Balance,
		invoice.PaymentMethod,
		string(invoice.Status),
		invoice.Notes,
		invoice.CreatedAt,
	).Error
}

func (r *repo) InsertPurchaseItems(ctx context.Context, db *gorm.DB, items []domain.PurchaseInvoiceItem) error {
	for _, item := range items {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO purchase_invoice_items (
				id, invoice_id, position, product_id, quantity, unit_cost, total
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.InvoiceID,
			item.Position,
			item.ProductID,
			item.Quantity,
			item.UnitCost,
			item.Total,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindPurchaseInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PurchaseInvoice, error) {
	var invoice domain.PurchaseInvoice
	err := db.WithContext(ctx).Raw(
		`SELECT `+purchaseInvoiceColumns+` FROM purchase_invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) ListPurchaseItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.PurchaseInvoiceItem, error) {
	var items []domain.PurchaseInvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, position, product_id, quantity, unit_cost, total
		 FROM purchase_invoice_items WHERE invoice_id = ? ORDER BY position ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListPurchaseInvoices(ctx context.Context, db *gorm.DB, filter domain.PurchaseInvoiceFilter, page pagination.Pagination) ([]*domain.PurchaseInvoice, error) {
	var invoices []*domain.PurchaseInvoice
	stmt := db.WithContext(ctx).Model(&domain.PurchaseInvoice{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", string(filter.Status))
	}
	if filter.SupplierID != nil {
		stmt = stmt.Where("supplier_id = ?", *filter.SupplierID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) UpdatePurchasePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, paid, balance decimal.Decimal, status pricing.Status) error {
	return db.WithContext(ctx).Exec(
		`UPDATE purchase_invoices SET paid = ?, balance = ?, status = ? WHERE id = ?`,
		paid,
		balance,
		string(status),
		id,
	).Error
}

func (r *repo) PurchaseStats(ctx context.Context, db *gorm.DB) (domain.PurchaseInvoiceStats, error) {
	var row struct {
		TotalPurchases  decimal.Decimal
		PendingOrders   int64
		PartialOrders   int64
		ActiveSuppliers int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COALESCE(SUM(total), 0) FROM purchase_invoices) AS total_purchases,
			(SELECT COUNT(*) FROM purchase_invoices WHERE status = ?) AS pending_orders,
			(SELECT COUNT(*) FROM purchase_invoices WHERE status = ?) AS partial_orders,
			(SELECT COUNT(*) FROM suppliers) AS active_suppliers`,
		string(pricing.StatusPending),
		string(pricing.StatusPartial),
	).Scan(&row).Error
	if err != nil {
		return domain.PurchaseInvoiceStats{}, err
	}
	return domain.PurchaseInvoiceStats{
		TotalPurchases:  row.TotalPurchases,
		PendingOrders:   row.PendingOrders,
		PartialOrders:   row.PartialOrders,
		ActiveSuppliers: row.ActiveSuppliers,
	}, nil
}

func (r *repo) SaleTotalBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	return sumTotalBetween(ctx, db, "sale_invoices", from, to)
}

func (r *repo) PurchaseTotalBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	return sumTotalBetween(ctx, db, "purchase_invoices", from, to)
}

func sumTotalBetween(ctx context.Context, db *gorm.DB, table string, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total), 0) AS total FROM `+table+`
		 WHERE created_at >= ? AND created_at < ?`,
		from,
		to,
	).Scan(&row).Error
	return row.Total, err
}
