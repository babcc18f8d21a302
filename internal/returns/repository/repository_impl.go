package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/returns/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

const (
	totalsColumns = `items_subtotal, discount_percentage, discount_amount, tax_percentage, tax_amount,
		extra_charges_deduction, round_off, refund_total`
	saleReturnColumns = `id, return_number, original_invoice_id, original_invoice_number, customer_id,
		customer_name, customer_contact, ` + totalsColumns + `, refund_method, refund_amount,
		refund_status, stock_adjustment_status, return_reason, notes, created_by, created_at`
	purchaseReturnColumns = `id, return_number, original_invoice_id, original_invoice_number, supplier_id,
		supplier_name, supplier_contact, ` + totalsColumns + `, refund_method, refund_amount,
		refund_status, return_reason, notes, created_by, created_at`
	itemColumns = `id, return_id, position, product_id, product_name, product_sku, brand, batch_no,
		expiry_date, returned_quantity, unit_price, subtotal, return_reason`
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func totalsArgs(t domain.ReturnTotals) []any {
	return []any{
		t.ItemsSubtotal,
		t.DiscountPercentage,
		t.DiscountAmount,
		t.TaxPercentage,
		t.TaxAmount,
		t.ExtraChargesDeduction,
		t.RoundOff,
		t.RefundTotal,
	}
}

func (r *repo) InsertSaleReturn(ctx context.Context, db *gorm.DB, ret *domain.SaleReturn) error {
	args := []any{
		ret.ID,
		ret.ReturnNumber,
		ret.OriginalInvoiceID,
		ret.OriginalInvoiceNumber,
		ret.CustomerID,
		ret.CustomerName,
		ret.CustomerContact,
	}
	args = append(args, totalsArgs(ret.ReturnTotals)...)
	args = append(args,
		string(ret.RefundMethod),
		ret.RefundAmount,
		string(ret.RefundStatus),
		string(ret.StockDisposition),
		ret.ReturnReason,
		ret.Notes,
		ret.CreatedBy,
		ret.CreatedAt,
	)
	return db.WithContext(ctx).Exec(
		`INSERT INTO sale_returns (`+saleReturnColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	).Error
}

func (r *repo) InsertSaleReturnItems(ctx context.Context, db *gorm.DB, items []domain.SaleReturnItem) error {
	for _, item := range items {
		if err := insertItem(ctx, db, "sale_return_items", item.ID, item.ReturnID, item.Position,
			item.ProductSnapshot, item.ReturnedQuantity, item.UnitPrice, item.Subtotal, item.ReturnReason); err != nil {
			return err
		}
	}
	return nil
}

func insertItem(
	ctx context.Context,
	db *gorm.DB,
	table string,
	id, returnID snowflake.ID,
	position int,
	snap domain.ProductSnapshot,
	quantity int64,
	unitPrice, subtotal decimal.Decimal,
	reason string,
) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO `+table+` (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		returnID,
		position,
		snap.ProductID,
		snap.ProductName,
		snap.ProductSKU,
		snap.Brand,
		snap.BatchNo,
		snap.ExpiryDate,
		quantity,
		unitPrice,
		subtotal,
		reason,
	).Error
}

func (r *repo) FindSaleReturn(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SaleReturn, error) {
	var ret domain.SaleReturn
	err := db.WithContext(ctx).Raw(
		`SELECT `+saleReturnColumns+` FROM sale_returns WHERE id = ?`,
		id,
	).Scan(&ret).Error
	if err != nil {
		return nil, err
	}
	if ret.ID == 0 {
		return nil, nil
	}
	return &ret, nil
}

func (r *repo) ListSaleReturnItems(ctx context.Context, db *gorm.DB, returnID snowflake.ID) ([]domain.SaleReturnItem, error) {
	var items []domain.SaleReturnItem
	err := db.WithContext(ctx).Raw(
		`SELECT `+itemColumns+` FROM sale_return_items WHERE return_id = ? ORDER BY position ASC`,
		returnID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListSaleReturns(ctx context.Context, db *gorm.DB, filter domain.ReturnFilter, page pagination.Pagination) ([]*domain.SaleReturn, error) {
	var returns []*domain.SaleReturn
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.SaleReturn{}), filter)
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ReturnFilter) *gorm.DB {
	if filter.RefundStatus != "" {
		stmt = stmt.Where("refund_status = ?", string(filter.RefundStatus))
	}
	if filter.OriginalInvoiceID != nil {
		stmt = stmt.Where("original_invoice_id = ?", *filter.OriginalInvoiceID)
	}
	return stmt
}

func (r *repo) SaleReturnStats(ctx context.Context, db *gorm.DB) (domain.SaleReturnCounts, error) {
	var row domain.SaleReturnCounts
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COUNT(*) FROM sale_returns) AS total_returns,
			(SELECT COALESCE(SUM(refund_total), 0) FROM sale_returns) AS total_refunded,
			(SELECT COUNT(*) FROM sale_returns WHERE refund_status = ?) AS pending_returns,
			(SELECT COUNT(*) FROM sale_returns WHERE refund_status = ?) AS completed_returns,
			(SELECT COUNT(*) FROM sale_invoices) AS total_sale_invoices`,
		string(domain.RefundStatusPending),
		string(domain.RefundStatusRefunded),
	).Scan(&row).Error
	return row, err
}

func (r *repo) InsertPurchaseReturn(ctx context.Context, db *gorm.DB, ret *domain.PurchaseReturn) error {
	args := []any{
		ret.ID,
		ret.ReturnNumber,
		ret.OriginalInvoiceID,
		ret.OriginalInvoiceNumber,
		ret.SupplierID,
		ret.SupplierName,
		ret.SupplierContact,
	}
	args = append(args, totalsArgs(ret.ReturnTotals)...)
	args = append(args,
		string(ret.RefundMethod),
		ret.RefundAmount,
		string(ret.RefundStatus),
		ret.ReturnReason,
		ret.Notes,
		ret.CreatedBy,
		ret.CreatedAt,
	)
	return db.WithContext(ctx).Exec(
		`INSERT INTO purchase_returns (`+purchaseReturnColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	).Error
}

func (r *repo) InsertPurchaseReturnItems(ctx context.Context, db *gorm.DB, items []domain.PurchaseReturnItem) error {
	for _, item := range items {
		if err := insertItem(ctx, db, "purchase_return_items", item.ID, item.ReturnID, item.Position,
			item.ProductSnapshot, item.ReturnedQuantity, item.UnitPrice, item.Subtotal, item.ReturnReason); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindPurchaseReturn(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PurchaseReturn, error) {
	var ret domain.PurchaseReturn
	err := db.WithContext(ctx).Raw(
		`SELECT `+purchaseReturnColumns+` FROM purchase_returns WHERE id = ?`,
		id,
	).Scan(&ret).Error
	if err != nil {
		return nil, err
	}
	if ret.ID == 0 {
		return nil, nil
	}
	return &ret, nil
}

func (r *repo) ListPurchaseReturnItems(ctx context.Context, db *gorm.DB, returnID snowflake.ID) ([]domain.PurchaseReturnItem, error) {
	var items []domain.PurchaseReturnItem
	err := db.WithContext(ctx).Raw(
		`SELECT `+itemColumns+` FROM purchase_return_items WHERE return_id = ? ORDER BY position ASC`,
		returnID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListPurchaseReturns(ctx context.Context, db *gorm.DB, filter domain.ReturnFilter, page pagination.Pagination) ([]*domain.PurchaseReturn, error) {
	var returns []*domain.PurchaseReturn
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.PurchaseReturn{}), filter)
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("id desc").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

func (r *repo) SaleReturnedQuantities(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (map[snowflake.ID]int64, error) {
	return returnedQuantities(ctx, db, "sale_returns", "sale_return_items", invoiceID)
}

func (r *repo) PurchaseReturnedQuantities(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (map[snowflake.ID]int64, error) {
	return returnedQuantities(ctx, db, "purchase_returns", "purchase_return_items", invoiceID)
}

type returnedRow struct {
	ProductID snowflake.ID
	Quantity  int64
}

func returnedQuantities(ctx context.Context, db *gorm.DB, header, items string, invoiceID snowflake.ID) (map[snowflake.ID]int64, error) {
	var rows []returnedRow
	err := db.WithContext(ctx).Raw(
		`SELECT i.product_id AS product_id, COALESCE(SUM(i.returned_quantity), 0) AS quantity
		 FROM `+items+` i
		 JOIN `+header+` r ON r.id = i.return_id
		 WHERE r.original_invoice_id = ?
		 GROUP BY i.product_id`,
		invoiceID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[snowflake.ID]int64, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Quantity
	}
	return out, nil
}
