package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	"github.com/smallbiznis/retailbook/internal/observability/logger"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"github.com/smallbiznis/retailbook/pkg/db"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) CreatePurchaseInvoice(ctx context.Context, draft invoicedomain.PurchaseInvoiceDraft) (invoicedomain.PurchaseInvoice, error) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(draft.SupplierID))
	if err != nil || supplierID == 0 {
		return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrInvalidSupplier
	}
	if len(draft.Items) == 0 {
		return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrInvalidItems
	}
	discountType, err := normalizeDiscountType(draft.DiscountType)
	if err != nil {
		return invoicedomain.PurchaseInvoice{}, err
	}
	if err := validateHeaderMoney(draft.Discount, draft.TaxRate, draft.Paid); err != nil {
		return invoicedomain.PurchaseInvoice{}, err
	}
	if draft.Shipping.IsNegative() {
		return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrInvalidShipping
	}

	productIDs := make([]snowflake.ID, len(draft.Items))
	lines := make([]pricing.PurchaseLine, len(draft.Items))
	for i, item := range draft.Items {
		productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || productID == 0 {
			return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrInvalidProduct
		}
		if item.Quantity < 1 {
			return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrInvalidQuantity
		}
		if item.UnitCost.IsNegative() {
			return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrInvalidUnitCost
		}
		productIDs[i] = productID
		lines[i] = pricing.PurchaseLine{Quantity: item.Quantity, UnitCost: item.UnitCost}
	}

	totals := pricing.PurchaseInvoice(pricing.PurchaseInput{
		Lines:        lines,
		Discount:     draft.Discount,
		DiscountType: discountType,
		TaxEnabled:   draft.TaxEnabled,
		TaxRate:      draft.TaxRate,
		Shipping:     draft.Shipping,
		Paid:         draft.Paid,
	})

	number, err := s.numbers.Next(ctx, docnumber.KindPurchaseInvoice)
	if err != nil {
		return invoicedomain.PurchaseInvoice{}, err
	}

	invoice := invoicedomain.PurchaseInvoice{
		ID:             s.genID.Generate(),
		InvoiceNumber:  number,
		SupplierID:     supplierID,
		Subtotal:       totals.Subtotal,
		DiscountType:   discountType,
		DiscountValue:  draft.Discount,
		DiscountAmount: totals.DiscountAmount,
		TaxEnabled:     draft.TaxEnabled,
		TaxRate:        draft.TaxRate,
		TaxAmount:      totals.TaxAmount,
		Shipping:       totals.Shipping,
		Total:          totals.GrandTotal,
		Paid:           totals.Paid,
		Balance:        totals.Balance,
		PaymentMethod:  paymentMethodOrDefault(draft.PaymentMethod),
		Status:         totals.Status,
		Notes:          strings.TrimSpace(draft.Notes),
		CreatedAt:      s.clock.Now(),
	}

	items := make([]invoicedomain.PurchaseInvoiceItem, len(lines))
	adjustments := make([]inventorydomain.Adjustment, len(lines))
	for i, line := range lines {
		items[i] = invoicedomain.PurchaseInvoiceItem{
			ID:        s.genID.Generate(),
			InvoiceID: invoice.ID,
			Position:  i + 1,
			ProductID: productIDs[i],
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			Total:     totals.LineTotals[i],
		}
		adjustments[i] = inventorydomain.Adjustment{ProductID: productIDs[i], Delta: line.Quantity}
	}

	log := logger.WithDocument(logger.WithContext(ctx, s.log), string(docnumber.KindPurchaseInvoice), number)

	var movements []inventorydomain.StockMovement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		supplier, err := s.supplierRepo.FindByID(ctx, tx, supplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return invoicedomain.ErrSupplierNotFound
		}

		if err := s.repo.InsertPurchaseInvoice(ctx, tx, &invoice); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: %s", docnumber.ErrConflict, number)
			}
			return err
		}
		if err := s.repo.InsertPurchaseItems(ctx, tx, items); err != nil {
			return err
		}

		// Purchases only add stock, so the policy never blocks them.
		applied, err := s.ledger.Apply(ctx, tx, inventorydomain.Source{
			Type: inventorydomain.SourceTypePurchaseInvoice,
			ID:   invoice.ID,
			Note: number,
		}, adjustments, inventorydomain.Policy{AllowNegativeStock: true})
		if err != nil {
			return err
		}
		movements = applied

		if !invoice.Balance.IsZero() {
			if _, err := s.supplierRepo.AdjustBalance(ctx, tx, supplierID, invoice.Balance); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		reason := failureReason(err)
		s.obsMetrics.RecordDocumentFailure(ctx, string(docnumber.KindPurchaseInvoice), reason)
		log.Warn("purchase invoice rolled back", zap.String("reason", reason), zap.Error(err))
		return invoicedomain.PurchaseInvoice{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, string(docnumber.KindPurchaseInvoice))
	s.obsMetrics.RecordStockMovement(ctx, string(inventorydomain.SourceTypePurchaseInvoice), len(movements))
	log.Info("purchase invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("total", invoice.Total.String()),
		zap.String("status", string(invoice.Status)),
	)

	invoice.Items = items
	return invoice, nil
}

func (s *Service) GetPurchaseInvoice(ctx context.Context, id string) (invoicedomain.PurchaseInvoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.PurchaseInvoice{}, err
	}

	invoice, err := s.repo.FindPurchaseInvoice(ctx, s.db, invoiceID)
	if err != nil {
		return invoicedomain.PurchaseInvoice{}, err
	}
	if invoice == nil {
		return invoicedomain.PurchaseInvoice{}, invoicedomain.ErrNotFound
	}

	items, err := s.repo.ListPurchaseItems(ctx, s.db, invoiceID)
	if err != nil {
		return invoicedomain.PurchaseInvoice{}, err
	}
	invoice.Items = items

	return *invoice, nil
}

func (s *Service) ListPurchaseInvoices(ctx context.Context, req invoicedomain.ListPurchaseInvoiceRequest) (invoicedomain.ListPurchaseInvoiceResponse, error) {
	filter := invoicedomain.PurchaseInvoiceFilter{Status: req.Status}
	switch req.Status {
	case "", pricing.StatusPending, pricing.StatusPartial, pricing.StatusPaid:
	default:
		return invoicedomain.ListPurchaseInvoiceResponse{}, invoicedomain.ErrInvalidStatus
	}
	supplierID, err := parseOptionalID(req.SupplierID, invoicedomain.ErrInvalidSupplier)
	if err != nil {
		return invoicedomain.ListPurchaseInvoiceResponse{}, err
	}
	filter.SupplierID = supplierID

	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.ListPurchaseInvoices(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return invoicedomain.ListPurchaseInvoiceResponse{}, err
	}

	invoices, pageInfo := pagination.Page(items, pageSize, func(i *invoicedomain.PurchaseInvoice) string {
		return i.ID.String()
	})
	return invoicedomain.ListPurchaseInvoiceResponse{PageInfo: pageInfo, Invoices: invoices}, nil
}

func (s *Service) PurchaseInvoiceStats(ctx context.Context) (invoicedomain.PurchaseInvoiceStats, error) {
	return s.repo.PurchaseStats(ctx, s.db)
}
