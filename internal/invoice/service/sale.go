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

func (s *Service) CreateSaleInvoice(ctx context.Context, draft invoicedomain.SaleInvoiceDraft) (invoicedomain.SaleInvoice, error) {
	customerID, err := parseOptionalID(draft.CustomerID, invoicedomain.ErrInvalidCustomer)
	if err != nil {
		return invoicedomain.SaleInvoice{}, err
	}
	if len(draft.Items) == 0 {
		return invoicedomain.SaleInvoice{}, invoicedomain.ErrInvalidItems
	}
	discountType, err := normalizeDiscountType(draft.DiscountType)
	if err != nil {
		return invoicedomain.SaleInvoice{}, err
	}
	if err := validateHeaderMoney(draft.Discount, draft.TaxRate, draft.Paid); err != nil {
		return invoicedomain.SaleInvoice{}, err
	}

	productIDs := make([]snowflake.ID, len(draft.Items))
	lines := make([]pricing.SaleLine, len(draft.Items))
	for i, item := range draft.Items {
		productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || productID == 0 {
			return invoicedomain.SaleInvoice{}, invoicedomain.ErrInvalidProduct
		}
		if item.Quantity < 1 {
			return invoicedomain.SaleInvoice{}, invoicedomain.ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return invoicedomain.SaleInvoice{}, invoicedomain.ErrInvalidUnitPrice
		}
		if item.Discount.IsNegative() {
			return invoicedomain.SaleInvoice{}, invoicedomain.ErrInvalidDiscount
		}
		productIDs[i] = productID
		lines[i] = pricing.SaleLine{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
	}

	charges := draft.Charges.Normalize()
	totals := pricing.SaleInvoice(pricing.SaleInput{
		Lines:        lines,
		Discount:     draft.Discount,
		DiscountType: discountType,
		Charges:      charges,
		TaxEnabled:   draft.TaxEnabled,
		TaxRate:      draft.TaxRate,
		RoundOff:     draft.RoundOff,
		Paid:         draft.Paid,
	})

	number, err := s.numbers.Next(ctx, docnumber.KindSaleInvoice)
	if err != nil {
		return invoicedomain.SaleInvoice{}, err
	}

	invoice := invoicedomain.SaleInvoice{
		ID:             s.genID.Generate(),
		InvoiceNumber:  number,
		CustomerID:     customerID,
		Subtotal:       totals.Subtotal,
		DiscountType:   discountType,
		DiscountValue:  draft.Discount,
		DiscountAmount: totals.DiscountAmount,
		ExtraCharges:   invoicedomain.ChargesToMap(charges),
		ExtraTotal:     totals.ExtraTotal,
		TaxEnabled:     draft.TaxEnabled,
		TaxRate:        draft.TaxRate,
		TaxAmount:      totals.TaxAmount,
		RoundOff:       draft.RoundOff,
		RoundOffAmount: totals.RoundOffAmount,
		Total:          totals.GrandTotal,
		Paid:           totals.Paid,
		Balance:        totals.Balance,
		PaymentMethod:  paymentMethodOrDefault(draft.PaymentMethod),
		Status:         totals.Status,
		Notes:          strings.TrimSpace(draft.Notes),
		CreatedAt:      s.clock.Now(),
	}

	items := make([]invoicedomain.SaleInvoiceItem, len(lines))
	adjustments := make([]inventorydomain.Adjustment, len(lines))
	for i, line := range lines {
		items[i] = invoicedomain.SaleInvoiceItem{
			ID:        s.genID.Generate(),
			InvoiceID: invoice.ID,
			Position:  i + 1,
			ProductID: productIDs[i],
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
			Total:     totals.LineTotals[i],
		}
		adjustments[i] = inventorydomain.Adjustment{ProductID: productIDs[i], Delta: -line.Quantity}
	}

	log := logger.WithDocument(logger.WithContext(ctx, s.log), string(docnumber.KindSaleInvoice), number)

	var movements []inventorydomain.StockMovement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if customerID != nil {
			customer, err := s.customerRepo.FindByID(ctx, tx, *customerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return invoicedomain.ErrCustomerNotFound
			}
		}

		if err := s.repo.InsertSaleInvoice(ctx, tx, &invoice); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: %s", docnumber.ErrConflict, number)
			}
			return err
		}
		if err := s.repo.InsertSaleItems(ctx, tx, items); err != nil {
			return err
		}

		applied, err := s.ledger.Apply(ctx, tx, inventorydomain.Source{
			Type: inventorydomain.SourceTypeSaleInvoice,
			ID:   invoice.ID,
			Note: number,
		}, adjustments, inventorydomain.Policy{AllowNegativeStock: s.inventory.SaleAllowNegative})
		if err != nil {
			return err
		}
		movements = applied

		if customerID != nil && !invoice.Balance.IsZero() {
			if _, err := s.customerRepo.AdjustBalance(ctx, tx, *customerID, invoice.Balance); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		reason := failureReason(err)
		s.obsMetrics.RecordDocumentFailure(ctx, string(docnumber.KindSaleInvoice), reason)
		log.Warn("sale invoice rolled back", zap.String("reason", reason), zap.Error(err))
		return invoicedomain.SaleInvoice{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, string(docnumber.KindSaleInvoice))
	s.obsMetrics.RecordStockMovement(ctx, string(inventorydomain.SourceTypeSaleInvoice), len(movements))
	log.Info("sale invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("total", invoice.Total.String()),
		zap.String("status", string(invoice.Status)),
	)

	invoice.Items = items
	return invoice, nil
}

func (s *Service) GetSaleInvoice(ctx context.Context, id string) (invoicedomain.SaleInvoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.SaleInvoice{}, err
	}

	invoice, err := s.repo.FindSaleInvoice(ctx, s.db, invoiceID)
	if err != nil {
		return invoicedomain.SaleInvoice{}, err
	}
	if invoice == nil {
		return invoicedomain.SaleInvoice{}, invoicedomain.ErrNotFound
	}

	items, err := s.repo.ListSaleItems(ctx, s.db, invoiceID)
	if err != nil {
		return invoicedomain.SaleInvoice{}, err
	}
	invoice.Items = items

	return *invoice, nil
}

func (s *Service) ListSaleInvoices(ctx context.Context, req invoicedomain.ListSaleInvoiceRequest) (invoicedomain.ListSaleInvoiceResponse, error) {
	filter := invoicedomain.SaleInvoiceFilter{Status: req.Status}
	switch req.Status {
	case "", pricing.StatusPending, pricing.StatusPartial, pricing.StatusPaid:
	default:
		return invoicedomain.ListSaleInvoiceResponse{}, invoicedomain.ErrInvalidStatus
	}
	customerID, err := parseOptionalID(req.CustomerID, invoicedomain.ErrInvalidCustomer)
	if err != nil {
		return invoicedomain.ListSaleInvoiceResponse{}, err
	}
	filter.CustomerID = customerID

	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.ListSaleInvoices(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return invoicedomain.ListSaleInvoiceResponse{}, err
	}

	invoices, pageInfo := pagination.Page(items, pageSize, func(i *invoicedomain.SaleInvoice) string {
		return i.ID.String()
	})
	return invoicedomain.ListSaleInvoiceResponse{PageInfo: pageInfo, Invoices: invoices}, nil
}

func (s *Service) SaleInvoiceStats(ctx context.Context) (invoicedomain.SaleInvoiceStats, error) {
	return s.repo.SaleStats(ctx, s.db)
}
