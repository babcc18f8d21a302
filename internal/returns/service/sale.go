package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	"github.com/smallbiznis/retailbook/internal/observability/logger"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) CreateSaleReturn(ctx context.Context, draft returndomain.SaleReturnDraft) (returndomain.SaleReturn, error) {
	disposition := draft.StockDisposition
	if disposition == "" {
		disposition = returndomain.DispositionRestock
	}
	if !disposition.Valid() {
		return returndomain.SaleReturn{}, returndomain.ErrInvalidStockDisposition
	}

	prepared, err := prepareReturn(draft.ReturnDraft)
	if err != nil {
		return returndomain.SaleReturn{}, err
	}

	number, err := s.numbers.Next(ctx, docnumber.KindSaleReturn)
	if err != nil {
		return returndomain.SaleReturn{}, err
	}

	ret := returndomain.SaleReturn{
		ID:                s.genID.Generate(),
		ReturnNumber:      number,
		OriginalInvoiceID: prepared.originalID,
		CustomerName:      strings.TrimSpace(draft.CustomerName),
		CustomerContact:   strings.TrimSpace(draft.CustomerContact),
		ReturnTotals:      returnTotals(draft.ReturnDraft, prepared.totals),
		RefundMethod:      prepared.refundMethod,
		RefundAmount:      prepared.refundAmount,
		RefundStatus:      prepared.refundStatus,
		StockDisposition:  disposition,
		ReturnReason:      strings.TrimSpace(draft.ReturnReason),
		Notes:             strings.TrimSpace(draft.Notes),
		CreatedBy:         strings.TrimSpace(draft.CreatedBy),
		CreatedAt:         s.clock.Now(),
	}

	log := logger.WithDocument(logger.WithContext(ctx, s.log), string(docnumber.KindSaleReturn), number)

	var movements []inventorydomain.StockMovement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindSaleInvoice(ctx, tx, prepared.originalID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return returndomain.ErrOriginalInvoiceNotFound
		}
		ret.OriginalInvoiceNumber = invoice.InvoiceNumber
		ret.CustomerID = invoice.CustomerID

		invoiceItems, err := s.invoiceRepo.ListSaleItems(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		sold := make(map[snowflake.ID]int64, len(invoiceItems))
		for _, item := range invoiceItems {
			sold[item.ProductID] += item.Quantity
		}
		returned, err := s.repo.SaleReturnedQuantities(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		if err := checkReturnable(prepared.lines, sold, returned); err != nil {
			return err
		}

		if invoice.CustomerID != nil && (ret.CustomerName == "" || ret.CustomerContact == "") {
			customer, err := s.customerRepo.FindByID(ctx, tx, *invoice.CustomerID)
			if err != nil {
				return err
			}
			if customer != nil {
				if ret.CustomerName == "" {
					ret.CustomerName = customer.Name
				}
				if ret.CustomerContact == "" {
					ret.CustomerContact = customer.Phone
				}
			}
		}

		items := make([]returndomain.SaleReturnItem, len(prepared.lines))
		adjustments := make([]inventorydomain.Adjustment, 0, len(prepared.lines))
		for i, line := range prepared.lines {
			snap, err := s.snapshot(ctx, tx, line)
			if err != nil {
				return err
			}
			items[i] = returndomain.SaleReturnItem{
				ID:               s.genID.Generate(),
				ReturnID:         ret.ID,
				Position:         i + 1,
				ProductSnapshot:  snap,
				ReturnedQuantity: line.draft.ReturnedQuantity,
				UnitPrice:        line.draft.UnitPrice,
				Subtotal:         prepared.totals.LineTotals[i],
				ReturnReason:     strings.TrimSpace(line.draft.ReturnReason),
			}
			adjustments = append(adjustments, inventorydomain.Adjustment{
				ProductID: line.productID,
				Delta:     line.draft.ReturnedQuantity,
			})
		}

		if err := s.repo.InsertSaleReturn(ctx, tx, &ret); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: %s", docnumber.ErrConflict, number)
			}
			return err
		}
		if err := s.repo.InsertSaleReturnItems(ctx, tx, items); err != nil {
			return err
		}
		ret.Items = items

		if !disposition.Restocks() {
			return nil
		}
		applied, err := s.ledger.Apply(ctx, tx, inventorydomain.Source{
			Type: inventorydomain.SourceTypeSaleReturn,
			ID:   ret.ID,
			Note: number,
		}, adjustments, inventorydomain.Policy{AllowNegativeStock: true})
		if err != nil {
			return err
		}
		movements = applied
		return nil
	})
	if err != nil {
		reason := failureReason(err)
		s.obsMetrics.RecordDocumentFailure(ctx, string(docnumber.KindSaleReturn), reason)
		log.Warn("sale return rolled back", zap.String("reason", reason), zap.Error(err))
		return returndomain.SaleReturn{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, string(docnumber.KindSaleReturn))
	s.obsMetrics.RecordStockMovement(ctx, string(inventorydomain.SourceTypeSaleReturn), len(movements))
	log.Info("sale return created",
		zap.String("return_id", ret.ID.String()),
		zap.String("refund_total", ret.RefundTotal.String()),
		zap.String("stock_adjustment_status", string(disposition)),
	)

	return ret, nil
}

func (s *Service) GetSaleReturn(ctx context.Context, id string) (returndomain.SaleReturn, error) {
	returnID, err := parseID(id)
	if err != nil {
		return returndomain.SaleReturn{}, err
	}

	ret, err := s.repo.FindSaleReturn(ctx, s.db, returnID)
	if err != nil {
		return returndomain.SaleReturn{}, err
	}
	if ret == nil {
		return returndomain.SaleReturn{}, returndomain.ErrNotFound
	}

	items, err := s.repo.ListSaleReturnItems(ctx, s.db, returnID)
	if err != nil {
		return returndomain.SaleReturn{}, err
	}
	ret.Items = items

	return *ret, nil
}

func (s *Service) ListSaleReturns(ctx context.Context, req returndomain.ListReturnRequest) (returndomain.ListSaleReturnResponse, error) {
	filter, err := listFilter(req)
	if err != nil {
		return returndomain.ListSaleReturnResponse{}, err
	}

	page, pageSize := listPage(req)
	items, err := s.repo.ListSaleReturns(ctx, s.db, filter, page)
	if err != nil {
		return returndomain.ListSaleReturnResponse{}, err
	}

	returns, pageInfo := pagination.Page(items, pageSize, func(r *returndomain.SaleReturn) string {
		return r.ID.String()
	})
	return returndomain.ListSaleReturnResponse{PageInfo: pageInfo, Returns: returns}, nil
}

func (s *Service) SaleReturnStats(ctx context.Context) (returndomain.SaleReturnStats, error) {
	counts, err := s.repo.SaleReturnStats(ctx, s.db)
	if err != nil {
		return returndomain.SaleReturnStats{}, err
	}

	rate := decimal.Zero
	if counts.TotalSaleInvoices > 0 {
		rate = decimal.NewFromInt(counts.TotalReturns).
			Mul(hundred).
			Div(decimal.NewFromInt(counts.TotalSaleInvoices)).
			Round(1)
	}

	return returndomain.SaleReturnStats{
		TotalReturns:     counts.TotalReturns,
		TotalRefunded:    counts.TotalRefunded,
		PendingReturns:   counts.PendingReturns,
		CompletedReturns: counts.CompletedReturns,
		ReturnRate:       rate,
	}, nil
}
