package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	"github.com/smallbiznis/retailbook/internal/observability/logger"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) CreatePurchaseReturn(ctx context.Context, draft returndomain.PurchaseReturnDraft) (returndomain.PurchaseReturn, error) {
	prepared, err := prepareReturn(draft.ReturnDraft)
	if err != nil {
		return returndomain.PurchaseReturn{}, err
	}

	number, err := s.numbers.Next(ctx, docnumber.KindPurchaseReturn)
	if err != nil {
		return returndomain.PurchaseReturn{}, err
	}

	ret := returndomain.PurchaseReturn{
		ID:                s.genID.Generate(),
		ReturnNumber:      number,
		OriginalInvoiceID: prepared.originalID,
		SupplierName:      strings.TrimSpace(draft.SupplierName),
		SupplierContact:   strings.TrimSpace(draft.SupplierContact),
		ReturnTotals:      returnTotals(draft.ReturnDraft, prepared.totals),
		RefundMethod:      prepared.refundMethod,
		RefundAmount:      prepared.refundAmount,
		RefundStatus:      prepared.refundStatus,
		ReturnReason:      strings.TrimSpace(draft.ReturnReason),
		Notes:             strings.TrimSpace(draft.Notes),
		CreatedBy:         strings.TrimSpace(draft.CreatedBy),
		CreatedAt:         s.clock.Now(),
	}

	log := logger.WithDocument(logger.WithContext(ctx, s.log), string(docnumber.KindPurchaseReturn), number)

	var movements []inventorydomain.StockMovement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindPurchaseInvoice(ctx, tx, prepared.originalID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return returndomain.ErrOriginalInvoiceNotFound
		}
		ret.OriginalInvoiceNumber = invoice.InvoiceNumber
		ret.SupplierID = invoice.SupplierID

		invoiceItems, err := s.invoiceRepo.ListPurchaseItems(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		received := make(map[snowflake.ID]int64, len(invoiceItems))
		for _, item := range invoiceItems {
			received[item.ProductID] += item.Quantity
		}
		returned, err := s.repo.PurchaseReturnedQuantities(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		if err := checkReturnable(prepared.lines, received, returned); err != nil {
			return err
		}

		if ret.SupplierName == "" || ret.SupplierContact == "" {
			supplier, err := s.supplierRepo.FindByID(ctx, tx, invoice.SupplierID)
			if err != nil {
				return err
			}
			if supplier != nil {
				if ret.SupplierName == "" {
					ret.SupplierName = supplier.Name
				}
				if ret.SupplierContact == "" {
					ret.SupplierContact = supplier.Phone
				}
			}
		}

		items := make([]returndomain.PurchaseReturnItem, len(prepared.lines))
		adjustments := make([]inventorydomain.Adjustment, len(prepared.lines))
		for i, line := range prepared.lines {
			snap, err := s.snapshot(ctx, tx, line)
			if err != nil {
				return err
			}
			items[i] = returndomain.PurchaseReturnItem{
				ID:               s.genID.Generate(),
				ReturnID:         ret.ID,
				Position:         i + 1,
				ProductSnapshot:  snap,
				ReturnedQuantity: line.draft.ReturnedQuantity,
				UnitPrice:        line.draft.UnitPrice,
				Subtotal:         prepared.totals.LineTotals[i],
				ReturnReason:     strings.TrimSpace(line.draft.ReturnReason),
			}
			adjustments[i] = inventorydomain.Adjustment{
				ProductID: line.productID,
				Delta:     -line.draft.ReturnedQuantity,
			}
		}

		if err := s.repo.InsertPurchaseReturn(ctx, tx, &ret); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: %s", docnumber.ErrConflict, number)
			}
			return err
		}
		if err := s.repo.InsertPurchaseReturnItems(ctx, tx, items); err != nil {
			return err
		}
		ret.Items = items

		applied, err := s.ledger.Apply(ctx, tx, inventorydomain.Source{
			Type: inventorydomain.SourceTypePurchaseReturn,
			ID:   ret.ID,
			Note: number,
		}, adjustments, inventorydomain.Policy{AllowNegativeStock: s.inventory.PurchaseReturnAllowNegative})
		if err != nil {
			return err
		}
		movements = applied
		return nil
	})
	if err != nil {
		reason := failureReason(err)
		s.obsMetrics.RecordDocumentFailure(ctx, string(docnumber.KindPurchaseReturn), reason)
		log.Warn("purchase return rolled back", zap.String("reason", reason), zap.Error(err))
		return returndomain.PurchaseReturn{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, string(docnumber.KindPurchaseReturn))
	s.obsMetrics.RecordStockMovement(ctx, string(inventorydomain.SourceTypePurchaseReturn), len(movements))
	log.Info("purchase return created",
		zap.String("return_id", ret.ID.String()),
		zap.String("refund_total", ret.RefundTotal.String()),
	)

	return ret, nil
}

func (s *Service) GetPurchaseReturn(ctx context.Context, id string) (returndomain.PurchaseReturn, error) {
	returnID, err := parseID(id)
	if err != nil {
		return returndomain.PurchaseReturn{}, err
	}

	ret, err := s.repo.FindPurchaseReturn(ctx, s.db, returnID)
	if err != nil {
		return returndomain.PurchaseReturn{}, err
	}
	if ret == nil {
		return returndomain.PurchaseReturn{}, returndomain.ErrNotFound
	}

	items, err := s.repo.ListPurchaseReturnItems(ctx, s.db, returnID)
	if err != nil {
		return returndomain.PurchaseReturn{}, err
	}
	ret.Items = items

	return *ret, nil
}

func (s *Service) ListPurchaseReturns(ctx context.Context, req returndomain.ListReturnRequest) (returndomain.ListPurchaseReturnResponse, error) {
	filter, err := listFilter(req)
	if err != nil {
		return returndomain.ListPurchaseReturnResponse{}, err
	}

	page, pageSize := listPage(req)
	items, err := s.repo.ListPurchaseReturns(ctx, s.db, filter, page)
	if err != nil {
		return returndomain.ListPurchaseReturnResponse{}, err
	}

	returns, pageInfo := pagination.Page(items, pageSize, func(r *returndomain.PurchaseReturn) string {
		return r.ID.String()
	})
	return returndomain.ListPurchaseReturnResponse{PageInfo: pageInfo, Returns: returns}, nil
}
