package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/config"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/retailbook/internal/observability/metrics"
	"github.com/smallbiznis/retailbook/internal/pricing"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Cfg          config.Config
	Repo         returndomain.Repository
	InvoiceRepo  invoicedomain.Repository
	ProductRepo  productdomain.Repository
	CustomerRepo customerdomain.Repository
	SupplierRepo supplierdomain.Repository
	Ledger       inventorydomain.Ledger
	Numbers      docnumber.Generator
	Clock        clock.Clock         `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	repo         returndomain.Repository
	invoiceRepo  invoicedomain.Repository
	productRepo  productdomain.Repository
	customerRepo customerdomain.Repository
	supplierRepo supplierdomain.Repository
	ledger       inventorydomain.Ledger
	numbers      docnumber.Generator
	inventory    config.InventoryConfig
	clock        clock.Clock
	obsMetrics   *obsmetrics.Metrics
}

func NewService(p ServiceParam) returndomain.Service {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("returns.service"),

		genID:        p.GenID,
		repo:         p.Repo,
		invoiceRepo:  p.InvoiceRepo,
		productRepo:  p.ProductRepo,
		customerRepo: p.CustomerRepo,
		supplierRepo: p.SupplierRepo,
		ledger:       p.Ledger,
		numbers:      p.Numbers,
		inventory:    p.Cfg.Inventory,
		clock:        c,
		obsMetrics:   p.ObsMetrics,
	}
}

// preparedLine is a validated draft line with a positive quantity.
type preparedLine struct {
	productID snowflake.ID
	draft     returndomain.ReturnItemDraft
}

type preparedReturn struct {
	originalID   snowflake.ID
	lines        []preparedLine
	totals       pricing.ReturnTotals
	refundMethod returndomain.RefundMethod
	refundAmount decimal.Decimal
	refundStatus returndomain.RefundStatus
}

// prepareReturn validates the shared header and drops lines that are not
// being returned.
func prepareReturn(draft returndomain.ReturnDraft) (preparedReturn, error) {
	originalID, err := snowflake.ParseString(strings.TrimSpace(draft.OriginalInvoiceID))
	if err != nil || originalID == 0 {
		return preparedReturn{}, returndomain.ErrInvalidOriginalInvoice
	}
	if !validPercentage(draft.DiscountPercentage) {
		return preparedReturn{}, returndomain.ErrInvalidDiscountPercentage
	}
	if !validPercentage(draft.TaxPercentage) {
		return preparedReturn{}, returndomain.ErrInvalidTaxPercentage
	}
	if draft.ExtraChargesDeduction.IsNegative() {
		return preparedReturn{}, returndomain.ErrInvalidExtraChargesDeduction
	}

	refundMethod := draft.RefundMethod
	if refundMethod == "" {
		refundMethod = returndomain.RefundMethodCash
	}
	if !refundMethod.Valid() {
		return preparedReturn{}, returndomain.ErrInvalidRefundMethod
	}
	refundStatus := draft.RefundStatus
	if refundStatus == "" {
		refundStatus = returndomain.RefundStatusPending
	}
	if !refundStatus.Valid() {
		return preparedReturn{}, returndomain.ErrInvalidRefundStatus
	}

	lines := make([]preparedLine, 0, len(draft.Items))
	pricingLines := make([]pricing.ReturnLine, 0, len(draft.Items))
	for _, item := range draft.Items {
		if item.ReturnedQuantity < 0 {
			return preparedReturn{}, returndomain.ErrInvalidReturnedQuantity
		}
		if item.ReturnedQuantity == 0 {
			continue
		}
		productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || productID == 0 {
			return preparedReturn{}, returndomain.ErrInvalidProduct
		}
		if item.UnitPrice.IsNegative() {
			return preparedReturn{}, returndomain.ErrInvalidUnitPrice
		}
		lines = append(lines, preparedLine{productID: productID, draft: item})
		pricingLines = append(pricingLines, pricing.ReturnLine{
			Quantity:  item.ReturnedQuantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if len(lines) == 0 {
		return preparedReturn{}, returndomain.ErrInvalidItems
	}

	totals := pricing.Return(pricing.ReturnInput{
		Lines:                 pricingLines,
		DiscountPercentage:    draft.DiscountPercentage,
		TaxPercentage:         draft.TaxPercentage,
		ExtraChargesDeduction: draft.ExtraChargesDeduction,
		RoundOff:              draft.RoundOff,
	})

	refundAmount := totals.RefundTotal
	if draft.RefundAmount != nil {
		if draft.RefundAmount.IsNegative() || draft.RefundAmount.GreaterThan(totals.RefundTotal) {
			return preparedReturn{}, returndomain.ErrInvalidRefundAmount
		}
		refundAmount = *draft.RefundAmount
	}

	return preparedReturn{
		originalID:   originalID,
		lines:        lines,
		totals:       totals,
		refundMethod: refundMethod,
		refundAmount: refundAmount,
		refundStatus: refundStatus,
	}, nil
}

// checkReturnable rejects lines for products the invoice never carried and
// quantities above what was sold less what has already come back.
func checkReturnable(lines []preparedLine, sold, returned map[snowflake.ID]int64) error {
	requested := make(map[snowflake.ID]int64, len(lines))
	for _, line := range lines {
		if _, ok := sold[line.productID]; !ok {
			return returndomain.ErrInvalidProduct
		}
		requested[line.productID] += line.draft.ReturnedQuantity
	}
	for productID, qty := range requested {
		if qty > sold[productID]-returned[productID] {
			return returndomain.ErrInvalidReturnedQuantity
		}
	}
	return nil
}

func validPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(hundred)
}

func returnTotals(draft returndomain.ReturnDraft, t pricing.ReturnTotals) returndomain.ReturnTotals {
	return returndomain.ReturnTotals{
		ItemsSubtotal:         t.ItemsSubtotal,
		DiscountPercentage:    draft.DiscountPercentage,
		DiscountAmount:        t.DiscountAmount,
		TaxPercentage:         draft.TaxPercentage,
		TaxAmount:             t.TaxAmount,
		ExtraChargesDeduction: t.ExtraChargesDeduction,
		RoundOff:              t.RoundOff,
		RefundTotal:           t.RefundTotal,
	}
}

// snapshot copies the product's current attributes. Values supplied on
// the draft line take precedence for batch and expiry.
func (s *Service) snapshot(ctx context.Context, tx *gorm.DB, line preparedLine) (returndomain.ProductSnapshot, error) {
	product, err := s.productRepo.FindByID(ctx, tx, line.productID)
	if err != nil {
		return returndomain.ProductSnapshot{}, err
	}
	if product == nil {
		return returndomain.ProductSnapshot{}, inventorydomain.ErrProductNotFound
	}

	snap := returndomain.ProductSnapshot{
		ProductID:   product.ID,
		ProductName: product.Name,
		Brand:       product.Brand,
		BatchNo:     strings.TrimSpace(line.draft.BatchNo),
		ExpiryDate:  product.ExpiryDate,
	}
	if product.SKU != nil {
		snap.ProductSKU = *product.SKU
	}
	if line.draft.ExpiryDate != nil {
		expiry := line.draft.ExpiryDate.UTC()
		snap.ExpiryDate = &expiry
	}
	return snap, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, returndomain.ErrInvalidID
	}
	return id, nil
}

func listFilter(req returndomain.ListReturnRequest) (returndomain.ReturnFilter, error) {
	filter := returndomain.ReturnFilter{RefundStatus: req.RefundStatus}
	if req.RefundStatus != "" && !req.RefundStatus.Valid() {
		return filter, returndomain.ErrInvalidRefundStatus
	}
	if value := strings.TrimSpace(req.OriginalInvoiceID); value != "" {
		id, err := snowflake.ParseString(value)
		if err != nil || id == 0 {
			return filter, returndomain.ErrInvalidOriginalInvoice
		}
		filter.OriginalInvoiceID = &id
	}
	return filter, nil
}

func listPage(req returndomain.ListReturnRequest) (pagination.Pagination, int) {
	pageSize := option.NormalizePageSize(int(req.PageSize))
	return pagination.Pagination{PageToken: req.PageToken, PageSize: pageSize}, pageSize
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, docnumber.ErrConflict):
		return "conflict"
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, returndomain.ErrInvalidProduct),
		errors.Is(err, returndomain.ErrInvalidReturnedQuantity):
		return "not_returnable"
	case errors.Is(err, inventorydomain.ErrProductNotFound),
		errors.Is(err, returndomain.ErrOriginalInvoiceNotFound):
		return "not_found"
	case db.IsForeignKeyErr(err):
		return "foreign_key"
	default:
		return "storage"
	}
}
