package service

import (
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
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Cfg          config.Config
	Repo         invoicedomain.Repository
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
	repo         invoicedomain.Repository
	customerRepo customerdomain.Repository
	supplierRepo supplierdomain.Repository
	ledger       inventorydomain.Ledger
	numbers      docnumber.Generator
	inventory    config.InventoryConfig
	clock        clock.Clock
	obsMetrics   *obsmetrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		supplierRepo: p.SupplierRepo,
		ledger:       p.Ledger,
		numbers:      p.Numbers,
		inventory:    p.Cfg.Inventory,
		clock:        c,
		obsMetrics:   p.ObsMetrics,
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value and invalid for anything
// that is not a snowflake id.
func parseOptionalID(value string, invalid error) (*snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return nil, invalid
	}
	return &id, nil
}

func normalizeDiscountType(t pricing.DiscountType) (pricing.DiscountType, error) {
	t = pricing.DiscountType(strings.ToLower(strings.TrimSpace(string(t))))
	if !t.Valid() {
		return "", invoicedomain.ErrInvalidDiscountType
	}
	if t == "" {
		t = pricing.DiscountAmount
	}
	return t, nil
}

func validateHeaderMoney(discount, taxRate, paid decimal.Decimal) error {
	if discount.IsNegative() {
		return invoicedomain.ErrInvalidDiscount
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return invoicedomain.ErrInvalidTaxRate
	}
	if paid.IsNegative() {
		return invoicedomain.ErrInvalidPaid
	}
	return nil
}

func paymentMethodOrDefault(method string) string {
	method = strings.TrimSpace(method)
	if method == "" {
		return invoicedomain.DefaultPaymentMethod
	}
	return method
}

// failureReason buckets a rolled back save for metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, docnumber.ErrConflict):
		return "conflict"
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, inventorydomain.ErrProductNotFound),
		errors.Is(err, invoicedomain.ErrCustomerNotFound),
		errors.Is(err, invoicedomain.ErrSupplierNotFound):
		return "not_found"
	case db.IsForeignKeyErr(err):
		return "foreign_key"
	default:
		return "storage"
	}
}
