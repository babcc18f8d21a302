package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/clock"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/retailbook/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	"github.com/smallbiznis/retailbook/internal/pricing"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxRecentLimit = 100

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         paymentdomain.Repository
	InvoiceRepo  invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	SupplierRepo supplierdomain.Repository
	Clock        clock.Clock         `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         paymentdomain.Repository
	invoiceRepo  invoicedomain.Repository
	customerRepo customerdomain.Repository
	supplierRepo supplierdomain.Repository
	clock        clock.Clock
	obsMetrics   *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("payment.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		invoiceRepo:  p.InvoiceRepo,
		customerRepo: p.CustomerRepo,
		supplierRepo: p.SupplierRepo,
		clock:        c,
		obsMetrics:   p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, draft paymentdomain.PaymentDraft) (paymentdomain.Payment, error) {
	payment, err := s.validate(draft)
	if err != nil {
		return paymentdomain.Payment{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch payment.ReferenceType {
		case paymentdomain.ReferenceSaleInvoice:
			if err := s.applyToSaleInvoice(ctx, tx, &payment); err != nil {
				return err
			}
		case paymentdomain.ReferencePurchaseInvoice:
			if err := s.applyToPurchaseInvoice(ctx, tx, &payment); err != nil {
				return err
			}
		}

		if err := s.adjustCounterparty(ctx, tx, payment); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, &payment)
	})
	if err != nil {
		s.log.Warn("payment rolled back",
			zap.String("type", string(payment.Type)),
			zap.String("reference_type", string(payment.ReferenceType)),
			zap.Error(err),
		)
		return paymentdomain.Payment{}, err
	}

	s.obsMetrics.RecordPaymentApplied(ctx, string(payment.Type), string(payment.ReferenceType))
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("type", string(payment.Type)),
		zap.String("reference_type", string(payment.ReferenceType)),
		zap.String("amount", payment.Amount.String()),
	)
	return payment, nil
}

func (s *Service) validate(draft paymentdomain.PaymentDraft) (paymentdomain.Payment, error) {
	if !draft.Type.Valid() {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidType
	}
	if !draft.Amount.IsPositive() {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidAmount
	}

	refType := draft.ReferenceType
	if refType == "" {
		refType = paymentdomain.ReferenceNone
	}
	if !refType.Valid() {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidReferenceType
	}

	refID, err := optionalID(draft.ReferenceID, paymentdomain.ErrInvalidReference)
	if err != nil {
		return paymentdomain.Payment{}, err
	}
	if refType == paymentdomain.ReferenceNone && refID != nil {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidReference
	}
	if refType != paymentdomain.ReferenceNone && refID == nil {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidReference
	}

	customerID, err := optionalID(draft.CustomerID, paymentdomain.ErrInvalidCustomer)
	if err != nil {
		return paymentdomain.Payment{}, err
	}
	supplierID, err := optionalID(draft.SupplierID, paymentdomain.ErrInvalidSupplier)
	if err != nil {
		return paymentdomain.Payment{}, err
	}

	method := strings.TrimSpace(draft.PaymentMethod)
	if method == "" {
		method = paymentdomain.MethodCash
	}

	return paymentdomain.Payment{
		ID:            s.genID.Generate(),
		Type:          draft.Type,
		ReferenceType: refType,
		ReferenceID:   refID,
		CustomerID:    customerID,
		SupplierID:    supplierID,
		Amount:        draft.Amount,
		PaymentMethod: method,
		Notes:         strings.TrimSpace(draft.Notes),
		CreatedAt:     s.clock.Now(),
	}, nil
}

// applyToSaleInvoice adds the payment to the invoice. Status is only ever
// promoted to paid; a partial payment leaves it as it was.
func (s *Service) applyToSaleInvoice(ctx context.Context, tx *gorm.DB, payment *paymentdomain.Payment) error {
	invoice, err := s.invoiceRepo.FindSaleInvoice(ctx, tx, *payment.ReferenceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return paymentdomain.ErrInvoiceNotFound
	}
	if payment.CustomerID == nil {
		payment.CustomerID = invoice.CustomerID
	}

	paid, balance, status := reconcile(invoice.Total, invoice.Paid, payment.Amount, invoice.Status)
	return s.invoiceRepo.UpdateSalePayment(ctx, tx, invoice.ID, paid, balance, status)
}

func (s *Service) applyToPurchaseInvoice(ctx context.Context, tx *gorm.DB, payment *paymentdomain.Payment) error {
	invoice, err := s.invoiceRepo.FindPurchaseInvoice(ctx, tx, *payment.ReferenceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return paymentdomain.ErrInvoiceNotFound
	}
	if payment.SupplierID == nil {
		supplierID := invoice.SupplierID
		payment.SupplierID = &supplierID
	}

	paid, balance, status := reconcile(invoice.Total, invoice.Paid, payment.Amount, invoice.Status)
	return s.invoiceRepo.UpdatePurchasePayment(ctx, tx, invoice.ID, paid, balance, status)
}

func reconcile(total, paid, amount decimal.Decimal, status pricing.Status) (decimal.Decimal, decimal.Decimal, pricing.Status) {
	paid = paid.Add(amount)
	if paid.GreaterThanOrEqual(total) {
		status = pricing.StatusPaid
	}
	return paid, total.Sub(paid), status
}

// adjustCounterparty lowers the receivable or payable the payment settles.
func (s *Service) adjustCounterparty(ctx context.Context, tx *gorm.DB, payment paymentdomain.Payment) error {
	if payment.CustomerID != nil {
		delta := decimal.Zero
		if payment.Type == paymentdomain.PaymentTypeReceived {
			delta = payment.Amount.Neg()
		}
		found, err := s.customerRepo.AdjustBalance(ctx, tx, *payment.CustomerID, delta)
		if err != nil {
			return err
		}
		if !found {
			return paymentdomain.ErrCustomerNotFound
		}
	}
	if payment.SupplierID != nil {
		delta := decimal.Zero
		if payment.Type == paymentdomain.PaymentTypeMade {
			delta = payment.Amount.Neg()
		}
		found, err := s.supplierRepo.AdjustBalance(ctx, tx, *payment.SupplierID, delta)
		if err != nil {
			return err
		}
		if !found {
			return paymentdomain.ErrSupplierNotFound
		}
	}
	return nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]paymentdomain.RecentPayment, error) {
	switch {
	case limit < 0:
		return nil, paymentdomain.ErrInvalidLimit
	case limit == 0:
		limit = paymentdomain.DefaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	return s.repo.ListRecent(ctx, s.db, limit)
}

func (s *Service) List(ctx context.Context, req paymentdomain.ListPaymentRequest) (paymentdomain.ListPaymentResponse, error) {
	if req.Type != "" && !req.Type.Valid() {
		return paymentdomain.ListPaymentResponse{}, paymentdomain.ErrInvalidType
	}
	if req.ReferenceType != "" && !req.ReferenceType.Valid() {
		return paymentdomain.ListPaymentResponse{}, paymentdomain.ErrInvalidReferenceType
	}
	refID, err := optionalID(req.ReferenceID, paymentdomain.ErrInvalidReference)
	if err != nil {
		return paymentdomain.ListPaymentResponse{}, err
	}

	pageSize := option.NormalizePageSize(int(req.PageSize))
	items, err := s.repo.List(ctx, s.db, paymentdomain.PaymentFilter{
		Type:          req.Type,
		ReferenceType: req.ReferenceType,
		ReferenceID:   refID,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return paymentdomain.ListPaymentResponse{}, err
	}

	payments, pageInfo := pagination.Page(items, pageSize, func(p *paymentdomain.RecentPayment) string {
		return p.ID.String()
	})
	return paymentdomain.ListPaymentResponse{PageInfo: pageInfo, Payments: payments}, nil
}

func optionalID(value string, invalid error) (*snowflake.ID, error) {
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
