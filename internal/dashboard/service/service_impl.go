package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/retailbook/internal/clock"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/retailbook/internal/dashboard/domain"
	expensedomain "github.com/smallbiznis/retailbook/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	InvoiceRepo  invoicedomain.Repository
	PaymentRepo  paymentdomain.Repository
	ExpenseRepo  expensedomain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	Products     productdomain.Service
	Payments     paymentdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	invoiceRepo  invoicedomain.Repository
	paymentRepo  paymentdomain.Repository
	expenseRepo  expensedomain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	products     productdomain.Service
	payments     paymentdomain.Service
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("dashboard.service"),
		clock:        p.Clock,
		invoiceRepo:  p.InvoiceRepo,
		paymentRepo:  p.PaymentRepo,
		expenseRepo:  p.ExpenseRepo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		products:     p.Products,
		payments:     p.Payments,
	}
}

func (s *Service) Stats(ctx context.Context) (dashboarddomain.Stats, error) {
	from := clock.StartOfDay(s.clock.Now())
	to := from.AddDate(0, 0, 1)

	var (
		stats = dashboarddomain.Stats{Date: from}
		err   error
	)
	if stats.TodaySales, err = s.invoiceRepo.SaleTotalBetween(ctx, s.db, from, to); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("today sales: %w", err)
	}
	if stats.TodayPurchases, err = s.invoiceRepo.PurchaseTotalBetween(ctx, s.db, from, to); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("today purchases: %w", err)
	}
	if stats.TodayExpenses, err = s.expenseRepo.SumBetween(ctx, s.db, from, to); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("today expenses: %w", err)
	}
	if stats.TodayReceived, err = s.paymentRepo.SumBetween(ctx, s.db, paymentdomain.PaymentTypeReceived, from, to); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("today received: %w", err)
	}
	if stats.TodayPaidOut, err = s.paymentRepo.SumBetween(ctx, s.db, paymentdomain.PaymentTypeMade, from, to); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("today paid out: %w", err)
	}
	if stats.CustomerBalances, err = s.customerRepo.TotalBalance(ctx, s.db); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("customer balances: %w", err)
	}
	if stats.CashInHand, err = s.paymentRepo.CashInHand(ctx, s.db); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("cash in hand: %w", err)
	}
	if stats.ProductCount, err = s.productRepo.Count(ctx, s.db); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("product count: %w", err)
	}
	if stats.SaleInvoiceCount, err = s.invoiceRepo.CountSaleInvoices(ctx, s.db); err != nil {
		return dashboarddomain.Stats{}, fmt.Errorf("sale invoice count: %w", err)
	}

	return stats, nil
}

func (s *Service) OutOfStock(ctx context.Context) ([]productdomain.Product, error) {
	return s.products.ListOutOfStock(ctx)
}

func (s *Service) LowStock(ctx context.Context) ([]productdomain.Product, error) {
	return s.products.ListLowStock(ctx)
}

func (s *Service) RecentPayments(ctx context.Context, limit int) ([]paymentdomain.RecentPayment, error) {
	return s.payments.ListRecent(ctx, limit)
}
