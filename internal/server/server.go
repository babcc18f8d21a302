package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/retailbook/internal/config"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/retailbook/internal/dashboard/domain"
	expensedomain "github.com/smallbiznis/retailbook/internal/expense/domain"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	"github.com/smallbiznis/retailbook/internal/observability"
	obsmiddleware "github.com/smallbiznis/retailbook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/retailbook/internal/observability/metrics"
	obstracing "github.com/smallbiznis/retailbook/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	settingdomain "github.com/smallbiznis/retailbook/internal/setting/domain"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.AccessLogConfig{
		Debug:    obsCfg.Debug(),
		Classify: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	productSvc   productdomain.Service
	customerSvc  customerdomain.Service
	supplierSvc  supplierdomain.Service
	ledger       inventorydomain.Ledger
	invoiceSvc   invoicedomain.Service
	returnSvc    returndomain.Service
	paymentSvc   paymentdomain.Service
	expenseSvc   expensedomain.Service
	settingSvc   settingdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	ProductSvc   productdomain.Service
	CustomerSvc  customerdomain.Service
	SupplierSvc  supplierdomain.Service
	Ledger       inventorydomain.Ledger
	InvoiceSvc   invoicedomain.Service
	ReturnSvc    returndomain.Service
	PaymentSvc   paymentdomain.Service
	ExpenseSvc   expensedomain.Service
	SettingSvc   settingdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		productSvc:   p.ProductSvc,
		customerSvc:  p.CustomerSvc,
		supplierSvc:  p.SupplierSvc,
		ledger:       p.Ledger,
		invoiceSvc:   p.InvoiceSvc,
		returnSvc:    p.ReturnSvc,
		paymentSvc:   p.PaymentSvc,
		expenseSvc:   p.ExpenseSvc,
		settingSvc:   p.SettingSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Product --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/out-of-stock", s.ListOutOfStockProducts)
	api.GET("/products/low-stock", s.ListLowStockProducts)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.GET("/products/:id/movements", s.ListStockMovements)
	api.POST("/products/:id/stock-adjustments", s.AdjustStock)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)

	// -------- Suppliers --------
	api.GET("/suppliers", s.ListSuppliers)
	api.POST("/suppliers", s.CreateSupplier)
	api.GET("/suppliers/:id", s.GetSupplierByID)

	// -------- Sale Invoices --------
	api.GET("/sale-invoices", s.ListSaleInvoices)
	api.POST("/sale-invoices", s.CreateSaleInvoice)
	api.GET("/sale-invoices/stats", s.GetSaleInvoiceStats)
	api.GET("/sale-invoices/:id", s.GetSaleInvoiceByID)

	// -------- Purchase Invoices --------
	api.GET("/purchase-invoices", s.ListPurchaseInvoices)
	api.POST("/purchase-invoices", s.CreatePurchaseInvoice)
	api.GET("/purchase-invoices/stats", s.GetPurchaseInvoiceStats)
	api.GET("/purchase-invoices/:id", s.GetPurchaseInvoiceByID)

	// -------- Returns --------
	api.GET("/sale-returns", s.ListSaleReturns)
	api.POST("/sale-returns", s.CreateSaleReturn)
	api.GET("/sale-returns/stats", s.GetSaleReturnStats)
	api.GET("/sale-returns/:id", s.GetSaleReturnByID)

	api.GET("/purchase-returns", s.ListPurchaseReturns)
	api.POST("/purchase-returns", s.CreatePurchaseReturn)
	api.GET("/purchase-returns/:id", s.GetPurchaseReturnByID)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.CreatePayment)
	api.GET("/payments/recent", s.ListRecentPayments)

	// -------- Expenses --------
	api.GET("/expenses", s.ListExpenses)
	api.POST("/expenses", s.CreateExpense)

	// -------- Settings --------
	api.GET("/settings", s.ListSettings)
	api.GET("/settings/:key", s.GetSetting)
	api.PUT("/settings/:key", s.UpdateSetting)

	// -------- Dashboard --------
	api.GET("/dashboard/stats", s.GetDashboardStats)
	api.GET("/dashboard/recent-payments", s.GetDashboardRecentPayments)
}
