package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type saleInvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type createSaleInvoiceRequest struct {
	CustomerID    string                   `json:"customer_id"`
	Items         []saleInvoiceItemRequest `json:"items"`
	DiscountType  string                   `json:"discount_type"`
	Discount      decimal.Decimal          `json:"discount"`
	ExtraCharges  pricing.ExtraCharges     `json:"extra_charges"`
	TaxEnabled    bool                     `json:"tax_enabled"`
	TaxRate       decimal.Decimal          `json:"tax_rate"`
	RoundOff      bool                     `json:"round_off"`
	Paid          decimal.Decimal          `json:"paid"`
	PaymentMethod string                   `json:"payment_method"`
	Notes         string                   `json:"notes"`
}

func (s *Server) CreateSaleInvoice(c *gin.Context) {
	var req createSaleInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]invoicedomain.SaleInvoiceItemDraft, len(req.Items))
	for i, item := range req.Items {
		items[i] = invoicedomain.SaleInvoiceItemDraft{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
	}

	resp, err := s.invoiceSvc.CreateSaleInvoice(c.Request.Context(), invoicedomain.SaleInvoiceDraft{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		Items:         items,
		DiscountType:  pricing.DiscountType(strings.TrimSpace(req.DiscountType)),
		Discount:      req.Discount,
		Charges:       req.ExtraCharges,
		TaxEnabled:    req.TaxEnabled,
		TaxRate:       req.TaxRate,
		RoundOff:      req.RoundOff,
		Paid:          req.Paid,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("document_number", resp.InvoiceNumber)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSaleInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.ListSaleInvoices(c.Request.Context(), invoicedomain.ListSaleInvoiceRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		Status:     pricing.Status(strings.TrimSpace(query.Status)),
		CustomerID: strings.TrimSpace(query.CustomerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSaleInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetSaleInvoice(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSaleInvoiceStats(c *gin.Context) {
	resp, err := s.invoiceSvc.SaleInvoiceStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type purchaseInvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type createPurchaseInvoiceRequest struct {
	SupplierID    string                       `json:"supplier_id"`
	Items         []purchaseInvoiceItemRequest `json:"items"`
	DiscountType  string                       `json:"discount_type"`
	Discount      decimal.Decimal              `json:"discount"`
	TaxEnabled    bool                         `json:"tax_enabled"`
	TaxRate       decimal.Decimal              `json:"tax_rate"`
	Shipping      decimal.Decimal              `json:"shipping"`
	Paid          decimal.Decimal              `json:"paid"`
	PaymentMethod string                       `json:"payment_method"`
	Notes         string                       `json:"notes"`
}

func (s *Server) CreatePurchaseInvoice(c *gin.Context) {
	var req createPurchaseInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]invoicedomain.PurchaseInvoiceItemDraft, len(req.Items))
	for i, item := range req.Items {
		items[i] = invoicedomain.PurchaseInvoiceItemDraft{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		}
	}

	resp, err := s.invoiceSvc.CreatePurchaseInvoice(c.Request.Context(), invoicedomain.PurchaseInvoiceDraft{
		SupplierID:    strings.TrimSpace(req.SupplierID),
		Items:         items,
		DiscountType:  pricing.DiscountType(strings.TrimSpace(req.DiscountType)),
		Discount:      req.Discount,
		TaxEnabled:    req.TaxEnabled,
		TaxRate:       req.TaxRate,
		Shipping:      req.Shipping,
		Paid:          req.Paid,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("document_number", resp.InvoiceNumber)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPurchaseInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status     string `form:"status"`
		SupplierID string `form:"supplier_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.ListPurchaseInvoices(c.Request.Context(), invoicedomain.ListPurchaseInvoiceRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		Status:     pricing.Status(strings.TrimSpace(query.Status)),
		SupplierID: strings.TrimSpace(query.SupplierID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchaseInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetPurchaseInvoice(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchaseInvoiceStats(c *gin.Context) {
	resp, err := s.invoiceSvc.PurchaseInvoiceStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidCustomer,
		invoicedomain.ErrInvalidSupplier,
		invoicedomain.ErrInvalidItems,
		invoicedomain.ErrInvalidProduct,
		invoicedomain.ErrInvalidQuantity,
		invoicedomain.ErrInvalidUnitPrice,
		invoicedomain.ErrInvalidUnitCost,
		invoicedomain.ErrInvalidDiscount,
		invoicedomain.ErrInvalidDiscountType,
		invoicedomain.ErrInvalidTaxRate,
		invoicedomain.ErrInvalidShipping,
		invoicedomain.ErrInvalidPaid,
		invoicedomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
