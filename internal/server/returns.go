package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type returnItemRequest struct {
	ProductID        string          `json:"product_id"`
	ReturnedQuantity int64           `json:"returned_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	BatchNo          string          `json:"batch_no"`
	ExpiryDate       string          `json:"expiry_date"`
	ReturnReason     string          `json:"return_reason"`
}

type returnRequest struct {
	OriginalInvoiceID     string              `json:"original_invoice_id"`
	Items                 []returnItemRequest `json:"items"`
	DiscountPercentage    decimal.Decimal     `json:"discount_percentage"`
	TaxPercentage         decimal.Decimal     `json:"tax_percentage"`
	ExtraChargesDeduction decimal.Decimal     `json:"extra_charges_deduction"`
	RoundOff              decimal.Decimal     `json:"round_off"`
	RefundMethod          string              `json:"refund_method"`
	RefundAmount          *decimal.Decimal    `json:"refund_amount"`
	RefundStatus          string              `json:"refund_status"`
	ReturnReason          string              `json:"return_reason"`
	Notes                 string              `json:"notes"`
	CreatedBy             string              `json:"created_by"`
}

type createSaleReturnRequest struct {
	returnRequest
	CustomerName     string `json:"customer_name"`
	CustomerContact  string `json:"customer_contact"`
	StockDisposition string `json:"stock_adjustment_status"`
}

type createPurchaseReturnRequest struct {
	returnRequest
	SupplierName    string `json:"supplier_name"`
	SupplierContact string `json:"supplier_contact"`
}

// draft converts the fields shared by both return kinds.
func (r returnRequest) draft() (returndomain.ReturnDraft, error) {
	items := make([]returndomain.ReturnItemDraft, len(r.Items))
	for i, item := range r.Items {
		expiry, err := parseOptionalDate(item.ExpiryDate)
		if err != nil {
			return returndomain.ReturnDraft{}, newValidationError("expiry_date", "invalid_expiry_date", "invalid expiry_date")
		}
		items[i] = returndomain.ReturnItemDraft{
			ProductID:        strings.TrimSpace(item.ProductID),
			ReturnedQuantity: item.ReturnedQuantity,
			UnitPrice:        item.UnitPrice,
			BatchNo:          strings.TrimSpace(item.BatchNo),
			ExpiryDate:       expiry,
			ReturnReason:     strings.TrimSpace(item.ReturnReason),
		}
	}

	return returndomain.ReturnDraft{
		OriginalInvoiceID:     strings.TrimSpace(r.OriginalInvoiceID),
		Items:                 items,
		DiscountPercentage:    r.DiscountPercentage,
		TaxPercentage:         r.TaxPercentage,
		ExtraChargesDeduction: r.ExtraChargesDeduction,
		RoundOff:              r.RoundOff,
		RefundMethod:          returndomain.RefundMethod(strings.TrimSpace(r.RefundMethod)),
		RefundAmount:          r.RefundAmount,
		RefundStatus:          returndomain.RefundStatus(strings.TrimSpace(r.RefundStatus)),
		ReturnReason:          strings.TrimSpace(r.ReturnReason),
		Notes:                 strings.TrimSpace(r.Notes),
		CreatedBy:             strings.TrimSpace(r.CreatedBy),
	}, nil
}

func (s *Server) CreateSaleReturn(c *gin.Context) {
	var req createSaleReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := req.draft()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.returnSvc.CreateSaleReturn(c.Request.Context(), returndomain.SaleReturnDraft{
		ReturnDraft:      draft,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerContact:  strings.TrimSpace(req.CustomerContact),
		StockDisposition: returndomain.StockDisposition(strings.TrimSpace(req.StockDisposition)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("document_number", resp.ReturnNumber)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSaleReturns(c *gin.Context) {
	req, ok := bindReturnListQuery(c)
	if !ok {
		return
	}

	resp, err := s.returnSvc.ListSaleReturns(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSaleReturnByID(c *gin.Context) {
	resp, err := s.returnSvc.GetSaleReturn(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSaleReturnStats(c *gin.Context) {
	resp, err := s.returnSvc.SaleReturnStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePurchaseReturn(c *gin.Context) {
	var req createPurchaseReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := req.draft()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.returnSvc.CreatePurchaseReturn(c.Request.Context(), returndomain.PurchaseReturnDraft{
		ReturnDraft:     draft,
		SupplierName:    strings.TrimSpace(req.SupplierName),
		SupplierContact: strings.TrimSpace(req.SupplierContact),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("document_number", resp.ReturnNumber)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPurchaseReturns(c *gin.Context) {
	req, ok := bindReturnListQuery(c)
	if !ok {
		return
	}

	resp, err := s.returnSvc.ListPurchaseReturns(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchaseReturnByID(c *gin.Context) {
	resp, err := s.returnSvc.GetPurchaseReturn(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func bindReturnListQuery(c *gin.Context) (returndomain.ListReturnRequest, bool) {
	var query struct {
		pagination.Pagination
		RefundStatus      string `form:"refund_status"`
		OriginalInvoiceID string `form:"original_invoice_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return returndomain.ListReturnRequest{}, false
	}

	return returndomain.ListReturnRequest{
		PageToken:         query.PageToken,
		PageSize:          int32(query.PageSize),
		RefundStatus:      returndomain.RefundStatus(strings.TrimSpace(query.RefundStatus)),
		OriginalInvoiceID: strings.TrimSpace(query.OriginalInvoiceID),
	}, true
}

func isReturnValidationError(err error) bool {
	switch err {
	case returndomain.ErrInvalidID,
		returndomain.ErrInvalidOriginalInvoice,
		returndomain.ErrInvalidItems,
		returndomain.ErrInvalidProduct,
		returndomain.ErrInvalidReturnedQuantity,
		returndomain.ErrInvalidUnitPrice,
		returndomain.ErrInvalidDiscountPercentage,
		returndomain.ErrInvalidTaxPercentage,
		returndomain.ErrInvalidExtraChargesDeduction,
		returndomain.ErrInvalidRefundMethod,
		returndomain.ErrInvalidRefundAmount,
		returndomain.ErrInvalidRefundStatus,
		returndomain.ErrInvalidStockDisposition:
		return true
	default:
		return false
	}
}
