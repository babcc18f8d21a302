package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type createPaymentRequest struct {
	Type          string          `json:"type"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	CustomerID    string          `json:"customer_id"`
	SupplierID    string          `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.PaymentDraft{
		Type:          paymentdomain.PaymentType(strings.TrimSpace(req.Type)),
		ReferenceType: paymentdomain.ReferenceType(strings.TrimSpace(req.ReferenceType)),
		ReferenceID:   strings.TrimSpace(req.ReferenceID),
		CustomerID:    strings.TrimSpace(req.CustomerID),
		SupplierID:    strings.TrimSpace(req.SupplierID),
		Amount:        req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Type          string `form:"type"`
		ReferenceType string `form:"reference_type"`
		ReferenceID   string `form:"reference_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageToken:     query.PageToken,
		PageSize:      int32(query.PageSize),
		Type:          paymentdomain.PaymentType(strings.TrimSpace(query.Type)),
		ReferenceType: paymentdomain.ReferenceType(strings.TrimSpace(query.ReferenceType)),
		ReferenceID:   strings.TrimSpace(query.ReferenceID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRecentPayments(c *gin.Context) {
	limit, err := queryLimit(c, paymentdomain.DefaultRecentLimit)
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidLimit)
		return
	}

	resp, err := s.paymentSvc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidType,
		paymentdomain.ErrInvalidReferenceType,
		paymentdomain.ErrInvalidReference,
		paymentdomain.ErrInvalidCustomer,
		paymentdomain.ErrInvalidSupplier,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidLimit:
		return true
	default:
		return false
	}
}
