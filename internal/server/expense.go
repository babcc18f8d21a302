package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	expensedomain "github.com/smallbiznis/retailbook/internal/expense/domain"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type createExpenseRequest struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), expensedomain.CreateExpenseRequest{
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Category string `form:"category"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Category:  strings.TrimSpace(query.Category),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isExpenseValidationError(err error) bool {
	switch err {
	case expensedomain.ErrInvalidCategory,
		expensedomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}
