package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	returndomain "github.com/smallbiznis/retailbook/internal/returns/domain"
	settingdomain "github.com/smallbiznis/retailbook/internal/setting/domain"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Retryable bool              `json:"retryable,omitempty"`
	ProductID string            `json:"product_id,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	var stockErr *inventorydomain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:      "insufficient_stock",
			Message:   "insufficient stock",
			ProductID: stockErr.ProductID.String(),
		}
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "insufficient_stock",
			Message: "insufficient stock",
		}
	case docnumber.IsRetryable(err):
		return http.StatusConflict, errorPayload{
			Type:      "conflict",
			Message:   "document number already taken",
			Retryable: true,
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, productdomain.ErrDuplicateSKU):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case db.IsForeignKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "referenced record does not exist",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFoundMessage(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code written to the
// access log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError {
		return "internal", code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, option.ErrInvalidPageToken):
		return true
	case isProductValidationError(err),
		isCustomerValidationError(err),
		isSupplierValidationError(err),
		isInventoryValidationError(err),
		isInvoiceValidationError(err),
		isReturnValidationError(err),
		isPaymentValidationError(err),
		isExpenseValidationError(err),
		isSettingValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, supplierdomain.ErrNotFound),
		errors.Is(err, inventorydomain.ErrProductNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrCustomerNotFound),
		errors.Is(err, invoicedomain.ErrSupplierNotFound),
		errors.Is(err, returndomain.ErrNotFound),
		errors.Is(err, returndomain.ErrOriginalInvoiceNotFound),
		errors.Is(err, paymentdomain.ErrInvoiceNotFound),
		errors.Is(err, paymentdomain.ErrCustomerNotFound),
		errors.Is(err, paymentdomain.ErrSupplierNotFound),
		errors.Is(err, settingdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		inventorydomain.ErrProductNotFound,
		invoicedomain.ErrCustomerNotFound,
		invoicedomain.ErrSupplierNotFound,
		returndomain.ErrOriginalInvoiceNotFound,
		paymentdomain.ErrInvoiceNotFound,
		paymentdomain.ErrCustomerNotFound,
		paymentdomain.ErrSupplierNotFound,
	} {
		if errors.Is(err, target) {
			return strings.ReplaceAll(target.Error(), "_", " ")
		}
	}
	return "not found"
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

func isInventoryValidationError(err error) bool {
	switch err {
	case inventorydomain.ErrInvalidProductID,
		inventorydomain.ErrInvalidDelta,
		inventorydomain.ErrInvalidSourceType,
		inventorydomain.ErrInvalidSourceID:
		return true
	default:
		return false
	}
}
