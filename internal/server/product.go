package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	inventorydomain "github.com/smallbiznis/retailbook/internal/inventory/domain"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type createProductRequest struct {
	Name            string           `json:"name"`
	SKU             string           `json:"sku"`
	Category        string           `json:"category"`
	SubCategory     string           `json:"sub_category"`
	Brand           string           `json:"brand"`
	Unit            string           `json:"unit"`
	ConversionRate  *decimal.Decimal `json:"conversion_rate"`
	ConversionUnit  string           `json:"conversion_unit"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	SalePrice       *decimal.Decimal `json:"sale_price"`
	WholesalePrice  decimal.Decimal  `json:"wholesale_price"`
	Stock           int64            `json:"stock"`
	ReorderLevel    *int64           `json:"reorder_level"`
	SupplierID      string           `json:"supplier_id"`
	Status          string           `json:"status"`
	ExpiryDate      string           `json:"expiry_date"`
	ManufactureDate string           `json:"manufacture_date"`
	Description     string           `json:"description"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if !bindJSON(c, &req) {
		return
	}

	supplierID, err := parseOptionalSnowflakeID(req.SupplierID)
	if err != nil {
		AbortWithError(c, newValidationError("supplier_id", "invalid_supplier_id", "invalid supplier_id"))
		return
	}
	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		AbortWithError(c, newValidationError("expiry_date", "invalid_expiry_date", "invalid expiry_date"))
		return
	}
	manufactured, err := parseOptionalDate(req.ManufactureDate)
	if err != nil {
		AbortWithError(c, newValidationError("manufacture_date", "invalid_manufacture_date", "invalid manufacture_date"))
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:            strings.TrimSpace(req.Name),
		SKU:             strings.TrimSpace(req.SKU),
		Category:        strings.TrimSpace(req.Category),
		SubCategory:     strings.TrimSpace(req.SubCategory),
		Brand:           strings.TrimSpace(req.Brand),
		Unit:            strings.TrimSpace(req.Unit),
		ConversionRate:  req.ConversionRate,
		ConversionUnit:  strings.TrimSpace(req.ConversionUnit),
		CostPrice:       req.CostPrice,
		SalePrice:       req.SalePrice,
		WholesalePrice:  req.WholesalePrice,
		Stock:           req.Stock,
		ReorderLevel:    req.ReorderLevel,
		SupplierID:      supplierID,
		Status:          productdomain.Status(strings.TrimSpace(req.Status)),
		ExpiryDate:      expiry,
		ManufactureDate: manufactured,
		Description:     strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProductRequest struct {
	Name            *string          `json:"name"`
	SKU             *string          `json:"sku"`
	Category        *string          `json:"category"`
	SubCategory     *string          `json:"sub_category"`
	Brand           *string          `json:"brand"`
	Unit            *string          `json:"unit"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	SalePrice       *decimal.Decimal `json:"sale_price"`
	WholesalePrice  *decimal.Decimal `json:"wholesale_price"`
	ReorderLevel    *int64           `json:"reorder_level"`
	Status          *string          `json:"status"`
	ExpiryDate      string           `json:"expiry_date"`
	ManufactureDate string           `json:"manufacture_date"`
	Description     *string          `json:"description"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		AbortWithError(c, newValidationError("expiry_date", "invalid_expiry_date", "invalid expiry_date"))
		return
	}
	manufactured, err := parseOptionalDate(req.ManufactureDate)
	if err != nil {
		AbortWithError(c, newValidationError("manufacture_date", "invalid_manufacture_date", "invalid manufacture_date"))
		return
	}

	var status *productdomain.Status
	if req.Status != nil {
		value := productdomain.Status(strings.TrimSpace(*req.Status))
		status = &value
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:              strings.TrimSpace(c.Param("id")),
		Name:            req.Name,
		SKU:             req.SKU,
		Category:        req.Category,
		SubCategory:     req.SubCategory,
		Brand:           req.Brand,
		Unit:            req.Unit,
		CostPrice:       req.CostPrice,
		SalePrice:       req.SalePrice,
		WholesalePrice:  req.WholesalePrice,
		ReorderLevel:    req.ReorderLevel,
		Status:          status,
		ExpiryDate:      expiry,
		ManufactureDate: manufactured,
		Description:     req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name     string `form:"name"`
		Category string `form:"category"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Name:      strings.TrimSpace(query.Name),
		Category:  strings.TrimSpace(query.Category),
		Status:    productdomain.Status(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.productSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOutOfStockProducts(c *gin.Context) {
	resp, err := s.dashboardSvc.OutOfStock(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLowStockProducts(c *gin.Context) {
	resp, err := s.dashboardSvc.LowStock(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStockMovements(c *gin.Context) {
	limit, err := queryLimit(c, 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ledger.ListMovements(c.Request.Context(), strings.TrimSpace(c.Param("id")), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type adjustStockRequest struct {
	Delta int64  `json:"delta"`
	Note  string `json:"note"`
}

func (s *Server) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.ledger.AdjustStock(c.Request.Context(), inventorydomain.AdjustStockRequest{
		ProductID: strings.TrimSpace(c.Param("id")),
		Delta:     req.Delta,
		Note:      strings.TrimSpace(req.Note),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProductValidationError(err error) bool {
	switch err {
	case productdomain.ErrInvalidID,
		productdomain.ErrInvalidName,
		productdomain.ErrInvalidCategory,
		productdomain.ErrInvalidCostPrice,
		productdomain.ErrInvalidSalePrice,
		productdomain.ErrInvalidPrice,
		productdomain.ErrInvalidStatus,
		productdomain.ErrInvalidReorderLevel,
		productdomain.ErrInvalidStock:
		return true
	default:
		return false
	}
}
