package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
)

type createSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

func (s *Server) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.supplierSvc.Create(c.Request.Context(), supplierdomain.CreateSupplierRequest{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSuppliers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name  string `form:"name"`
		Phone string `form:"phone"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supplierSvc.List(c.Request.Context(), supplierdomain.ListSupplierRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Name:      strings.TrimSpace(query.Name),
		Phone:     strings.TrimSpace(query.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSupplierByID(c *gin.Context) {
	resp, err := s.supplierSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSupplierValidationError(err error) bool {
	switch err {
	case supplierdomain.ErrInvalidName,
		supplierdomain.ErrInvalidEmail,
		supplierdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
