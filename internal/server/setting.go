package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	settingdomain "github.com/smallbiznis/retailbook/internal/setting/domain"
)

func (s *Server) ListSettings(c *gin.Context) {
	resp, err := s.settingSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSetting(c *gin.Context) {
	resp, err := s.settingSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSettingRequest struct {
	Value *string `json:"value"`
}

func (s *Server) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settingSvc.Set(c.Request.Context(), c.Param("key"), *req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSettingValidationError(err error) bool {
	return err == settingdomain.ErrInvalidKey
}
