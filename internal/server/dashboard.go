package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardStats(c *gin.Context) {
	resp, err := s.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDashboardRecentPayments(c *gin.Context) {
	limit, err := queryLimit(c, 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.dashboardSvc.RecentPayments(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
