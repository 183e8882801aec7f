package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/tradeledger/internal/reporting/domain"
)

type rollupFunc func(ctx context.Context, filter reportingdomain.ReportFilter) (reportingdomain.RollupResponse, error)

func (s *Server) ReportByExpenseType(c *gin.Context) {
	s.serveRollup(c, s.reportSvc.ByExpenseType)
}

func (s *Server) ReportByServiceProvider(c *gin.Context) {
	s.serveRollup(c, s.reportSvc.ByServiceProvider)
}

func (s *Server) ReportByShipment(c *gin.Context) {
	s.serveRollup(c, s.reportSvc.ByShipment)
}

func (s *Server) ReportByMonth(c *gin.Context) {
	s.serveRollup(c, s.reportSvc.ByMonth)
}

func (s *Server) serveRollup(c *gin.Context, fn rollupFunc) {
	var filter reportingdomain.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := fn(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReportGSTSummary(c *gin.Context) {
	var filter reportingdomain.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.GSTSummary(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
