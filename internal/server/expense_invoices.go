package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/pagination"
)

type updateInvoiceRequest struct {
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
	expensedomain.InvoicePayload
}

type addLineRequest struct {
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
	expensedomain.LineInput
}

type combineRequest struct {
	ExpectedVersion  *int64  `json:"expected_version,omitempty"`
	RemarksSeparator *string `json:"remarks_separator,omitempty"`
}

func (s *Server) CreateExpenseInvoice(c *gin.Context) {
	var req expensedomain.InvoicePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.IdempotencyKey == nil {
		if key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)); key != "" {
			req.IdempotencyKey = &key
		}
	}

	resp, err := s.expenseSvc.CreateOrUpdateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PreviewExpenseInvoice(c *gin.Context) {
	var req expensedomain.InvoicePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.PreviewInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenseInvoices(c *gin.Context) {
	var query expensedomain.ListInvoicesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.ListInvoices(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Invoices,
		"page_info": resp.PageInfo,
	})
}

func (s *Server) GetExpenseInvoice(c *gin.Context) {
	resp, err := s.expenseSvc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateExpenseInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.UpdateInvoice(c.Request.Context(), expensedomain.UpdateInvoiceRequest{
		ID:              c.Param("id"),
		ExpectedVersion: req.ExpectedVersion,
		Payload:         req.InvoicePayload,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpenseInvoice(c *gin.Context) {
	expected, err := expectedVersionQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.expenseSvc.DeleteInvoice(c.Request.Context(), expensedomain.DeleteInvoiceRequest{
		ID:              c.Param("id"),
		ExpectedVersion: expected,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) AddExpenseLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.AddLine(c.Request.Context(), expensedomain.AddLineRequest{
		InvoiceID:       c.Param("id"),
		ExpectedVersion: req.ExpectedVersion,
		Line:            req.LineInput,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CombineExpenseLines(c *gin.Context) {
	var req combineRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.expenseSvc.CombineDuplicates(c.Request.Context(), expensedomain.CombineRequest{
		InvoiceID:        c.Param("id"),
		ExpectedVersion:  req.ExpectedVersion,
		RemarksSeparator: req.RemarksSeparator,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenseAuditLogs(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Action string `form:"action"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.ListAuditEntries(c.Request.Context(), auditdomain.ListAuditEntriesRequest{
		Pagination: query.Pagination,
		InvoiceID:  c.Param("id"),
		Action:     query.Action,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Entries,
		"page_info": resp.PageInfo,
	})
}
