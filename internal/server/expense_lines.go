package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	attachmentdomain "github.com/smallbiznis/tradeledger/internal/attachment/domain"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
)

type attachFileRequest struct {
	SourcePath string `json:"source_path"`
}

func (s *Server) UpdateExpenseLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.UpdateLine(c.Request.Context(), expensedomain.UpdateLineRequest{
		LineID:          c.Param("id"),
		ExpectedVersion: req.ExpectedVersion,
		Line:            req.LineInput,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpenseLine(c *gin.Context) {
	expected, err := expectedVersionQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.expenseSvc.DeleteLine(c.Request.Context(), expensedomain.DeleteLineRequest{
		LineID:          c.Param("id"),
		ExpectedVersion: expected,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AttachExpenseFile(c *gin.Context) {
	var req attachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.attachmentSvc.AttachFile(c.Request.Context(), attachmentdomain.AttachRequest{
		LineID:     c.Param("id"),
		SourcePath: req.SourcePath,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenseAttachments(c *gin.Context) {
	resp, err := s.attachmentSvc.ListForLine(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
