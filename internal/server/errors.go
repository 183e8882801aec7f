package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	attachmentdomain "github.com/smallbiznis/tradeledger/internal/attachment/domain"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	reportingdomain "github.com/smallbiznis/tradeledger/internal/reporting/domain"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
)

type ValidationError struct {
	Field     string `json:"field,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	LineIndex *int   `json:"line_index,omitempty"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
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

	var vErrs *ValidationErrors
	if errors.As(err, &vErrs) && vErrs != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs.Errors,
		}
	}

	var expenseErr *expensedomain.ValidationError
	if errors.As(err, &expenseErr) {
		detail := ValidationError{
			Field:   expenseErr.Field,
			Code:    validationCode(expenseErr),
			Message: expenseErr.Message,
		}
		if expenseErr.LineIndex >= 0 {
			idx := expenseErr.LineIndex
			detail.LineIndex = &idx
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: expenseErr.Message,
			Errors:  []ValidationError{detail},
		}
	}

	if code, ok := domainValidationCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  []ValidationError{{Code: code, Message: err.Error()}},
		}
	}

	var conflict *expensedomain.ConflictError
	switch {
	case errors.As(err, &conflict):
		return http.StatusConflict, errorPayload{
			Type:    "version_conflict",
			Message: conflict.Error(),
		}
	case errors.Is(err, taxdomain.ErrDuplicateName),
		errors.Is(err, taxdomain.ErrExpenseTypeInUse):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, expensedomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, attachmentdomain.ErrLineNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func validationCode(err *expensedomain.ValidationError) string {
	if err.Kind != nil {
		return err.Kind.Error()
	}
	return expensedomain.ErrValidation.Error()
}

func domainValidationCode(err error) (string, bool) {
	for _, kind := range []error{
		ErrInvalidRequest,
		taxdomain.ErrInvalidName,
		taxdomain.ErrInvalidID,
		taxdomain.ErrInvalidTaxRate,
		attachmentdomain.ErrInvalidLine,
		attachmentdomain.ErrInvalidSourcePath,
		attachmentdomain.ErrSourceNotFound,
		reportingdomain.ErrInvalidDateRange,
		reportingdomain.ErrInvalidExpenseType,
		reportingdomain.ErrInvalidCurrency,
	} {
		if errors.Is(err, kind) {
			return kind.Error(), true
		}
	}
	return "", false
}

// classifyErrorForLog returns the response type and a stable code for the
// request log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 && payload.Errors[0].Code != "" {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
