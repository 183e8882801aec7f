package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// expectedVersionQuery reads the optimistic-lock guard used by DELETE
// routes, which carry no body.
func expectedVersionQuery(c *gin.Context) (*int64, error) {
	raw := strings.TrimSpace(c.Query("expected_version"))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return nil, newValidationError("expected_version", "invalid_expected_version", "expected_version must be a positive integer")
	}
	return &v, nil
}

func boolQuery(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, newValidationError(key, "invalid_"+key, key+" must be true or false")
	}
	return &v, nil
}

// trimmed returns nil for nil and a trimmed copy otherwise; an explicit
// empty string survives so PATCH can clear a field.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
