package correlation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "req-1")
	ctx, cid := EnsureCorrelationID(ctx)
	assert.Equal(t, "req-1", cid)
	assert.Equal(t, "req-1", ExtractCorrelationID(ctx))
}

func TestEnsureCorrelationIDGenerates(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())
	assert.Len(t, cid, 26)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))
}

func TestAccept(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"  req-1  ":              "req-1",
		"7f1c2d:trace.01_A":      "7f1c2d:trace.01_A",
		"bad value":              "",
		"inject\r\nX-Evil: 1":    "",
		strings.Repeat("a", 129): "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Accept(in), "input %q", in)
	}
}
