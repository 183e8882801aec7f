package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "1790000000000000000"})
	require.NoError(t, err)

	got, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "1790000000000000000", got.ID)

	_, err = DecodeCursor("%%%")
	assert.Error(t, err)
}

func TestPaginationSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Size())
	assert.Equal(t, MaxPageSize, Pagination{PageSize: 1000}.Size())
	assert.Equal(t, 7, Pagination{PageSize: 7}.Size())
}

func TestBuildCursorPageInfo(t *testing.T) {
	ids := []string{"a", "b", "c"}
	items := make([]*string, 0, len(ids))
	for i := range ids {
		items = append(items, &ids[i])
	}
	extract := func(s *string) string { return *s }

	page, info := BuildCursorPageInfo(items, 2, extract)
	assert.Len(t, page, 2)
	assert.True(t, info.HasMore)
	assert.Equal(t, "b", info.NextPageToken)

	page, info = BuildCursorPageInfo(items, 3, extract)
	assert.Len(t, page, 3)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)
}
