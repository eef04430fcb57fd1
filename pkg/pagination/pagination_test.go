package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestParamsValidate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestCursorRoundTrip(t *testing.T) {
	type row struct {
		id string
		at time.Time
	}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := []row{{"a", now}, {"b", now.Add(-time.Minute)}, {"c", now.Add(-2 * time.Minute)}}

	res := NewCursorResult(rows, 2, func(r row) (string, time.Time) { return r.id, r.at })
	require.True(t, res.HasMore)
	require.Len(t, res.Items, 2)
	require.NotNil(t, res.NextCursor)

	params := CursorParams{Cursor: *res.NextCursor}
	cur, err := params.Decode()
	require.NoError(t, err)
	assert.Equal(t, "b", cur.ID)
	assert.True(t, cur.CreatedAt.Equal(now.Add(-time.Minute)))

	_, err = (&CursorParams{Cursor: "%%%"}).Decode()
	assert.Error(t, err)
}
