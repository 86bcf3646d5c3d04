package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/samuelcg20/Apt/internal/pagination"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"Defaults", "", 1, 10},
		{"Explicit", "?page=3&limit=5", 3, 5},
		{"NonNumeric", "?page=abc&limit=xyz", 1, 10},
		{"NonPositive", "?page=0&limit=-4", 1, 10},
		{"CappedLimit", "?limit=1000", 1, 100},
		{"HugePage", "?page=1000000000000000000&limit=10", pagination.MaxPage, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/tasks"+tt.query, nil)
			p := pagination.FromRequest(req)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.GreaterOrEqual(t, p.Offset(), 0)
		})
	}
}

func TestResult_PagesIsCeiling(t *testing.T) {
	for total := 0; total <= 35; total++ {
		for limit := 1; limit <= 12; limit++ {
			p := pagination.Normalize(1, limit)
			res := p.Result(total)

			want := total / limit
			if total%limit != 0 {
				want++
			}
			assert.Equal(t, want, res.Pages, "total=%d limit=%d", total, limit)
			assert.Equal(t, total, res.Total)
		}
	}
}

func TestWindow_NeverExceedsLimit(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	for page := 1; page <= 6; page++ {
		for limit := 1; limit <= 10; limit++ {
			p := pagination.Normalize(page, limit)
			got := pagination.Window(items, p.Offset(), p.Limit)
			assert.LessOrEqual(t, len(got), limit)
			if len(got) > 0 {
				assert.Equal(t, p.Offset(), got[0])
			}
		}
	}

	assert.Empty(t, pagination.Window(items, 100, 10))
	assert.Len(t, pagination.Window(items, 20, 0), 3, "zero limit means all remaining")
}

func TestWindow_OutOfRangeOffsetIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}

	assert.Empty(t, pagination.Window(items, -5, 10))

	huge := pagination.Normalize(1000000000000000000, pagination.MaxLimit)
	assert.NotPanics(t, func() {
		assert.Empty(t, pagination.Window(items, huge.Offset(), huge.Limit))
	})
}
