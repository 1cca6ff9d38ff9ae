package constants

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePaginationParamsClamps(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 10, 0},
		{"?page=3&limit=20", 3, 20, 40},
		{"?page=0&limit=0", 1, 1, 0},
		{"?page=2&limit=1000", 2, 100, 100},
		{"?page=abc", 1, 10, 0},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)

		p := ParsePaginationParams(c)
		assert.Equal(t, tt.wantPage, p.Page, tt.query)
		assert.Equal(t, tt.wantLimit, p.Limit, tt.query)
		assert.Equal(t, tt.wantOffset, p.Offset, tt.query)
	}
}

func TestBuildListResponse(t *testing.T) {
	resp := BuildListResponse([]string{"a", "b"}, 25, PaginationParams{Page: 2, Limit: 10})

	assert.Equal(t, 3, resp[ResponseFieldTotalPages])
	assert.Equal(t, true, resp[ResponseFieldHasNextPage])
	assert.Equal(t, true, resp[ResponseFieldHasPrevPage])

	last := BuildListResponse(nil, 25, PaginationParams{Page: 3, Limit: 10})
	assert.Equal(t, false, last[ResponseFieldHasNextPage])
}
