package app

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestGetPageBounds(t *testing.T) {
	assert.Equal(t, 1, GetPage(newTestContext(t, "/?page=0")))
	assert.Equal(t, 1, GetPage(newTestContext(t, "/?page=-3")))
	assert.Equal(t, 1, GetPage(newTestContext(t, "/")))
	assert.Equal(t, 7, GetPage(newTestContext(t, "/?page=7")))
}

func TestGetPageSizeBounds(t *testing.T) {
	cfg := PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100}

	assert.Equal(t, 10, GetPageSizeWithConfig(newTestContext(t, "/"), cfg))
	assert.Equal(t, 10, GetPageSizeWithConfig(newTestContext(t, "/?pageSize=0"), cfg))
	assert.Equal(t, 25, GetPageSizeWithConfig(newTestContext(t, "/?pageSize=25"), cfg))
	// 超过上限裁剪到 MaxPageSize
	assert.Equal(t, 100, GetPageSizeWithConfig(newTestContext(t, "/?pageSize=9999"), cfg))
}

func TestGetPageOffset(t *testing.T) {
	assert.Equal(t, 0, GetPageOffset(1, 10))
	assert.Equal(t, 10, GetPageOffset(2, 10))
	assert.Equal(t, 0, GetPageOffset(0, 10))
}
