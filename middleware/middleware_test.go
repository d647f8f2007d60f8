package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketAllow(t *testing.T) {
	bucket := NewTokenBucket(1000, 3)

	// 突发容量内全部放行
	for i := 0; i < 3; i++ {
		assert.True(t, bucket.Allow())
	}
	assert.False(t, bucket.Allow())

	// 等待填充后恢复
	time.Sleep(5 * time.Millisecond)
	assert.True(t, bucket.Allow())
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/limited", IPRateLimiter(0.001, 2), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	doRequest := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, doRequest("10.0.0.1"))
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("10.0.0.1"))

	// 不同IP互不影响
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.2"))
}

func TestCacheMiddlewareServesCachedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	PurgeCache()

	hits := 0
	r := gin.New()
	r.GET("/cached", Cache(), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	get := func(path string) string {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	first := get("/cached")
	second := get("/cached")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)

	// 查询参数不同视为不同缓存键
	get("/cached?page=2")
	assert.Equal(t, 2, hits)

	PurgeCache()
	get("/cached")
	assert.Equal(t, 3, hits)
}

func TestCacheMiddlewareSkipsNonGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	PurgeCache()

	hits := 0
	r := gin.New()
	r.POST("/mutate", Cache(), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 2, hits)
}

func TestCacheKeyNormalizesQueryOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	makeCtx := func(target string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return c
	}

	a := defaultKeyFunc(makeCtx("/properties?city=sh&page=1"))
	b := defaultKeyFunc(makeCtx("/properties?page=1&city=sh"))
	assert.Equal(t, a, b)

	c := defaultKeyFunc(makeCtx(fmt.Sprintf("/properties?page=%d", 2)))
	assert.NotEqual(t, a, c)

	// 键必须以路径开头，按前缀清除才能命中
	assert.True(t, strings.HasPrefix(a, "/properties"))
}

func TestPurgeCacheByPrefixInvalidatesMatchingEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	PurgeCache()

	propertyHits := 0
	tenantHits := 0
	r := gin.New()
	r.GET("/api/properties", Cache(), func(c *gin.Context) {
		propertyHits++
		c.JSON(http.StatusOK, gin.H{"hits": propertyHits})
	})
	r.GET("/api/tenants", Cache(), func(c *gin.Context) {
		tenantHits++
		c.JSON(http.StatusOK, gin.H{"hits": tenantHits})
	})

	get := func(path string) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	get("/api/properties")
	get("/api/properties?page=2")
	get("/api/tenants")
	require.Equal(t, 2, propertyHits)
	require.Equal(t, 1, tenantHits)

	// 写入路径调用前缀清除后，列表必须重新回源
	PurgeCacheByPrefix("/api/properties")
	get("/api/properties")
	get("/api/properties?page=2")
	get("/api/tenants")
	assert.Equal(t, 4, propertyHits)
	assert.Equal(t, 1, tenantHits)
}
