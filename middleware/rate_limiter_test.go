package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"meytle/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimitPerIP(t *testing.T) {
	config.AppConfig.MaxRequestsPerMin = 2
	r := newLimitedRouter()

	do := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.10"))
	assert.Equal(t, http.StatusOK, do("203.0.113.10"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.10"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, do("203.0.113.11"))
}

func TestClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func() (*gin.Context, *http.Request) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:54321"
		c.Request = req
		return c, req
	}

	c, req := newCtx()
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(c))

	c, req = newCtx()
	req.Header.Set("X-Real-IP", "203.0.113.8")
	assert.Equal(t, "203.0.113.8", clientIP(c))

	c, _ = newCtx()
	assert.Equal(t, "192.0.2.1", clientIP(c))
}
