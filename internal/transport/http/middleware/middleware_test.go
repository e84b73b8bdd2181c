package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"user-service/internal/core/logger"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(RequestID(zap.New(core)))
	r.GET("/x", func(c *gin.Context) {
		logger.FromContext(c.Request.Context(), nil).Info("inside")
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x?password=secret&country=BR", nil))
	rid := w.Header().Get(KeyRequestID)
	require.NotEmpty(t, rid)

	entries := logs.FilterMessage("inside").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, rid, fields["request_id"])
	assert.Equal(t, "/x", fields["path"])
	q := fields["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["password"])
	assert.Equal(t, []string{"BR"}, q["country"])

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "fixed-id")
	assert.Equal(t, "fixed-id", serve(r, req).Header().Get(KeyRequestID))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)
	r := newEngine(RequestID(l), AccessLog(l))
	r.GET("/users/:nickname", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })

	serve(r, httptest.NewRequest(http.MethodGet, "/users/bob", nil))
	entries := logs.FilterMessage("HTTP").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.Equal(t, "/users/:nickname", fields["route"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(1, 1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"description":"too many requests"}`, w.Body.String())
}

func TestRateLimitDisabled(t *testing.T) {
	r := newEngine(RateLimit(0, 0))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := newEngine(RateLimitPerIP(1, 1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"))
}

func TestConcurrencyLimitGivesUpWithRequest(t *testing.T) {
	r := newEngine(Timeout(20*time.Millisecond), ConcurrencyLimit(1))
	release := make(chan struct{})
	r.GET("/slow", func(c *gin.Context) {
		<-release
		c.String(http.StatusOK, "ok")
	})

	done := make(chan int)
	go func() { done <- serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code }()
	time.Sleep(5 * time.Millisecond)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestMaxBodyBytes(t *testing.T) {
	r := newEngine(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"0123456789"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	w = serve(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout(t *testing.T) {
	r := newEngine(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestMaskQuery(t *testing.T) {
	out := maskQuery(map[string][]string{"Token": {"abc"}, "limit": {"1"}})
	assert.Equal(t, []string{"****"}, out["Token"])
	assert.Equal(t, []string{"1"}, out["limit"])
}
