package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yulian302/taskflow-gateway/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(limiter ratelimit.RateLimiter, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimiterMiddleware(limiter, limit, time.Minute))
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func doGet(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterMiddleware(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer rdb.Close()

	r := newLimitedRouter(ratelimit.NewRedisRateLimiter(rdb), 3)

	for i := 0; i < 3; i++ {
		w := doGet(r, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, w.Code)
	}

	// rate limit should work
	w := doGet(r, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// other clients keep their own budget
	w = doGet(r, "10.0.0.2:1234")
	assert.Equal(t, http.StatusOK, w.Code)

	s.FastForward(time.Minute)
	w = doGet(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

type failingLimiter struct{}

func (failingLimiter) Incr(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("redis down")
}

func (failingLimiter) Expire(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func TestRateLimiterMiddleware_FailsOpen(t *testing.T) {
	r := newLimitedRouter(failingLimiter{}, 1)

	for i := 0; i < 3; i++ {
		w := doGet(r, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
