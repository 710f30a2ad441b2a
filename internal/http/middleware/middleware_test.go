package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(mw echo.MiddlewareFunc, header string) int {
	return serve(mw, header).Code
}

func serve(mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set("X-API-Key", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	_ = h(c)
	return rec
}

func TestAPIKeyMiddleware(t *testing.T) {
	mw := APIKeyMiddleware([]string{"k1", " k2 "})

	assert.Equal(t, http.StatusUnauthorized, run(mw, ""))
	assert.Equal(t, http.StatusUnauthorized, run(mw, "nope"))
	assert.Equal(t, http.StatusNoContent, run(mw, "k1"))
	assert.Equal(t, http.StatusNoContent, run(mw, "k2"))
}

func TestAPIKeyMiddlewareDisabled(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, run(APIKeyMiddleware(nil), ""))
	assert.Equal(t, http.StatusNoContent, run(APIKeyMiddleware([]string{" "}), ""))
}

func TestRateLimitWithoutRedisAllows(t *testing.T) {
	mw := RateLimitMiddleware(RateLimitConfig{RPS: 1})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, run(mw, ""))
	}
}

func TestRateLimitCountsPerWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mw := RateLimitMiddleware(RateLimitConfig{
		Redis:          rdb,
		RPS:            3,
		Window:         time.Hour,
		RetryAfterHint: true,
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, run(mw, ""), "request %d", i+1)
	}

	rec := serve(mw, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limited"}`, rec.Body.String())

	secs, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, secs, 1)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Regexp(t, `^rl:ip:192\.0\.2\.1:\d+$`, keys[0])
	assert.Equal(t, "4", mustGet(t, mr, keys[0]))
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestRateLimitWithoutRetryAfterHint(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mw := RateLimitMiddleware(RateLimitConfig{Redis: rdb, RPS: 1, Window: time.Hour})
	assert.Equal(t, http.StatusNoContent, run(mw, ""))

	rec := serve(mw, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitRedisFailureAllows(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	mw := RateLimitMiddleware(RateLimitConfig{Redis: rdb, RPS: 1, Window: time.Hour})
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, run(mw, ""))
	}
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
