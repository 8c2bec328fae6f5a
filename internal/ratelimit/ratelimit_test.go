package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func serve(lim Limiter) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(Middleware(lim))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		lim := &fakeLimiter{allowed: true}
		rec := serve(lim)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"10.0.0.7"}, lim.keys)
	})

	t.Run("over limit", func(t *testing.T) {
		rec := serve(&fakeLimiter{allowed: false})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("limiter down lets requests through", func(t *testing.T) {
		rec := serve(&fakeLimiter{allowed: true, err: errors.New("dial tcp: refused")})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestFixedWindow_Key(t *testing.T) {
	lim := NewFixedWindow(RedisConfig{Addr: "127.0.0.1:0"}, 10, time.Minute)
	t.Cleanup(func() { _ = lim.Client.Close() })

	base := time.Date(2026, 1, 1, 12, 0, 5, 0, time.UTC)
	lim.now = func() time.Time { return base }
	first := lim.key("1.2.3.4")

	lim.now = func() time.Time { return base.Add(30 * time.Second) }
	assert.Equal(t, first, lim.key("1.2.3.4"))
	assert.NotEqual(t, first, lim.key("5.6.7.8"))

	lim.now = func() time.Time { return base.Add(time.Minute) }
	assert.NotEqual(t, first, lim.key("1.2.3.4"))
}

func TestFixedWindow_FailsOpen(t *testing.T) {
	lim := NewFixedWindow(RedisConfig{Addr: "127.0.0.1:1"}, 1, time.Minute)
	t.Cleanup(func() { _ = lim.Client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	allowed, err := lim.Allow(ctx, "1.2.3.4")
	require.Error(t, err)
	assert.True(t, allowed)
}
