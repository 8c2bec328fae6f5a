package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/technocare/pkg/logging"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RedisConfig struct {
	Addr     string
	Password string
}

// FixedWindow counts hits per key in windows of Window length with INCR+EXPIRE.
type FixedWindow struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
	Prefix string
	now    func() time.Time
}

func NewFixedWindow(cfg RedisConfig, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
		}),
		Limit:  limit,
		Window: window,
		Prefix: "ratelimit",
		now:    time.Now,
	}
}

func (l *FixedWindow) key(client string) string {
	slot := l.now().UnixNano() / int64(l.Window)
	return fmt.Sprintf("%s:%s:%d", l.Prefix, client, slot)
}

func (l *FixedWindow) Allow(ctx context.Context, client string) (bool, error) {
	k := l.key(client)

	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val() <= int64(l.Limit), nil
}

// Middleware keys clients by real IP. A limiter error lets the request through.
func Middleware(lim Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			allowed, err := lim.Allow(ctx, c.RealIP())
			if err != nil {
				logging.FromContext(ctx).Warn("rate_limit_unavailable", "error", err)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Requests")
			}
			return next(c)
		}
	}
}
