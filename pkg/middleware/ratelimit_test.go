package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRateLimiter_Allow(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerSecond = 1
	cfg.BurstSize = 3
	rl := NewLocalRateLimiter(cfg)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("demo|203.0.113.1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("demo|203.0.113.1"))
	assert.True(t, rl.Allow("seguros-sp|203.0.113.1"), "buckets are per key")

	allowed, rejected := rl.GetStats()
	assert.Equal(t, uint64(4), allowed)
	assert.Equal(t, uint64(1), rejected)
}

func TestRateLimiter_Middleware(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.BurstSize = 1
	cfg.RequestsPerSecond = 1
	cfg.KeyFunc = func(c *gin.Context) string { return c.GetHeader(TenantHeader) + "|" + c.ClientIP() }
	handler, stop := RateLimiter(cfg)
	defer stop()

	router := gin.New()
	router.POST("/api/v1/chat/messages", handler, func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(tenant string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/messages", nil)
		req.Header.Set(TenantHeader, tenant)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("demo"))
	assert.Equal(t, http.StatusTooManyRequests, send("demo"))
	assert.Equal(t, http.StatusOK, send("vida-segura"))
}

func TestLocalRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewLocalRateLimiter(DefaultRateLimitConfig())
	rl.Stop()
	rl.Stop()
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	rl := NewRedisRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
		RedisClient:       client,
		KeyPrefix:         "test:ratelimit:" + uuid.NewString() + ":",
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within burst", i)
	}
	ok, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// buckets are per key
	ok, err = rl.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}
