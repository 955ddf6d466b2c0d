package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func rateLimitRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", RateLimiter(RateLimitConfig{Limit: 2, Window: time.Minute}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimiterAllowsWithoutRedis(t *testing.T) {
	config.SetRedisClientForTesting(nil)
	r := rateLimitRouter()

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(rdb)
	defer config.SetRedisClientForTesting(nil)

	r := rateLimitRouter()
	key := "ratelimit:/auth/login:192.0.2.1"

	// Two requests inside the limit, the third over it.
	for i, allowed := range []bool{true, true, false} {
		mock.ExpectIncr(key).SetVal(int64(i + 1))
		mock.ExpectExpire(key, time.Minute).SetVal(true)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Forwarded-For", "192.0.2.1")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if allowed {
			assert.Equal(t, http.StatusOK, rr.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		}
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
