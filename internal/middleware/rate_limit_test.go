package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRecipeCreationRateLimiterConfig(t *testing.T) {
	limiter := NewRecipeCreationRateLimiter(nil)
	assert.Equal(t, 20, limiter.config.Limit)
	assert.Equal(t, time.Hour, limiter.config.Window)
	assert.Equal(t, "rate_limit:recipe_creation", limiter.config.KeyPrefix)
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Nothing listens here: every Redis call errors and the request must
	// still go through.
	unreachable := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	limiter := NewRecipeCreationRateLimiter(unreachable)

	router := gin.New()
	router.POST("/write",
		func(c *gin.Context) { c.Set("user_id", uuid.New()) },
		limiter.RateLimitMiddleware(),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) },
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimitMiddlewareRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRecipeCreationRateLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	router := gin.New()
	router.POST("/write", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
