package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, "2", retryAfter(1500*time.Millisecond, time.Minute))
	assert.Equal(t, "60", retryAfter(0, time.Minute))
	assert.Equal(t, "60", retryAfter(-1, time.Minute))
}

func TestRateLimitMiddleware_RedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	router := setupTestRouter()
	router.Use(RateLimitMiddleware(client, 10, time.Minute))
	router.GET("/test", echoUserName)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
