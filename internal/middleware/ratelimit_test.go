package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRateLimitedHandler(t *testing.T, mr *miniredis.Miniredis, limit int) http.Handler {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "test_rate_limit",
	}

	return RateLimitMiddleware(redisClient, config, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Feature: storefront, Property 20: Rate limiting blocks excessive requests
func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr := miniredis.RunT(t)
			handler := newRateLimitedHandler(t, mr, requestsPerWindow)

			successCount := 0
			blockedCount := 0

			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				w := doRequest(handler, "192.168.1.100:5000")

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 21: Remaining budget is reported on every response
func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rate limit headers count down", prop.ForAll(
		func(requestsPerWindow int) bool {
			mr := miniredis.RunT(t)
			handler := newRateLimitedHandler(t, mr, requestsPerWindow)

			first := doRequest(handler, "192.168.1.101:5000")
			second := doRequest(handler, "192.168.1.101:5000")

			return first.Header().Get("X-RateLimit-Limit") == strconv.Itoa(requestsPerWindow) &&
				first.Header().Get("X-RateLimit-Remaining") == strconv.Itoa(requestsPerWindow-1) &&
				second.Header().Get("X-RateLimit-Remaining") == strconv.Itoa(requestsPerWindow-2)
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_KeyedByClientIP(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 1)

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1111").Code)
	// Same host on another source port shares the window
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:2222").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2:1111").Code)

	assert.True(t, mr.Exists("test_rate_limit:10.0.0.1"))
}

func TestRateLimit_BlockedResponseCarriesRetryAfter(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 1)

	doRequest(handler, "10.0.0.3:1111")
	w := doRequest(handler, "10.0.0.3:1111")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 1)
	mr.Close()

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.4:1111").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.4:1111").Code)
}

func TestRateLimit_RepairsCounterWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 5)

	// A counter left behind without an expiry
	mr.Set("test_rate_limit:10.0.0.5", "2")

	w := doRequest(handler, "10.0.0.5:1111")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, time.Minute, mr.TTL("test_rate_limit:10.0.0.5"))

	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists("test_rate_limit:10.0.0.5"))
}
