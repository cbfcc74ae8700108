package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// windowState is one client's position in the current window
type windowState struct {
	count int64
	reset time.Duration
}

// clientKey identifies the caller by IP. RemoteAddr is already rewritten by
// chi's RealIP when the server runs behind a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// hit counts a request against key. The counter and its TTL are read in one
// round trip; a counter left without a TTL gets one here, so a crash between
// INCR and EXPIRE cannot block a client forever.
func hit(ctx context.Context, client *redis.Client, key string, window time.Duration) (windowState, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd

	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return windowState{}, err
	}

	state := windowState{count: incr.Val(), reset: ttl.Val()}
	if state.reset < 0 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return windowState{}, err
		}
		state.reset = window
	}
	return state, nil
}

// RateLimitMiddleware implements fixed-window rate limiting per client IP.
// Requests pass through when Redis is unreachable.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientKey(r)
			key := config.KeyPrefix + ":" + clientID

			state, err := hit(r.Context(), redisClient, key, config.Window)
			if err != nil {
				logger.Error("Failed to count request against rate limit",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limit)

			if state.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int64("count", state.count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(state.reset).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(state.reset.Seconds())))

				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(config.RequestsPerWindow)-state.count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
