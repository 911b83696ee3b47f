package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/TallyCrew/tally-crew-backend/services"
	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for API rate limiting.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

// DefaultRateLimitConfig returns default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerWindow: 60,
		Window:            time.Minute,
	}
}

// APIRateLimiter creates a middleware for rate limiting API requests using a
// Redis-backed fixed window per user (or per IP for anonymous requests).
func APIRateLimiter(rateLimiter services.RateLimiterInterface, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := getRateLimitIdentifier(c)

		key := fmt.Sprintf("api:%s", identifier)
		allowed, retryAfter, err := rateLimiter.CheckLimit(
			c.Request.Context(),
			key,
			config.RequestsPerWindow,
			config.Window,
		)
		if err != nil {
			// Rate limiting is protective, not critical; fail open.
			c.Next()
			return
		}

		if !allowed {
			setRateLimitHeaders(c, config.RequestsPerWindow, 0, retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(retryAfter.Seconds()),
				"message":     "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

// EndpointRateLimiter creates a middleware for rate limiting a specific
// endpoint with its own budget.
func EndpointRateLimiter(rateLimiter services.RateLimiterInterface, requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := getRateLimitIdentifier(c)
		endpoint := c.Request.Method + ":" + c.FullPath()

		key := fmt.Sprintf("endpoint:%s:%s", endpoint, identifier)
		allowed, retryAfter, err := rateLimiter.CheckLimit(
			c.Request.Context(),
			key,
			requests,
			window,
		)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			setRateLimitHeaders(c, requests, 0, retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Endpoint rate limit exceeded",
				"retry_after": int(retryAfter.Seconds()),
				"message":     fmt.Sprintf("Too many requests to this endpoint. Please try again in %d seconds.", int(retryAfter.Seconds())),
			})
			return
		}

		c.Next()
	}
}

// getRateLimitIdentifier rate limits authenticated users by user ID and
// anonymous users by IP.
func getRateLimitIdentifier(c *gin.Context) string {
	if userID := c.GetString(string(UserIDKey)); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

func setRateLimitHeaders(c *gin.Context, limit int, remaining int, retryAfter time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	if retryAfter > 0 {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	}
}
