// File: middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"mendly/config"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds one token bucket per client identity.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var limiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
}

// getLimiter returns the limiter for a client, creating one on first sight.
// The bucket refills evenly across the window with the full window quota as
// burst, so a quiet client can spend its allowance at once.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		window := time.Duration(config.AppConfig.RateWindowMinutes) * time.Minute
		quota := config.AppConfig.MaxRequestsPerWindow
		limiter = rate.NewLimiter(rate.Every(window/time.Duration(quota)), quota)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware caps requests per client IP. This is a DoS cushion,
// unrelated to booking quota.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)
		if !limiterStore.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.RespondError(c, http.StatusTooManyRequests, utils.CodeRateLimit,
				"Rate limit exceeded. Try again later.", nil)
			return
		}
		c.Next()
	}
}
