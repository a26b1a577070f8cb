package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit throttles analysis submissions per client IP. The hosted
// service runs on a free-tier quota, so the guard sits on our side of the
// wire. Fails open when redis is unreachable.
func RateLimit(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", ctx.ClientIP(), ctx.Request.URL.Path)
		rctx := ctx.Request.Context()

		// One round trip: the counter never exists without its TTL.
		pipe := client.TxPipeline()
		incr := pipe.Incr(rctx, key)
		expire := pipe.ExpireNX(rctx, key, window)
		if _, err := pipe.Exec(rctx); err != nil {
			logger.Warn("Rate limiter unavailable", zap.Error(err))
			ctx.Next()
			return
		}
		if err := expire.Err(); err != nil {
			logger.Warn("Failed to set rate limit window",
				zap.String("key", key),
				zap.Error(err))
		}

		if incr.Val() > int64(limit) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests, try again later",
			})
			return
		}

		ctx.Next()
	}
}
