package handler

import (
	"context"
	"net/http"
	"time"

	"tillpoint/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health returns a JSON health check response. It verifies the storage
// backend and, when configured, Redis; it never exposes credentials or
// internals.
func Health(kv store.KV, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "ok"
		if kv == nil {
			storeStatus = "not configured"
		} else if _, err := kv.Get(ctx, store.KeySettings); err != nil && err != store.ErrNotFound {
			storeStatus = "error"
		}

		redisStatus := "ok"
		if rdb == nil {
			redisStatus = "not configured"
		} else if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if storeStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"store": storeStatus,
			"redis": redisStatus,
		})
	}
}
