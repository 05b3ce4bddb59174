package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health probes the two stores the service cannot run without. Degraded
// dependencies report per-component status without leaking connection
// details.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		redisStatus := "up"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "down"
		}

		status := http.StatusOK
		if postgres != "up" || redisStatus != "up" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":   http.StatusText(status),
			"postgres": postgres,
			"redis":    redisStatus,
		})
	}
}
