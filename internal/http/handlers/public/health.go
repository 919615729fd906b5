package public

import (
	"context"
	"errors"
	"time"

	"github.com/ruda-paints/internal/cache"
	"github.com/ruda-paints/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查，数据库不可用时返回内部错误
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok", "redis": "disabled", "queue": "disabled"}
	healthy := true
	if err := h.pingDatabase(ctx); err != nil {
		status["database"] = "down"
		healthy = false
		requestLog(c).Warnw("health_database_down", "error", err)
	}
	if cache.Enabled() {
		status["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			status["redis"] = "down"
			requestLog(c).Warnw("health_redis_down", "error", err)
		}
	}
	if h.QueueClient.Enabled() {
		status["queue"] = "ok"
	}
	if !healthy {
		response.ErrorWithData(c, response.CodeInternal, "unhealthy", status)
		return
	}
	status["time"] = time.Now().UTC()
	response.Success(c, status)
}

func (h *Handler) pingDatabase(ctx context.Context) error {
	if h.DB == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
