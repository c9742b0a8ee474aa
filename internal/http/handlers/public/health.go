package public

import (
	"context"
	"fmt"
	"time"

	"github.com/dujiao-next/cart/internal/cache"
	"github.com/dujiao-next/cart/internal/http/response"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Health 健康检查：数据库与（启用时的）Redis 均可达
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		respondError(c, response.CodeUnavailable, "error.service_unhealthy", err)
		return
	}
	if err := cache.Ping(ctx); err != nil {
		respondError(c, response.CodeUnavailable, "error.service_unhealthy", fmt.Errorf("redis: %w", err))
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

func (h *Handler) pingDB(ctx context.Context) error {
	if h.Container == nil || h.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
