package app

import (
	"os"
	"time"

	"github.com/dujiao-next/cart/internal/cache"
	"github.com/dujiao-next/cart/internal/config"
	"github.com/dujiao-next/cart/internal/logger"

	"go.uber.org/zap"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return opts
}

func closeCache(opts Options) {
	if err := cache.Close(); err != nil {
		opts.Logger.Warnw("app_close_redis_failed", "error", err)
	}
}
