package app

import (
	"errors"

	"github.com/dujiao-next/cart/internal/config"
	"github.com/dujiao-next/cart/internal/provider"
	"github.com/dujiao-next/cart/internal/router"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	engine := router.SetupRouter(cfg, container)
	httpService := NewHTTPService(cfg.Server.Addr(), engine)

	return NewRunner(httpService), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config)
	if err != nil {
		return err
	}
	defer closeCache(opts)

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr())
	return RunWithOptions(runner, opts)
}
