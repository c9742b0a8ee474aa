package provider

import (
	"time"

	"github.com/dujiao-next/cart/internal/authz"
	"github.com/dujiao-next/cart/internal/cache"
	"github.com/dujiao-next/cart/internal/config"
	"github.com/dujiao-next/cart/internal/logger"
	"github.com/dujiao-next/cart/internal/metrics"
	"github.com/dujiao-next/cart/internal/models"
	"github.com/dujiao-next/cart/internal/repository"
	"github.com/dujiao-next/cart/internal/service"
	"github.com/dujiao-next/cart/internal/upstream"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config  *config.Config
	DB      *gorm.DB
	Metrics *metrics.CartMetrics

	// Repositories
	CartRepo repository.CartRepository

	// Upstream clients
	CatalogClient  *upstream.CatalogClient
	DiscountClient *upstream.DiscountClient

	// Services
	AuthzService *authz.Service
	CartService  *service.CartService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存（仅用于限流）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config: cfg,
		DB:     models.DB,
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.NewCartMetrics()
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化外部服务客户端
	c.initClients()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.CartRepo = repository.NewCartRepository(c.DB)
}

func (c *Container) initClients() {
	catalogURL, err := c.Config.Upstream.Catalog.ResolveBaseURL()
	if err != nil {
		logger.Errorw("provider_resolve_catalog_url_failed", "error", err)
		panic(err)
	}
	c.CatalogClient, err = upstream.NewCatalogClient(upstreamOptions(c.Config.Upstream.Catalog, catalogURL, c.Metrics))
	if err != nil {
		logger.Errorw("provider_init_catalog_client_failed", "error", err)
		panic(err)
	}

	discountURL, err := c.Config.Upstream.Discount.ResolveBaseURL()
	if err != nil {
		logger.Errorw("provider_resolve_discount_url_failed", "error", err)
		panic(err)
	}
	c.DiscountClient, err = upstream.NewDiscountClient(upstreamOptions(c.Config.Upstream.Discount, discountURL, c.Metrics))
	if err != nil {
		logger.Errorw("provider_init_discount_client_failed", "error", err)
		panic(err)
	}
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	// 客户与商品由同一个 ERP 客户端提供
	c.CartService = service.NewCartService(c.CartRepo, c.CatalogClient, c.CatalogClient, c.DiscountClient, service.CartServiceOptions{
		ParallelProductChecks: c.Config.Validation.ParallelProductChecks,
		MaxConcurrency:        c.Config.Validation.MaxConcurrency,
		Metrics:               c.Metrics,
	})
}

func upstreamOptions(cfg config.UpstreamServiceConfig, baseURL string, m *metrics.CartMetrics) upstream.Options {
	opts := upstream.Options{
		BaseURL: baseURL,
		APIKey:  cfg.APIKey,
		Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
	}
	// 避免把 nil 指针包装成非 nil 接口
	if m != nil {
		opts.Observer = m
	}
	return opts
}
