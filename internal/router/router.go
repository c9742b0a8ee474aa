package router

import (
	"strings"

	"github.com/dujiao-next/cart/internal/cache"
	"github.com/dujiao-next/cart/internal/config"
	publichandlers "github.com/dujiao-next/cart/internal/http/handlers/public"
	"github.com/dujiao-next/cart/internal/logger"
	"github.com/dujiao-next/cart/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	cartHandler := publichandlers.New(c)
	cartMutationRule := RateLimitRule{
		Prefix:        cache.BuildKey("rate", "cart"),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}
	limitMutation := RateLimitMiddleware(cache.Client(), cartMutationRule, KeyByUser)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(HTTPMetricsMiddleware(c.Metrics))

	// 健康检查与指标
	r.GET("/healthz", cartHandler.Health)
	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		carts := apiV1.Group("/customer/:user/cart")
		if cfg.UserJWT.Enabled {
			carts.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey), CartAccessMiddleware(c.AuthzService))
		} else {
			log.Sugar().Warnw("router_user_jwt_disabled", "hint", "cart routes are not authenticated")
		}
		{
			carts.POST("", limitMutation, cartHandler.CreateCart)
			carts.GET("/:cart", cartHandler.GetCart)
			carts.PUT("/:cart", limitMutation, cartHandler.UpdateCart)
			carts.DELETE("/:cart", limitMutation, cartHandler.DeleteCart)
		}
	}

	return r
}
