package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dujiao-next/cart/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Validation ValidationConfig `mapstructure:"validation"`
	UserJWT    JWTConfig        `mapstructure:"user_jwt"`
	Redis      RedisConfig      `mapstructure:"redis"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Security   SecurityConfig   `mapstructure:"security"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string             `mapstructure:"driver"`        // 数据库驱动（sqlite/postgres）
	DSN          string             `mapstructure:"dsn"`           // 数据库连接串
	PasswordFile string             `mapstructure:"password_file"` // 密码文件，启动时注入 DSN
	Pool         DatabasePoolConfig `mapstructure:"pool"`
}

// ResolveDSN 返回注入密码后的连接串
func (c DatabaseConfig) ResolveDSN() (string, error) {
	if strings.TrimSpace(c.PasswordFile) == "" {
		return c.DSN, nil
	}
	return InjectPassword(c.DSN, c.PasswordFile)
}

// UpstreamConfig 外部服务配置
type UpstreamConfig struct {
	Catalog  UpstreamServiceConfig `mapstructure:"catalog"`  // 客户与商品（同一 ERP 服务）
	Discount UpstreamServiceConfig `mapstructure:"discount"` // 优惠码服务
}

// UpstreamServiceConfig 单个外部服务配置
type UpstreamServiceConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	PasswordFile string `mapstructure:"password_file"`
	APIKey       string `mapstructure:"api_key"`
	TimeoutMS    int    `mapstructure:"timeout_ms"`
}

// ResolveBaseURL 返回注入密码后的服务地址
func (c UpstreamServiceConfig) ResolveBaseURL() (string, error) {
	if strings.TrimSpace(c.PasswordFile) == "" {
		return c.BaseURL, nil
	}
	return InjectPassword(c.BaseURL, c.PasswordFile)
}

// ValidationConfig 购物车校验配置
type ValidationConfig struct {
	ParallelProductChecks bool `mapstructure:"parallel_product_checks"`
	MaxConcurrency        int  `mapstructure:"max_concurrency"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"` // 仅用于 cmd/token 签发调试令牌
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CartRateLimit RateLimitConfig `mapstructure:"cart_rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	if file := strings.TrimSpace(os.Getenv("CART_CONFIG")); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // 从当前目录查找
		v.AddConfigPath("../")           // 如果从 cmd/server 运行
		v.AddConfigPath("./etc")         // etc 文件夹
		v.AddConfigPath("/etc/cart-api") // 系统配置目录
	}

	setDefaults(v)

	// 环境变量支持
	v.AutomaticEnv()                                   // 自动读取环境变量
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // server.port -> SERVER_PORT

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := decode(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "10200")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "cart.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/cart.db")
	v.SetDefault("database.password_file", "")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("upstream.catalog.base_url", "http://127.0.0.1:8081/api/index.php")
	v.SetDefault("upstream.catalog.password_file", "")
	v.SetDefault("upstream.catalog.api_key", "")
	v.SetDefault("upstream.catalog.timeout_ms", 5000)
	v.SetDefault("upstream.discount.base_url", "http://127.0.0.1:8082")
	v.SetDefault("upstream.discount.password_file", "")
	v.SetDefault("upstream.discount.api_key", "")
	v.SetDefault("upstream.discount.timeout_ms", 5000)
	v.SetDefault("validation.parallel_product_checks", false)
	v.SetDefault("validation.max_concurrency", 4)
	v.SetDefault("user_jwt.enabled", true)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 24)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "cart")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.cart_rate_limit.window_seconds", 60)
	v.SetDefault("security.cart_rate_limit.max_requests", 120)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
