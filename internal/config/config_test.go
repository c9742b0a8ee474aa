package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultsDecode(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:10200" {
		t.Fatalf("addr want 127.0.0.1:10200 got %s", cfg.Server.Addr())
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Upstream.Catalog.TimeoutMS != 5000 || cfg.Upstream.Discount.TimeoutMS != 5000 {
		t.Fatalf("unexpected upstream timeouts: %+v", cfg.Upstream)
	}
	if cfg.Validation.ParallelProductChecks {
		t.Fatalf("product checks should be sequential by default")
	}
	if !cfg.UserJWT.Enabled {
		t.Fatalf("user jwt should be enabled by default")
	}
	if cfg.Security.CartRateLimit.MaxRequests != 120 {
		t.Fatalf("rate limit max requests want 120 got %d", cfg.Security.CartRateLimit.MaxRequests)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Fatalf("unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestDecodeOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("server.port", "18080")
	v.Set("validation.parallel_product_checks", true)
	v.Set("upstream.discount.base_url", "https://discounts.example.com")
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Server.Port != "18080" {
		t.Fatalf("port want 18080 got %s", cfg.Server.Port)
	}
	if !cfg.Validation.ParallelProductChecks {
		t.Fatalf("parallel checks override not applied")
	}
	if cfg.Upstream.Discount.BaseURL != "https://discounts.example.com" {
		t.Fatalf("discount base url override not applied: %s", cfg.Upstream.Discount.BaseURL)
	}
}
