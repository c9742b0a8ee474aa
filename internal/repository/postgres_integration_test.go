//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/dujiao-next/cart/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.CartLine{},
		&models.Cart{},
		&models.CartSequence{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresConcurrentCreateAssignsDistinctNumbers(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	const workers = 8
	numbers := make([]uint, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			numbers[idx], errs[idx] = repo.Create(ctx, 42, nil, []models.CartLine{{ProductID: 7, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	seen := make(map[uint]bool, workers)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("create #%d failed: %v", i, errs[i])
		}
		if seen[numbers[i]] {
			t.Fatalf("cart number %d assigned twice", numbers[i])
		}
		seen[numbers[i]] = true
	}
	for n := uint(1); n <= workers; n++ {
		if !seen[n] {
			t.Fatalf("cart number %d missing from %v", n, numbers)
		}
	}
}

func TestPostgresDuplicateHeaderIsUniqueViolation(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	if err := db.Create(&models.Cart{UserCartID: 1, UserID: 42}).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	err := db.Create(&models.Cart{UserCartID: 1, UserID: 42}).Error
	if err == nil {
		t.Fatalf("duplicate header should fail")
	}
	if !isUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestPostgresDeleteCascadesLines(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	number, err := repo.Create(ctx, 42, nil, []models.CartLine{{ProductID: 7, Quantity: 2}, {ProductID: 9, Quantity: 1}})
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.DeleteByUserCart(ctx, 42, number); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.CartLine{}).Count(&count).Error; err != nil {
		t.Fatalf("count lines failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no lines after delete, got %d", count)
	}
	if _, _, err := repo.GetByUserCart(ctx, 42, number); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}
