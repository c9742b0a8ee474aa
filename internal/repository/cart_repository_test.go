package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/cart/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate cart models failed: %v", err)
	}
	return NewCartRepository(db), db
}

func cartLines(pairs ...uint) []models.CartLine {
	lines := make([]models.CartLine, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		lines = append(lines, models.CartLine{ProductID: pairs[i], Quantity: int(pairs[i+1])})
	}
	return lines
}

func uintPtr(v uint) *uint {
	return &v
}

func TestCartRepositoryCreateAssignsSequentialNumbers(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, 42, nil, cartLines(7, 2))
	if err != nil {
		t.Fatalf("create first cart failed: %v", err)
	}
	second, err := repo.Create(ctx, 42, nil, cartLines(9, 1))
	if err != nil {
		t.Fatalf("create second cart failed: %v", err)
	}
	other, err := repo.Create(ctx, 43, nil, cartLines(9, 1))
	if err != nil {
		t.Fatalf("create other user cart failed: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("unexpected cart numbers: first=%d second=%d", first, second)
	}
	if other != 1 {
		t.Fatalf("cart numbers should be scoped per user, got %d", other)
	}
}

func TestCartRepositoryNumbersNotReusedAfterDelete(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, 42, nil, cartLines(7, 1)); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	second, err := repo.Create(ctx, 42, nil, cartLines(7, 1))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.DeleteByUserCart(ctx, 42, second); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}
	third, err := repo.Create(ctx, 42, nil, cartLines(7, 1))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if third != 3 {
		t.Fatalf("deleted cart number should not be reused, got %d", third)
	}
}

func TestCartRepositorySequenceSeededFromExistingCarts(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	ctx := context.Background()

	if err := db.Create(&models.Cart{UserCartID: 5, UserID: 42}).Error; err != nil {
		t.Fatalf("seed legacy cart failed: %v", err)
	}
	next, err := repo.Create(ctx, 42, nil, cartLines(7, 1))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if next != 6 {
		t.Fatalf("sequence should continue after existing carts, got %d", next)
	}
}

func TestCartRepositoryGetReturnsLinesInInsertOrder(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()

	number, err := repo.Create(ctx, 42, uintPtr(3), cartLines(9, 1, 7, 2, 11, 5))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	cart, lines, err := repo.GetByUserCart(ctx, 42, number)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.DiscountID == nil || *cart.DiscountID != 3 {
		t.Fatalf("unexpected discount id: %v", cart.DiscountID)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	wantProducts := []uint{9, 7, 11}
	wantQty := []int{1, 2, 5}
	for i, line := range lines {
		if line.ProductID != wantProducts[i] || line.Quantity != wantQty[i] {
			t.Fatalf("line %d mismatch: product=%d qty=%d", i, line.ProductID, line.Quantity)
		}
		if line.CartID != cart.ID {
			t.Fatalf("line %d points at cart %d, want %d", i, line.CartID, cart.ID)
		}
	}
}

func TestCartRepositoryGetNotFound(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()

	number, err := repo.Create(ctx, 42, nil, cartLines(7, 1))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, _, err := repo.GetByUserCart(ctx, 43, number); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("other user should not see cart, got %v", err)
	}
	if _, _, err := repo.GetByUserCart(ctx, 42, number+1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("unknown cart number should be not found, got %v", err)
	}
}

func TestCartRepositoryReplaceSwapsLinesAndDiscount(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	ctx := context.Background()

	number, err := repo.Create(ctx, 42, uintPtr(3), cartLines(7, 2, 9, 1))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.ReplaceByUserCart(ctx, 42, number, nil, cartLines(11, 4)); err != nil {
		t.Fatalf("replace cart failed: %v", err)
	}
	cart, lines, err := repo.GetByUserCart(ctx, 42, number)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.DiscountID != nil {
		t.Fatalf("discount should be cleared, got %v", *cart.DiscountID)
	}
	if len(lines) != 1 || lines[0].ProductID != 11 || lines[0].Quantity != 4 {
		t.Fatalf("unexpected lines after replace: %+v", lines)
	}

	var total int64
	if err := db.Model(&models.CartLine{}).Count(&total).Error; err != nil {
		t.Fatalf("count lines failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("old lines should be removed, found %d rows", total)
	}
}

func TestCartRepositoryReplaceIsIdempotent(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()

	number, err := repo.Create(ctx, 42, nil, cartLines(7, 2))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := repo.ReplaceByUserCart(ctx, 42, number, uintPtr(5), cartLines(7, 3, 9, 1)); err != nil {
			t.Fatalf("replace #%d failed: %v", i+1, err)
		}
	}
	cart, lines, err := repo.GetByUserCart(ctx, 42, number)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.DiscountID == nil || *cart.DiscountID != 5 {
		t.Fatalf("unexpected discount id: %v", cart.DiscountID)
	}
	if len(lines) != 2 || lines[0].ProductID != 7 || lines[0].Quantity != 3 || lines[1].ProductID != 9 {
		t.Fatalf("unexpected lines after repeated replace: %+v", lines)
	}
}

func TestCartRepositoryReplaceOnlyTouchesTargetCart(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()

	// 两个用户都持有编号 1 的购物车
	if _, err := repo.Create(ctx, 42, nil, cartLines(7, 1)); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := repo.Create(ctx, 43, nil, cartLines(8, 1)); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.ReplaceByUserCart(ctx, 42, 1, nil, cartLines(9, 9)); err != nil {
		t.Fatalf("replace cart failed: %v", err)
	}
	_, lines, err := repo.GetByUserCart(ctx, 43, 1)
	if err != nil {
		t.Fatalf("get other cart failed: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != 8 {
		t.Fatalf("other user's cart changed: %+v", lines)
	}
}

func TestCartRepositoryReplaceNotFound(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	if err := repo.ReplaceByUserCart(context.Background(), 42, 1, nil, cartLines(7, 1)); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestCartRepositoryDeleteRemovesHeaderAndLines(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	ctx := context.Background()

	number, err := repo.Create(ctx, 42, nil, cartLines(7, 2, 9, 1))
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.DeleteByUserCart(ctx, 42, number); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}
	if _, _, err := repo.GetByUserCart(ctx, 42, number); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("deleted cart should be not found, got %v", err)
	}
	var lineCount int64
	if err := db.Model(&models.CartLine{}).Count(&lineCount).Error; err != nil {
		t.Fatalf("count lines failed: %v", err)
	}
	if lineCount != 0 {
		t.Fatalf("lines should be deleted with the cart, found %d", lineCount)
	}
	if err := repo.DeleteByUserCart(ctx, 42, number); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Fatalf("nil error should not be a unique violation")
	}
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("gorm duplicated key should be a unique violation")
	}
	if !isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: carts.user_id, carts.user_cart_id (2067)")) {
		t.Fatalf("sqlite unique error should be a unique violation")
	}
	if isUniqueViolation(errors.New("database is locked")) {
		t.Fatalf("unrelated error should not be a unique violation")
	}
}

func TestCartRepositoryDuplicateHeaderRejected(t *testing.T) {
	_, db := setupCartRepositoryTest(t)

	if err := db.Create(&models.Cart{UserCartID: 1, UserID: 42}).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	err := db.Create(&models.Cart{UserCartID: 1, UserID: 42}).Error
	if err == nil {
		t.Fatalf("duplicate (user_id, user_cart_id) should be rejected")
	}
	if !isUniqueViolation(err) {
		t.Fatalf("duplicate header error should be classified as unique violation: %v", err)
	}
}
