package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dujiao-next/cart/internal/logger"
	"github.com/dujiao-next/cart/internal/metrics"
	"github.com/dujiao-next/cart/internal/models"
	"github.com/dujiao-next/cart/internal/repository"
)

// CartServiceOptions 购物车服务选项
type CartServiceOptions struct {
	ParallelProductChecks bool
	MaxConcurrency        int
	Now                   func() time.Time
	Metrics               *metrics.CartMetrics
}

// CartLineView 购物车行（用于响应）
type CartLineView struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"qty"`
}

// CartView 购物车（用于响应）
type CartView struct {
	Lines        []CartLineView `json:"lines"`
	DiscountCode *string        `json:"discount_code"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo  repository.CartRepository
	validator *CartValidator
	discounts DiscountLookup
	metrics   *metrics.CartMetrics
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, customers CustomerLookup, products ProductLookup, discounts DiscountLookup, opts CartServiceOptions) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		validator: NewCartValidator(customers, products, discounts, opts),
		discounts: discounts,
		metrics:   opts.Metrics,
	}
}

// CreateCart 校验并创建购物车，返回用户购物车编号
func (s *CartService) CreateCart(ctx context.Context, userID uint, input CartInput) (cartNumber uint, err error) {
	defer s.observe("create", time.Now(), &err)
	if err := s.ready(); err != nil {
		return 0, err
	}
	discountID, err := s.validator.Validate(ctx, userID, input)
	if err != nil {
		return 0, err
	}
	cartNumber, err = s.cartRepo.Create(ctx, userID, discountID, toCartLines(input.Lines))
	if err != nil {
		return 0, s.storageError(ctx, "create", userID, 0, err)
	}
	logger.FromContext(ctx).Infow("cart_created", "user_id", userID, "cart_id", cartNumber, "lines", len(input.Lines))
	return cartNumber, nil
}

// GetCart 读取购物车，折扣引用实时解析为优惠码
func (s *CartService) GetCart(ctx context.Context, userID, cartNumber uint) (view *CartView, err error) {
	defer s.observe("read", time.Now(), &err)
	if err := s.ready(); err != nil {
		return nil, err
	}
	cart, lines, err := s.cartRepo.GetByUserCart(ctx, userID, cartNumber)
	if err != nil {
		return nil, s.storageError(ctx, "read", userID, cartNumber, err)
	}

	view = &CartView{Lines: make([]CartLineView, 0, len(lines))}
	for _, line := range lines {
		view.Lines = append(view.Lines, CartLineView{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	if cart.DiscountID != nil {
		code, err := s.discountCode(ctx, *cart.DiscountID)
		if err != nil {
			return nil, err
		}
		view.DiscountCode = &code
	}
	return view, nil
}

// UpdateCart 全量重新校验后整体替换购物车
func (s *CartService) UpdateCart(ctx context.Context, userID, cartNumber uint, input CartInput) (err error) {
	defer s.observe("update", time.Now(), &err)
	if err := s.ready(); err != nil {
		return err
	}
	discountID, err := s.validator.Validate(ctx, userID, input)
	if err != nil {
		return err
	}
	if err := s.cartRepo.ReplaceByUserCart(ctx, userID, cartNumber, discountID, toCartLines(input.Lines)); err != nil {
		return s.storageError(ctx, "update", userID, cartNumber, err)
	}
	logger.FromContext(ctx).Infow("cart_replaced", "user_id", userID, "cart_id", cartNumber, "lines", len(input.Lines))
	return nil
}

// DeleteCart 删除购物车（不做外部校验）
func (s *CartService) DeleteCart(ctx context.Context, userID, cartNumber uint) (err error) {
	defer s.observe("delete", time.Now(), &err)
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.cartRepo.DeleteByUserCart(ctx, userID, cartNumber); err != nil {
		return s.storageError(ctx, "delete", userID, cartNumber, err)
	}
	logger.FromContext(ctx).Infow("cart_deleted", "user_id", userID, "cart_id", cartNumber)
	return nil
}

func (s *CartService) ready() error {
	if s == nil || s.cartRepo == nil || s.validator == nil {
		return fmt.Errorf("%w: cart service is not initialized", ErrMisconfigured)
	}
	return nil
}

func (s *CartService) discountCode(ctx context.Context, discountID uint) (string, error) {
	if s.discounts == nil {
		return "", fmt.Errorf("%w: discount lookup is not configured", ErrMisconfigured)
	}
	discount, err := s.discounts.GetDiscountByID(ctx, discountID)
	if err != nil {
		logger.FromContext(ctx).Warnw("cart_discount_resolve_failed", "discount_id", discountID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return discount.Code, nil
}

func (s *CartService) storageError(ctx context.Context, op string, userID, cartNumber uint, err error) error {
	if errors.Is(err, repository.ErrCartNotFound) {
		return fmt.Errorf("%w: user %d cart %d", ErrCartNotFound, userID, cartNumber)
	}
	logger.FromContext(ctx).Errorw("cart_storage_failed",
		"operation", op,
		"user_id", userID,
		"cart_id", cartNumber,
		"error", err,
	)
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

func (s *CartService) observe(op string, started time.Time, errp *error) {
	if s == nil {
		return
	}
	s.metrics.ObserveOperation(op, *errp, time.Since(started))
}

func toCartLines(lines []CartLineInput) []models.CartLine {
	result := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		result = append(result, models.CartLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return result
}
