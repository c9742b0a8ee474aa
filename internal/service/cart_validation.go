package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/cart/internal/logger"
	"github.com/dujiao-next/cart/internal/metrics"
	"github.com/dujiao-next/cart/internal/upstream"

	"golang.org/x/sync/errgroup"
)

const defaultProductCheckConcurrency = 4

// CustomerLookup 客户查询能力
type CustomerLookup interface {
	GetCustomer(ctx context.Context, id uint) (*upstream.Customer, error)
}

// ProductLookup 商品查询能力
type ProductLookup interface {
	GetProduct(ctx context.Context, id uint) (*upstream.Product, error)
}

// DiscountLookup 优惠码查询能力
type DiscountLookup interface {
	GetDiscountByCode(ctx context.Context, code string) (*upstream.Discount, error)
	GetDiscountByID(ctx context.Context, id uint) (*upstream.Discount, error)
}

// CartLineInput 购物车行输入
type CartLineInput struct {
	ProductID uint
	Quantity  int
}

// CartInput 购物车输入（创建与整体替换共用）
type CartInput struct {
	Lines        []CartLineInput
	DiscountCode *string
}

// CartValidator 购物车校验流水线：客户 -> 优惠码 -> 商品，遇到首个硬失败即返回
type CartValidator struct {
	customers      CustomerLookup
	products       ProductLookup
	discounts      DiscountLookup
	parallel       bool
	maxConcurrency int
	now            func() time.Time
	metrics        *metrics.CartMetrics
}

// NewCartValidator 创建校验流水线
func NewCartValidator(customers CustomerLookup, products ProductLookup, discounts DiscountLookup, opts CartServiceOptions) *CartValidator {
	v := &CartValidator{
		customers:      customers,
		products:       products,
		discounts:      discounts,
		parallel:       opts.ParallelProductChecks,
		maxConcurrency: opts.MaxConcurrency,
		now:            opts.Now,
		metrics:        opts.Metrics,
	}
	if v.maxConcurrency <= 0 {
		v.maxConcurrency = defaultProductCheckConcurrency
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v
}

// Validate 校验购物车并返回解析出的折扣引用（可能为空）
func (v *CartValidator) Validate(ctx context.Context, userID uint, input CartInput) (*uint, error) {
	if v.customers == nil || v.products == nil || v.discounts == nil {
		return nil, fmt.Errorf("%w: cart lookups are not configured", ErrMisconfigured)
	}
	if err := validateLines(input.Lines); err != nil {
		v.reject("cart_line_invalid")
		return nil, err
	}
	if err := v.checkCustomer(ctx, userID); err != nil {
		return nil, err
	}
	discountID, err := v.resolveDiscount(ctx, input.DiscountCode)
	if err != nil {
		return nil, err
	}
	if v.parallel && len(input.Lines) > 1 {
		err = v.checkProductsParallel(ctx, input.Lines)
	} else {
		err = v.checkProducts(ctx, input.Lines)
	}
	if err != nil {
		return nil, err
	}
	return discountID, nil
}

func validateLines(lines []CartLineInput) error {
	for i, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return fmt.Errorf("%w: line %d", ErrCartLineInvalid, i)
		}
	}
	return nil
}

func (v *CartValidator) checkCustomer(ctx context.Context, userID uint) error {
	if _, err := v.customers.GetCustomer(ctx, userID); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			v.reject("customer_not_found")
			return fmt.Errorf("%w: %d", ErrCustomerNotFound, userID)
		}
		logger.FromContext(ctx).Warnw("cart_customer_lookup_failed", "user_id", userID, "error", err)
		v.reject("upstream_unavailable")
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return nil
}

// resolveDiscount 未知优惠码视为未提供；找到但不在有效期内为硬失败
func (v *CartValidator) resolveDiscount(ctx context.Context, code *string) (*uint, error) {
	if code == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil, nil
	}
	discount, err := v.discounts.GetDiscountByCode(ctx, trimmed)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			logger.FromContext(ctx).Infow("cart_discount_code_unknown", "code", trimmed)
			return nil, nil
		}
		logger.FromContext(ctx).Warnw("cart_discount_lookup_failed", "code", trimmed, "error", err)
		v.reject("upstream_unavailable")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if !discount.IsTimeValid(v.now()) {
		v.reject("discount_period_invalid")
		return nil, fmt.Errorf("%w: %s", ErrDiscountPeriodInvalid, trimmed)
	}
	id := discount.ID
	return &id, nil
}

func (v *CartValidator) checkProducts(ctx context.Context, lines []CartLineInput) error {
	for _, line := range lines {
		if err := v.checkProduct(ctx, line.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// checkProductsParallel 并发检查全部商品，按行序返回最靠前的失败
func (v *CartValidator) checkProductsParallel(ctx context.Context, lines []CartLineInput) error {
	errs := make([]error, len(lines))
	var g errgroup.Group
	g.SetLimit(v.maxConcurrency)
	for i, line := range lines {
		g.Go(func() error {
			errs[i] = v.checkProduct(ctx, line.ProductID)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *CartValidator) checkProduct(ctx context.Context, productID uint) error {
	if _, err := v.products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			v.reject("product_not_found")
			return fmt.Errorf("%w: %d", ErrProductNotFound, productID)
		}
		logger.FromContext(ctx).Warnw("cart_product_lookup_failed", "product_id", productID, "error", err)
		v.reject("upstream_unavailable")
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return nil
}

func (v *CartValidator) reject(reason string) {
	v.metrics.RecordValidationRejected(reason)
}
