package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const discountService = "discount"

// Discount 优惠码记录
type Discount struct {
	ID       uint
	Code     string
	StartsAt *time.Time
	EndsAt   *time.Time
	Value    decimal.Decimal
}

// IsTimeValid 判断 now 是否落在有效期内（缺失的边界视为不限）
func (d *Discount) IsTimeValid(now time.Time) bool {
	if d == nil {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

type discountPayload struct {
	ID       flexibleID          `json:"id"`
	Code     string              `json:"code"`
	StartsAt *time.Time          `json:"starts_at"`
	EndsAt   *time.Time          `json:"ends_at"`
	Value    decimal.NullDecimal `json:"value"`
}

func (p discountPayload) toDiscount() *Discount {
	d := &Discount{
		ID:       uint(p.ID),
		Code:     p.Code,
		StartsAt: p.StartsAt,
		EndsAt:   p.EndsAt,
	}
	if p.Value.Valid {
		d.Value = p.Value.Decimal
	}
	return d
}

// DiscountClient 优惠码服务客户端
type DiscountClient struct {
	c *client
}

// NewDiscountClient 创建优惠码服务客户端
func NewDiscountClient(opts Options) (*DiscountClient, error) {
	c, err := newClient(discountService, opts)
	if err != nil {
		return nil, err
	}
	return &DiscountClient{c: c}, nil
}

// GetDiscountByCode 按优惠码查询
func (cl *DiscountClient) GetDiscountByCode(ctx context.Context, code string) (*Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: discount code is empty", ErrNotFound)
	}
	var payload discountPayload
	if err := cl.c.getJSON(ctx, "/discounts/code/"+url.PathEscape(code), &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("%w: discount %q missing id", ErrResponseInvalid, code)
	}
	return payload.toDiscount(), nil
}

// GetDiscountByID 按 ID 查询
func (cl *DiscountClient) GetDiscountByID(ctx context.Context, id uint) (*Discount, error) {
	var payload discountPayload
	if err := cl.c.getJSON(ctx, "/discounts/"+strconv.FormatUint(uint64(id), 10), &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("%w: discount %d missing id", ErrResponseInvalid, id)
	}
	return payload.toDiscount(), nil
}
