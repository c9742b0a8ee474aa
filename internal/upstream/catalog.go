package upstream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	catalogService      = "catalog"
	catalogAPIKeyHeader = "DOLAPIKEY"
)

// Customer 客户记录
type Customer struct {
	ID    uint
	Name  string
	Email string
}

// Product 商品记录
type Product struct {
	ID    uint
	Ref   string
	Label string
	Price decimal.Decimal
}

type customerPayload struct {
	ID    flexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

type productPayload struct {
	ID    flexibleID          `json:"id"`
	Ref   string              `json:"ref"`
	Label string              `json:"label"`
	Price decimal.NullDecimal `json:"price"`
}

// CatalogClient ERP 客户端，同时承担客户与商品查询
type CatalogClient struct {
	c *client
}

// NewCatalogClient 创建 ERP 客户端
func NewCatalogClient(opts Options) (*CatalogClient, error) {
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = catalogAPIKeyHeader
	}
	c, err := newClient(catalogService, opts)
	if err != nil {
		return nil, err
	}
	return &CatalogClient{c: c}, nil
}

// GetCustomer 查询客户
func (cl *CatalogClient) GetCustomer(ctx context.Context, id uint) (*Customer, error) {
	var payload customerPayload
	if err := cl.c.getJSON(ctx, "/thirdparties/"+strconv.FormatUint(uint64(id), 10), &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("%w: customer %d missing id", ErrResponseInvalid, id)
	}
	return &Customer{
		ID:    uint(payload.ID),
		Name:  payload.Name,
		Email: payload.Email,
	}, nil
}

// GetProduct 查询商品
func (cl *CatalogClient) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var payload productPayload
	if err := cl.c.getJSON(ctx, "/products/"+strconv.FormatUint(uint64(id), 10), &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("%w: product %d missing id", ErrResponseInvalid, id)
	}
	product := &Product{
		ID:    uint(payload.ID),
		Ref:   payload.Ref,
		Label: payload.Label,
	}
	if payload.Price.Valid {
		product.Price = payload.Price.Decimal
	}
	return product, nil
}
