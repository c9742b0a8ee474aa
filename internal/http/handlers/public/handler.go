package public

import "github.com/dujiao-next/cart/internal/provider"

// Handler 客户购物车接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
