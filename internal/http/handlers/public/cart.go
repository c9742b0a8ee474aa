package public

import (
	"errors"

	"github.com/dujiao-next/cart/internal/http/response"
	"github.com/dujiao-next/cart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CartLineRequest 购物车行请求
type CartLineRequest struct {
	ProductID uint `json:"product_id" binding:"required,gt=0"`
	Quantity  int  `json:"qty" binding:"required,gt=0"`
}

// CartRequest 购物车请求（创建与整体替换共用）
type CartRequest struct {
	Lines        []CartLineRequest `json:"lines" binding:"dive"`
	DiscountCode *string           `json:"discount_code"`
}

func (r CartRequest) toInput() service.CartInput {
	lines := make([]service.CartLineInput, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, service.CartLineInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return service.CartInput{Lines: lines, DiscountCode: r.DiscountCode}
}

// bindCartRequest 解析请求体；字段校验失败与 JSON 格式错误使用不同提示
func bindCartRequest(c *gin.Context) (CartRequest, bool) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			respondError(c, response.CodeBadRequest, "error.cart_line_invalid", nil)
			return req, false
		}
		respondError(c, response.CodeBadRequest, "error.cart_payload_invalid", nil)
		return req, false
	}
	return req, true
}

// CreateCart 创建购物车
func (h *Handler) CreateCart(c *gin.Context) {
	uid, ok := getTargetUserID(c)
	if !ok {
		return
	}
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	cartNumber, err := h.CartService.CreateCart(c.Request.Context(), uid, req.toInput())
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Created(c, gin.H{"cart_id": cartNumber})
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getTargetUserID(c)
	if !ok {
		return
	}
	cartNumber, ok := getCartNumber(c)
	if !ok {
		return
	}

	view, err := h.CartService.GetCart(c.Request.Context(), uid, cartNumber)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCart 整体替换购物车
func (h *Handler) UpdateCart(c *gin.Context) {
	uid, ok := getTargetUserID(c)
	if !ok {
		return
	}
	cartNumber, ok := getCartNumber(c)
	if !ok {
		return
	}
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	if err := h.CartService.UpdateCart(c.Request.Context(), uid, cartNumber, req.toInput()); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCart 删除购物车
func (h *Handler) DeleteCart(c *gin.Context) {
	uid, ok := getTargetUserID(c)
	if !ok {
		return
	}
	cartNumber, ok := getCartNumber(c)
	if !ok {
		return
	}

	if err := h.CartService.DeleteCart(c.Request.Context(), uid, cartNumber); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
