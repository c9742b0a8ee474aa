package public

import (
	"strconv"
	"strings"

	"github.com/dujiao-next/cart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// parseUintParam 解析正整数路径参数，失败时直接返回 400
func parseUintParam(c *gin.Context, name, invalidKey string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return uint(value), true
}

func getTargetUserID(c *gin.Context) (uint, bool) {
	return parseUintParam(c, "user", "error.user_id_invalid")
}

func getCartNumber(c *gin.Context) (uint, bool) {
	return parseUintParam(c, "cart", "error.cart_id_invalid")
}
