package public

import (
	"errors"

	"github.com/dujiao-next/cart/internal/http/response"
	"github.com/dujiao-next/cart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
	// log 为 true 时记录原始错误（服务端错误）
	log bool
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			var cause error
			if rule.log {
				cause = err
			}
			respondError(c, rule.code, rule.key, cause)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

// cartErrorRules 购物车错误映射；状态码与错误类别的对应关系只在这里维护
var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartLineInvalid, code: response.CodeBadRequest, key: "error.cart_line_invalid"},
	{target: service.ErrCustomerNotFound, code: response.CodeBadRequest, key: "error.customer_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrDiscountPeriodInvalid, code: response.CodeBadRequest, key: "error.discount_period_invalid"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrUpstreamUnavailable, code: response.CodeInternal, key: "error.upstream_unavailable", log: true},
	{target: service.ErrStorageFailure, code: response.CodeInternal, key: "error.storage_failure", log: true},
	{target: service.ErrMisconfigured, code: response.CodeInternal, key: "error.service_misconfigured", log: true},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
}
