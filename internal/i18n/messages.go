package i18n

var messages = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录或登录已过期",
		"error.forbidden":                "无权访问",
		"error.not_found":                "资源不存在",
		"error.too_many_requests":        "请求过于频繁，请稍后再试",
		"error.internal":                 "服务器内部错误",
		"error.auth_header_missing":      "缺少认证信息",
		"error.auth_header_invalid":      "认证信息格式错误",
		"error.token_invalid":            "令牌无效",
		"error.jwt_secret_missing":       "认证服务未配置",
		"error.user_id_invalid":          "用户 ID 无效",
		"error.cart_id_invalid":          "购物车编号无效",
		"error.cart_payload_invalid":     "购物车内容无效",
		"error.cart_line_invalid":        "购物车行无效：商品 ID 与数量必须为正数",
		"error.cart_not_found":           "购物车不存在",
		"error.customer_not_found":       "客户不存在",
		"error.product_not_found":        "商品不存在",
		"error.discount_period_invalid":  "优惠码不在有效期内",
		"error.upstream_unavailable":     "依赖服务暂时不可用",
		"error.storage_failure":          "数据保存失败",
		"error.service_misconfigured":    "服务配置错误",
		"error.service_unhealthy":        "服务不可用",
		"error.rate_limit_window":        "请求过于频繁，请 %d 秒后再试",
		"error.rate_limited":             "操作过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":   "限流服务暂不可用",
		"error.request_entity_too_large": "请求体过大",
	},
	LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.unauthorized":             "Not signed in or session expired",
		"error.forbidden":                "Access denied",
		"error.not_found":                "Resource not found",
		"error.too_many_requests":        "Too many requests, please try again later",
		"error.internal":                 "Internal server error",
		"error.auth_header_missing":      "Missing authorization header",
		"error.auth_header_invalid":      "Malformed authorization header",
		"error.token_invalid":            "Invalid token",
		"error.jwt_secret_missing":       "Authentication is not configured",
		"error.user_id_invalid":          "Invalid user id",
		"error.cart_id_invalid":          "Invalid cart id",
		"error.cart_payload_invalid":     "Invalid cart payload",
		"error.cart_line_invalid":        "Invalid cart line: product id and quantity must be positive",
		"error.cart_not_found":           "Cart not found",
		"error.customer_not_found":       "Customer not found",
		"error.product_not_found":        "Product not found",
		"error.discount_period_invalid":  "Discount code is not valid at this time",
		"error.upstream_unavailable":     "A dependent service is temporarily unavailable",
		"error.storage_failure":          "Failed to save data",
		"error.service_misconfigured":    "Service is misconfigured",
		"error.service_unhealthy":        "Service unavailable",
		"error.rate_limit_window":        "Too many requests, please retry in %d seconds",
		"error.rate_limited":             "Too many cart changes, please retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiting is temporarily unavailable",
		"error.request_entity_too_large": "Request body too large",
	},
}
