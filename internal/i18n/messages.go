package i18n

var catalogs = map[string]map[string]string{
	LocaleEN: {
		"success":                               "success",
		"error.bad_request":                     "Invalid request",
		"error.unauthorized":                    "Authentication required",
		"error.token_invalid":                   "Invalid or expired token",
		"error.forbidden":                       "You do not have permission to perform this action",
		"error.not_found":                       "Resource not found",
		"error.paint_not_found":                 "Paint not found",
		"error.contact_not_found":               "Contact message not found",
		"error.subscriber_not_found":            "Subscriber not found",
		"error.validation":                      "Validation failed",
		"error.conflict":                        "Resource already exists",
		"error.sku_conflict":                    "A paint with this SKU already exists",
		"error.admin_conflict":                  "An admin with this username or email already exists",
		"error.insufficient_stock":              "Insufficient stock",
		"error.invalid_credentials":             "Invalid username or password",
		"error.admin_disabled":                  "This admin account is disabled",
		"error.invalid_password":                "Current password is incorrect",
		"error.password_min_length":             "Password must be at least %d characters",
		"error.password_require_upper":          "Password must contain an uppercase letter",
		"error.password_require_lower":          "Password must contain a lowercase letter",
		"error.password_require_number":         "Password must contain a number",
		"error.captcha_required":                "Captcha is required",
		"error.captcha_invalid":                 "Captcha is incorrect",
		"error.too_many_requests":               "Too many requests, please try again later",
		"error.rate_limited":                    "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":          "Rate limiting is temporarily unavailable",
		"error.internal":                        "Internal server error",
		"error.already_subscribed":              "This email is already subscribed",
		"error.upload_invalid":                  "Only image files up to 5MB are allowed",
		"error.admin_id_invalid":                "Invalid admin identity",
		"message.paint_created":                 "Paint created successfully",
		"message.paint_updated":                 "Paint updated successfully",
		"message.paint_deleted":                 "Paint deleted successfully",
		"message.paints_deleted":                "%d paints deleted successfully",
		"message.stock_updated":                 "Stock updated successfully",
		"message.rating_recorded":               "Rating recorded",
		"message.contact_received":              "Thank you for contacting us! We will get back to you soon.",
		"message.contact_updated":               "Contact message updated",
		"message.contact_deleted":               "Contact message deleted",
		"message.contact_responded":             "Response sent successfully",
		"message.subscribed":                    "Successfully subscribed to the newsletter",
		"message.resubscribed":                  "Welcome back! Your subscription has been reactivated",
		"message.unsubscribed":                  "Successfully unsubscribed from the newsletter",
		"message.password_changed":              "Password changed successfully",
		"email.contact_notify.subject":          "New contact message: %s",
		"email.contact_notify.body":             "Name: %s\nEmail: %s\nPhone: %s\nCategory: %s\nPriority: %s\nSubject: %s\n\n%s",
		"email.contact_reply.subject":           "Re: %s",
		"email.contact_reply.body":              "Dear %s,\n\n%s\n\n---\nYour original message:\n%s\n\nBest regards,\n%s",
		"email.newsletter_welcome.subject":      "Welcome to the %s newsletter",
		"email.newsletter_welcome.body":         "Hi %s,\n\nThank you for subscribing to %s updates. We will keep you posted on new products, offers and painting tips.\n\nTo unsubscribe at any time, visit:\n%s",
		"email.newsletter_welcome.default_name": "there",
	},
	LocaleZH: {
		"success":                       "成功",
		"error.bad_request":             "请求参数错误",
		"error.unauthorized":            "请先登录",
		"error.token_invalid":           "登录凭证无效或已过期",
		"error.forbidden":               "没有执行该操作的权限",
		"error.not_found":               "资源不存在",
		"error.paint_not_found":         "商品不存在",
		"error.contact_not_found":       "留言不存在",
		"error.subscriber_not_found":    "订阅者不存在",
		"error.validation":              "参数校验失败",
		"error.conflict":                "资源已存在",
		"error.sku_conflict":            "SKU 已存在",
		"error.admin_conflict":          "用户名或邮箱已被使用",
		"error.insufficient_stock":      "库存不足",
		"error.invalid_credentials":     "用户名或密码错误",
		"error.admin_disabled":          "管理员账号已停用",
		"error.invalid_password":        "原密码错误",
		"error.password_min_length":     "密码长度至少为 %d 位",
		"error.password_require_upper":  "密码必须包含大写字母",
		"error.password_require_lower":  "密码必须包含小写字母",
		"error.password_require_number": "密码必须包含数字",
		"error.captcha_required":        "请输入验证码",
		"error.captcha_invalid":         "验证码错误",
		"error.too_many_requests":       "请求过于频繁，请稍后再试",
		"error.rate_limited":            "请求过于频繁，请在 %d 秒后重试",
		"error.rate_limit_unavailable":  "限流服务暂不可用",
		"error.internal":                "服务器内部错误",
		"error.already_subscribed":      "该邮箱已订阅",
		"error.upload_invalid":          "仅允许上传 5MB 以内的图片",
		"error.admin_id_invalid":        "管理员身份无效",
		"message.paint_created":         "商品创建成功",
		"message.paint_updated":         "商品更新成功",
		"message.paint_deleted":         "商品删除成功",
		"message.paints_deleted":        "已删除 %d 个商品",
		"message.stock_updated":         "库存已更新",
		"message.rating_recorded":       "评分已记录",
		"message.contact_received":      "感谢您的留言，我们会尽快回复。",
		"message.contact_updated":       "留言已更新",
		"message.contact_deleted":       "留言已删除",
		"message.contact_responded":     "回复已发送",
		"message.subscribed":            "订阅成功",
		"message.resubscribed":          "欢迎回来，订阅已恢复",
		"message.unsubscribed":          "已取消订阅",
		"message.password_changed":      "密码修改成功",
	},
}
