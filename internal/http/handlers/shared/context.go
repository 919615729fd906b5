package shared

import (
	"github.com/ruda-paints/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入上下文的键
const (
	ContextAdminID   = "admin_id"
	ContextAdminRole = "admin_role"
)

// GetAdminID 读取当前管理员 ID，缺失时直接写出错误响应。
func GetAdminID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextAdminID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "error.admin_id_invalid", nil)
		return 0, false
	}
}
