package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt 读取整数查询参数，缺失或非法时返回 0，由 service 层套用默认值。
func QueryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
