package admin

import (
	handlershared "github.com/ruda-paints/internal/http/handlers/shared"
	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var paintErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.paint_not_found"},
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.sku_conflict"},
}

var contactErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.contact_not_found"},
}

var adminErrorRules = []handlershared.MappedError{
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.admin_conflict"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, rules ...handlershared.MappedError) {
	handlershared.RespondServiceError(c, err, rules...)
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetAdminID(c)
}
