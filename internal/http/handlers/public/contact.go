package public

import (
	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/i18n"
	"github.com/ruda-paints/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitContact 提交留言
func (h *Handler) SubmitContact(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	msg, err := h.ContactService.Submit(req, service.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.contact_received"), gin.H{
		"id":         msg.ID,
		"status":     msg.Status,
		"created_at": msg.CreatedAt,
	})
}
