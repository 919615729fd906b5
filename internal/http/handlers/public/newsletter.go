package public

import (
	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/i18n"
	"github.com/ruda-paints/internal/service"

	"github.com/gin-gonic/gin"
)

// Subscribe 订阅邮件
func (h *Handler) Subscribe(c *gin.Context) {
	var req service.SubscribeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	sub, outcome, err := h.NewsletterService.Subscribe(req)
	if err != nil {
		respondServiceError(c, err, newsletterErrorRules...)
		return
	}
	key := "message.subscribed"
	if outcome == service.SubscribeReactivated {
		key = "message.resubscribed"
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), gin.H{
		"email":         sub.Email,
		"preferences":   sub.Preferences,
		"subscribed_at": sub.SubscribedAt,
		"outcome":       outcome,
	})
}

// UnsubscribeRequest 退订请求，邮箱与令牌二选一
type UnsubscribeRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Unsubscribe 通过请求体退订
func (h *Handler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	h.unsubscribe(c, req.Email, req.Token)
}

// UnsubscribeLink 欢迎邮件中的一键退订链接
func (h *Handler) UnsubscribeLink(c *gin.Context) {
	h.unsubscribe(c, c.Query("email"), c.Query("token"))
}

func (h *Handler) unsubscribe(c *gin.Context, email, token string) {
	sub, err := h.NewsletterService.Unsubscribe(email, token)
	if err != nil {
		respondServiceError(c, err, newsletterErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.unsubscribed"), gin.H{
		"email":           sub.Email,
		"unsubscribed_at": sub.UnsubscribedAt,
	})
}

// CheckSubscription 查询邮箱订阅状态
func (h *Handler) CheckSubscription(c *gin.Context) {
	status, err := h.NewsletterService.Check(c.Param("email"))
	if err != nil {
		respondServiceError(c, err, newsletterErrorRules...)
		return
	}
	response.Success(c, status)
}
