package admin

import (
	"strconv"

	handlershared "github.com/ruda-paints/internal/http/handlers/shared"
	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListSubscribers 订阅者列表，active=true|false 过滤状态
func (h *Handler) ListSubscribers(c *gin.Context) {
	filter := repository.NewsletterListFilter{
		Page:     handlershared.QueryInt(c, "page"),
		PageSize: handlershared.QueryInt(c, "limit"),
		Source:   c.Query("source"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	page, err := h.NewsletterService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, page.Items, response.NewPagination(page.Total, page.Page, page.Limit))
}

// GetNewsletterStatistics 订阅统计
func (h *Handler) GetNewsletterStatistics(c *gin.Context) {
	stats, err := h.NewsletterService.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}
