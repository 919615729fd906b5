package public

import (
	handlershared "github.com/ruda-paints/internal/http/handlers/shared"
	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/i18n"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPaints 简单筛选：category、featured、search、sort、order，不分页
func (h *Handler) ListPaints(c *gin.Context) {
	page, err := h.PaintService.List(service.BuildSimpleQuery(c.Request.URL.Query()))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"items": page.Items,
		"total": page.Total,
	})
}

// SearchPaints 高级搜索，带分页
func (h *Handler) SearchPaints(c *gin.Context) {
	query := service.BuildAdvancedQuery(c.Request.URL.Query(), h.PaintService.Paging())
	page, err := h.PaintService.List(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, page.Items, response.NewPagination(page.Total, page.Page, page.Limit))
}

// FeaturedPaints 推荐商品
func (h *Handler) FeaturedPaints(c *gin.Context) {
	h.respondShowcase(c, h.PaintService.Featured)
}

// NewArrivalPaints 新品
func (h *Handler) NewArrivalPaints(c *gin.Context) {
	h.respondShowcase(c, h.PaintService.NewArrivals)
}

// OnSalePaints 促销商品
func (h *Handler) OnSalePaints(c *gin.Context) {
	h.respondShowcase(c, h.PaintService.OnSale)
}

func (h *Handler) respondShowcase(c *gin.Context, load func(limit int) ([]models.Paint, error)) {
	items, err := load(handlershared.QueryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// GetPaint 商品详情，非法 ID 与不存在同样返回 404
func (h *Handler) GetPaint(c *gin.Context) {
	paint, err := h.PaintService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	response.Success(c, paint)
}

// RatePaintRequest 评分请求
type RatePaintRequest struct {
	Rating *float64 `json:"rating" binding:"required"`
}

// RatePaint 提交一次评分
func (h *Handler) RatePaint(c *gin.Context) {
	var req RatePaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	paint, err := h.PaintService.ApplyRating(c.Param("id"), *req.Rating)
	if err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.rating_recorded"), gin.H{
		"id":           paint.ID,
		"rating":       paint.Rating,
		"review_count": paint.ReviewCount,
	})
}
