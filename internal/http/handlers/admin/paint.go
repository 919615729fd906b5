package admin

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/i18n"
	"github.com/ruda-paints/internal/service"

	"github.com/gin-gonic/gin"
)

const maxPaintFormMemory = 8 << 20

// CreatePaint 新建商品，multipart 表单，可附带 image 文件
func (h *Handler) CreatePaint(c *gin.Context) {
	in, ok := h.bindPaintForm(c)
	if !ok {
		return
	}
	paint, err := h.PaintService.Create(in)
	if err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.paint_created"), paint)
}

// UpdatePaint 更新商品，只写入表单中出现的字段
func (h *Handler) UpdatePaint(c *gin.Context) {
	in, ok := h.bindPaintForm(c)
	if !ok {
		return
	}
	paint, err := h.PaintService.Update(c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.paint_updated"), paint)
}

// DeletePaint 删除商品及其图片
func (h *Handler) DeletePaint(c *gin.Context) {
	if err := h.PaintService.Delete(c.Param("id")); err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.paint_deleted"), nil)
}

// flexibleID 兼容 JSON 数字与字符串形式的 ID
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	*f = flexibleID(strings.Trim(strings.TrimSpace(string(b)), `"`))
	return nil
}

// BulkDeleteRequest 批量删除请求
type BulkDeleteRequest struct {
	IDs []flexibleID `json:"ids"`
}

// BulkDeletePaints 批量删除，非法 ID 被忽略
func (h *Handler) BulkDeletePaints(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		ids = append(ids, string(id))
	}
	deleted, err := h.PaintService.BulkDelete(ids)
	if err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), "message.paints_deleted", deleted)
	response.SuccessWithMsg(c, msg, gin.H{"deleted_count": deleted})
}

// AdjustStockRequest 库存调整，正数入库、负数出库
type AdjustStockRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// AdjustPaintStock 原子调整库存
func (h *Handler) AdjustPaintStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	paint, err := h.PaintService.AdjustStock(c.Param("id"), *req.Delta)
	if err != nil {
		respondServiceError(c, err, paintErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.stock_updated"), paint)
}

// GetPaintStatistics 商品统计
func (h *Handler) GetPaintStatistics(c *gin.Context) {
	stats, err := h.PaintService.Statistics()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}

// bindPaintForm 解析表单并落盘图片；失败时已写出响应
func (h *Handler) bindPaintForm(c *gin.Context) (service.PaintInput, bool) {
	values, file, err := readPaintForm(c.Request)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.PaintInput{}, false
	}
	in, err := service.ParsePaintForm(values)
	if err != nil {
		respondServiceError(c, err)
		return service.PaintInput{}, false
	}
	if file != nil {
		path, err := h.UploadService.SaveImage(file)
		if err != nil {
			respondServiceError(c, err)
			return service.PaintInput{}, false
		}
		in.ImagePath = path
	}
	return in, true
}

func readPaintForm(r *http.Request) (map[string][]string, *multipart.FileHeader, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxPaintFormMemory); err != nil {
			return nil, nil, err
		}
		var file *multipart.FileHeader
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			file = files[0]
		}
		return r.MultipartForm.Value, file, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	return r.PostForm, nil, nil
}
