package public

import (
	"github.com/ruda-paints/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPriceList 按分类分组的价目表
func (h *Handler) GetPriceList(c *gin.Context) {
	view, err := h.PriceListService.BuildGroupedView()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// DownloadPriceList 下载价目表附件，format=csv|excel
func (h *Handler) DownloadPriceList(c *gin.Context) {
	file, err := h.PriceListService.Export(c.Query("format"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("price_list_downloaded", "filename", file.Filename, "bytes", len(file.Data))
	response.File(c, file.Filename, file.ContentType, file.Data)
}
