package admin

import (
	"strconv"

	handlershared "github.com/ruda-paints/internal/http/handlers/shared"
	"github.com/ruda-paints/internal/http/response"
	"github.com/ruda-paints/internal/i18n"
	"github.com/ruda-paints/internal/repository"
	"github.com/ruda-paints/internal/service"

	"github.com/gin-gonic/gin"
)

// ListContacts 留言列表
func (h *Handler) ListContacts(c *gin.Context) {
	page, err := h.ContactService.List(repository.ContactListFilter{
		Page:      handlershared.QueryInt(c, "page"),
		PageSize:  handlershared.QueryInt(c, "limit"),
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		Priority:  c.Query("priority"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, page.Items, response.NewPagination(page.Total, page.Page, page.Limit))
}

// GetContactStatistics 留言统计
func (h *Handler) GetContactStatistics(c *gin.Context) {
	stats, err := h.ContactService.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}

// GetContact 留言详情，未读留言同时标记已读
func (h *Handler) GetContact(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	msg, err := h.ContactService.Get(id)
	if err != nil {
		respondServiceError(c, err, contactErrorRules...)
		return
	}
	response.Success(c, msg)
}

// UpdateContactStatus 修改状态、优先级或分类
func (h *Handler) UpdateContactStatus(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	var req service.ContactUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	msg, err := h.ContactService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, contactErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.contact_updated"), msg)
}

// RespondContactRequest 回复请求
type RespondContactRequest struct {
	Response string `json:"response"`
}

// RespondContact 回复留言并发邮件给客户
func (h *Handler) RespondContact(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	var req RespondContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	msg, err := h.ContactService.Respond(id, req.Response, adminID)
	if err != nil {
		respondServiceError(c, err, contactErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.contact_responded"), msg)
}

// DeleteContact 删除留言
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	if err := h.ContactService.Delete(id); err != nil {
		respondServiceError(c, err, contactErrorRules...)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.contact_deleted"), nil)
}

func parseContactID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeNotFound, "error.contact_not_found", nil)
		return 0, false
	}
	return uint(id), true
}
