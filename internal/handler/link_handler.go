package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/altee/internal/service"
	"github.com/altee/internal/validate"
	"github.com/gin-gonic/gin"
)

// GetLinks 获取当前用户的全部链接（包含停用项）
func (a *API) GetLinks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	links, err := a.links.ListByUser(userID, true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取链接列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "links": links})
}

// GetPublicLinks 获取指定用户名对外公开的链接，无需登录
func (a *API) GetPublicLinks(c *gin.Context) {
	links, err := a.links.ListPublic(c.Param("username"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "用户不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取链接列表失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "links": links})
}

// CreateLink 为当前用户创建链接
func (a *API) CreateLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	input, ok := bindLinkInput(c)
	if !ok {
		return
	}

	created, err := a.links.Create(userID, input)
	if err != nil {
		respondLinkError(c, err, "创建链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "link": created, "message": "链接创建成功"})
}

// UpdateLink 更新当前用户的链接
func (a *API) UpdateLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	input, ok := bindLinkInput(c)
	if !ok {
		return
	}

	updated, err := a.links.Update(linkID, userID, input)
	if err != nil {
		respondLinkError(c, err, "更新链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "link": updated, "message": "链接更新成功"})
}

// DeleteLink 删除当前用户的链接
func (a *API) DeleteLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	if err := a.links.Delete(linkID, userID); err != nil {
		respondLinkError(c, err, "删除链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "链接删除成功"})
}

// ReorderLinks 批量重排当前用户的链接
func (a *API) ReorderLinks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	items, ok := bindReorder(c)
	if !ok {
		return
	}

	if err := a.links.Reorder(userID, items); err != nil {
		respondReorderError(c, err, "重排链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "链接排序已更新"})
}

// UploadLinkIcon 上传用户自定义图标，返回可引用的访问路径
func (a *API) UploadLinkIcon(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	url, err := a.storage.SaveImage(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImage):
			respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		default:
			respondError(c, http.StatusInternalServerError, "保存图片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "message": "上传成功"})
}

// bindLinkInput 解析并校验链接请求体，失败时已写出响应
func bindLinkInput(c *gin.Context) (service.LinkInput, bool) {
	var payload validate.LinkPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return service.LinkInput{}, false
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return service.LinkInput{}, false
	}

	// 空串 IconID 已在归一化中保留为空，这里统一转为"未选择图标"
	var iconID *uint
	if payload.IconID != "" {
		parsed, err := strconv.ParseUint(payload.IconID, 10, 32)
		if err != nil {
			respondValidation(c, validate.Errors{{Field: "icon_id", Message: "must be numeric"}})
			return service.LinkInput{}, false
		}
		value := uint(parsed)
		iconID = &value
	}

	return service.LinkInput{
		URL:             payload.URL,
		Title:           payload.Title,
		Description:     payload.Description,
		ServiceID:       payload.ServiceID,
		IconID:          iconID,
		UseOriginalIcon: *payload.UseOriginalIcon,
		OriginalIconURL: payload.OriginalIconURL,
		IsActive:        *payload.IsActive,
	}, true
}

// respondLinkError 统一映射链接操作的失败
func respondLinkError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		respondError(c, http.StatusNotFound, "链接不存在")
	case errors.Is(err, service.ErrLinkNotOwned):
		respondError(c, http.StatusForbidden, "无权操作他人的链接")
	case errors.Is(err, service.ErrServiceNotFound):
		respondError(c, http.StatusBadRequest, "所选服务不存在")
	case errors.Is(err, service.ErrIconNotFound):
		respondError(c, http.StatusBadRequest, "所选图标不存在")
	case errors.Is(err, service.ErrIconServiceMismatch):
		respondError(c, http.StatusBadRequest, "所选图标不属于该服务")
	case errors.Is(err, service.ErrOriginalIconNotAllowed):
		respondError(c, http.StatusBadRequest, "该服务不允许使用自定义图标")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
