package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/altee/internal/db"
	"github.com/altee/internal/service"
	"github.com/altee/internal/validate"
	"github.com/gin-gonic/gin"
)

// GetIcons 获取全部图标，仅后台使用
// 一并返回可选的风格与配色枚举，供后台表单渲染
func (a *API) GetIcons(c *gin.Context) {
	icons, err := a.icons.List(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取图标列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"icons":         icons,
		"styles":        db.IconStyles,
		"color_schemes": db.IconColorSchemes,
	})
}

// GetServiceIcons 获取指定服务下的图标
// 普通用户只能看到启用的图标
func (a *API) GetServiceIcons(c *gin.Context) {
	serviceID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的服务ID")
		return
	}

	icons, err := a.icons.ListByService(serviceID, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			respondError(c, http.StatusNotFound, "服务不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取图标列表失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "icons": icons})
}

// CreateIcon 上传并创建图标，表单字段与图片文件一并提交
func (a *API) CreateIcon(c *gin.Context) {
	payload := validate.IconPayload{
		Name:        c.PostForm("name"),
		Style:       c.PostForm("style"),
		ColorScheme: c.PostForm("color_scheme"),
		Description: c.PostForm("description"),
	}

	if raw := strings.TrimSpace(c.PostForm("service_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			payload.ServiceID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.PostForm("is_active")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			payload.IsActive = &parsed
		}
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图标文件")
		return
	}

	asset, err := a.storage.SaveIcon(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImage):
			respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		default:
			respondError(c, http.StatusInternalServerError, "保存图标文件失败")
		}
		return
	}

	uploaderID, _ := currentUserID(c)
	created, err := a.icons.Create(service.IconInput{
		Name:          payload.Name,
		FilePath:      asset.FilePath,
		ThumbnailPath: asset.ThumbnailPath,
		Style:         payload.Style,
		ColorScheme:   payload.ColorScheme,
		Description:   payload.Description,
		IsActive:      *payload.IsActive,
		ServiceID:     payload.ServiceID,
		UploaderID:    uploaderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			respondError(c, http.StatusNotFound, "服务不存在")
		default:
			respondError(c, http.StatusInternalServerError, "创建图标失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "icon": created, "message": "图标创建成功"})
}

// UpdateIcon 部分更新图标
func (a *API) UpdateIcon(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图标ID")
		return
	}

	var payload validate.IconPatchPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return
	}

	updated, err := a.icons.Update(id, service.IconPatch{
		Name:        payload.Name,
		Style:       payload.Style,
		ColorScheme: payload.ColorScheme,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIconNotFound):
			respondError(c, http.StatusNotFound, "图标不存在")
		default:
			respondError(c, http.StatusInternalServerError, "更新图标失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "icon": updated, "message": "图标更新成功"})
}

// DeleteIcon 删除图标
func (a *API) DeleteIcon(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图标ID")
		return
	}

	if err := a.icons.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrIconNotFound):
			respondError(c, http.StatusNotFound, "图标不存在")
		case errors.Is(err, service.ErrIconInUse):
			respondError(c, http.StatusBadRequest, "图标正在被使用，无法删除")
		default:
			respondError(c, http.StatusInternalServerError, "删除图标失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "图标删除成功"})
}

// ReorderServiceIcons 批量重排指定服务下的图标
func (a *API) ReorderServiceIcons(c *gin.Context) {
	serviceID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的服务ID")
		return
	}

	items, ok := bindReorder(c)
	if !ok {
		return
	}

	if err := a.icons.Reorder(serviceID, items); err != nil {
		respondReorderError(c, err, "重排图标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "图标排序已更新"})
}
