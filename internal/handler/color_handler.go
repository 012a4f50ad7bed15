package handler

import (
	"errors"
	"net/http"

	"github.com/altee/internal/service"
	"github.com/altee/internal/validate"
	"github.com/gin-gonic/gin"
)

// GetColors 获取配色目录，普通用户只能看到启用项
func (a *API) GetColors(c *gin.Context) {
	colors, err := a.colors.List(isAdmin(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取配色列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "colors": colors})
}

// CreateColor 创建配色
func (a *API) CreateColor(c *gin.Context) {
	var payload validate.ColorPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return
	}

	created, err := a.colors.Create(service.ColorInput{
		Name:     payload.Name,
		Code:     payload.Code,
		IsActive: *payload.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrColorDuplicate):
			respondError(c, http.StatusBadRequest, "配色名称已被使用")
		default:
			respondError(c, http.StatusInternalServerError, "创建配色失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "color": created, "message": "配色创建成功"})
}

// UpdateColor 更新配色
func (a *API) UpdateColor(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的配色ID")
		return
	}

	var payload validate.ColorPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return
	}

	updated, err := a.colors.Update(id, service.ColorInput{
		Name:     payload.Name,
		Code:     payload.Code,
		IsActive: *payload.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrColorNotFound):
			respondError(c, http.StatusNotFound, "配色不存在")
		case errors.Is(err, service.ErrColorDuplicate):
			respondError(c, http.StatusBadRequest, "配色名称已被使用")
		default:
			respondError(c, http.StatusInternalServerError, "更新配色失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "color": updated, "message": "配色更新成功"})
}

// DeleteColor 删除配色
func (a *API) DeleteColor(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的配色ID")
		return
	}

	if err := a.colors.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrColorNotFound):
			respondError(c, http.StatusNotFound, "配色不存在")
		default:
			respondError(c, http.StatusInternalServerError, "删除配色失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "配色删除成功"})
}

// ReorderColors 批量重排配色目录
func (a *API) ReorderColors(c *gin.Context) {
	items, ok := bindReorder(c)
	if !ok {
		return
	}

	if err := a.colors.Reorder(items); err != nil {
		respondReorderError(c, err, "重排配色失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "配色排序已更新"})
}
