package handler

import (
	"errors"
	"net/http"

	"github.com/altee/internal/service"
	"github.com/altee/internal/validate"
	"github.com/gin-gonic/gin"
)

// GetServices 获取服务目录
// 管理员可以使用查询参数过滤并查看停用项，普通用户只能看到启用的服务
func (a *API) GetServices(c *gin.Context) {
	filter := service.ServiceFilter{}

	if isAdmin(c) {
		filter.Search = c.Query("search")
		filter.IsActive = parseBoolQuery(c, "is_active")
		filter.AllowOriginalIcon = parseBoolQuery(c, "allow_original_icon")
	} else {
		activeOnly := true
		filter.IsActive = &activeOnly
	}

	services, err := a.catalog.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取服务列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

// CreateService 创建服务
func (a *API) CreateService(c *gin.Context) {
	var payload validate.ServicePayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return
	}

	created, err := a.catalog.Create(service.ServiceInput{
		Name:              payload.Name,
		Slug:              payload.Slug,
		Description:       payload.Description,
		BaseURL:           payload.BaseURL,
		AllowOriginalIcon: *payload.AllowOriginalIcon,
		IsActive:          *payload.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceDuplicate):
			respondError(c, http.StatusBadRequest, "服务名称或别名已被使用")
		default:
			respondError(c, http.StatusInternalServerError, "创建服务失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "service": created, "message": "服务创建成功"})
}

// UpdateService 部分更新服务
func (a *API) UpdateService(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的服务ID")
		return
	}

	var payload validate.ServicePatchPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	payload.Normalize()
	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return
	}

	updated, err := a.catalog.Update(id, service.ServicePatch{
		Name:              payload.Name,
		Slug:              payload.Slug,
		Description:       payload.Description,
		BaseURL:           payload.BaseURL,
		AllowOriginalIcon: payload.AllowOriginalIcon,
		IsActive:          payload.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			respondError(c, http.StatusNotFound, "服务不存在")
		case errors.Is(err, service.ErrServiceDuplicate):
			respondError(c, http.StatusBadRequest, "服务名称或别名已被使用")
		default:
			respondError(c, http.StatusInternalServerError, "更新服务失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "service": updated, "message": "服务更新成功"})
}

// DeleteService 删除服务
func (a *API) DeleteService(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的服务ID")
		return
	}

	if err := a.catalog.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			respondError(c, http.StatusNotFound, "服务不存在")
		case errors.Is(err, service.ErrServiceInUse):
			respondError(c, http.StatusBadRequest, "服务正在被使用，无法删除")
		default:
			respondError(c, http.StatusInternalServerError, "删除服务失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "服务删除成功"})
}

// ReorderServices 批量重排服务目录
func (a *API) ReorderServices(c *gin.Context) {
	items, ok := bindReorder(c)
	if !ok {
		return
	}

	if err := a.catalog.Reorder(items); err != nil {
		respondReorderError(c, err, "重排服务失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "服务排序已更新"})
}

// bindReorder 解析并校验重排请求体，失败时已写出响应
func bindReorder(c *gin.Context) ([]service.OrderItem, bool) {
	var payload validate.ReorderPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return nil, false
	}

	if err := payload.Validate(); err != nil {
		fieldErrors, _ := validate.AsErrors(err)
		respondValidation(c, fieldErrors)
		return nil, false
	}

	items := make([]service.OrderItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, service.OrderItem{ID: item.ID, SortOrder: item.SortOrder})
	}
	return items, true
}

// respondReorderError 统一映射排序子系统的失败
func respondReorderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyOrder), errors.Is(err, service.ErrInvalidOrder):
		respondError(c, http.StatusBadRequest, "排序列表不合法")
	case errors.Is(err, service.ErrOrderTargetMissing):
		respondError(c, http.StatusBadRequest, "排序列表包含不存在的条目")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
