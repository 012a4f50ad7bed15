package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/altee/internal/validate"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondValidation 返回字段级校验错误，固定 400
func respondValidation(c *gin.Context, fieldErrors validate.Errors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "请求参数校验失败",
		"fields":  fieldErrors,
	})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseBoolQuery 解析可选布尔查询参数，未提供时返回 nil
func parseBoolQuery(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
