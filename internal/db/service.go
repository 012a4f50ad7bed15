package db

import "gorm.io/gorm"

// Service 表示目录中可被链接的外部平台（如 Twitter）
// Name 与 Slug 在全部服务中各自唯一
// AllowOriginalIcon 允许用户为该服务上传自定义图标
// SortOrder 值越小越靠前
type Service struct {
	gorm.Model
	Name              string `gorm:"size:100;unique;not null" json:"name"`
	Slug              string `gorm:"size:100;unique;not null" json:"slug"`
	Description       string `gorm:"size:255" json:"description"`
	BaseURL           string `gorm:"size:255" json:"base_url"`
	AllowOriginalIcon bool   `gorm:"default:true" json:"allow_original_icon"`
	IsActive          bool   `gorm:"default:true" json:"is_active"`
	SortOrder         int    `gorm:"default:0" json:"sort_order"`
	Icons             []Icon `json:"-"`
}

// TableName 返回自定义表名
func (Service) TableName() string {
	return "services"
}
