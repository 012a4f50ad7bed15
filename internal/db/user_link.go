package db

import "gorm.io/gorm"

// UserLink 表示用户主页上的一条链接
// 严格归属于 UserID 对应的用户，仅本人可以增删改
// IconID 可为空；非空时对应图标必须属于同一个服务
// UseOriginalIcon 为真时使用 OriginalIconURL 指向的自定义图标
type UserLink struct {
	gorm.Model
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	URL             string `gorm:"size:500;not null" json:"url"`
	Title           string `gorm:"size:100" json:"title"`
	Description     string `gorm:"size:255" json:"description"`
	SortOrder       int    `gorm:"default:0" json:"sort_order"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
	UseOriginalIcon bool   `gorm:"default:false" json:"use_original_icon"`
	OriginalIconURL string `gorm:"size:255" json:"original_icon_url"`
	ServiceID       uint   `gorm:"not null;index" json:"service_id"`
	IconID          *uint  `gorm:"index" json:"icon_id"`
}

// TableName 返回自定义表名
func (UserLink) TableName() string {
	return "user_links"
}
