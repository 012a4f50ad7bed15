package db

import "gorm.io/gorm"

// 图标风格枚举
const (
	IconStyleFilled   = "FILLED"
	IconStyleOutline  = "OUTLINE"
	IconStyleMinimal  = "MINIMAL"
	IconStyleGradient = "GRADIENT"
	IconStyleThreeD   = "THREE_D"
)

// 图标配色枚举
const (
	IconColorOriginal   = "ORIGINAL"
	IconColorMonochrome = "MONOCHROME"
	IconColorWhite      = "WHITE"
	IconColorBlack      = "BLACK"
	IconColorCustom     = "CUSTOM"
)

// IconStyles 列出全部合法的图标风格
var IconStyles = []string{
	IconStyleFilled,
	IconStyleOutline,
	IconStyleMinimal,
	IconStyleGradient,
	IconStyleThreeD,
}

// IconColorSchemes 列出全部合法的图标配色
var IconColorSchemes = []string{
	IconColorOriginal,
	IconColorMonochrome,
	IconColorWhite,
	IconColorBlack,
	IconColorCustom,
}

// Icon 表示归属于某个服务的图标素材
// FilePath/ThumbnailPath 仅保存对象存储中的引用，不存储图片字节
// SortOrder 在所属服务范围内排序
type Icon struct {
	gorm.Model
	Name          string `gorm:"size:100;not null" json:"name"`
	FilePath      string `gorm:"size:255;not null" json:"file_path"`
	ThumbnailPath string `gorm:"size:255" json:"thumbnail_path"`
	Style         string `gorm:"size:20;not null" json:"style"`
	ColorScheme   string `gorm:"size:20;not null" json:"color_scheme"`
	Description   string `gorm:"size:255" json:"description"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
	SortOrder     int    `gorm:"default:0" json:"sort_order"`
	ServiceID     uint   `gorm:"not null;index" json:"service_id"`
	UploaderID    uint   `gorm:"index" json:"uploader_id"`
}

// TableName 返回自定义表名
func (Icon) TableName() string {
	return "icons"
}
