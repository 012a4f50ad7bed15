package db

import "gorm.io/gorm"

// Color 表示后台维护的配色目录
// Code 保存十六进制色值，SortOrder 在配色目录内排序
type Color struct {
	gorm.Model
	Name      string `gorm:"size:50;unique;not null" json:"name"`
	Code      string `gorm:"size:9;not null" json:"code"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

// TableName 返回自定义表名
func (Color) TableName() string {
	return "colors"
}
