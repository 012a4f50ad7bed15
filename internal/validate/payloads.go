package validate

import "strings"

func trimPtr(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}

// ServicePayload 描述创建或更新服务时提交的字段
// AllowOriginalIcon/IsActive 使用指针判断是否显式传入
type ServicePayload struct {
	Name              string `json:"name" validate:"required,max=100"`
	Slug              string `json:"slug" validate:"required,max=100,slug"`
	Description       string `json:"description" validate:"max=255"`
	BaseURL           string `json:"base_url" validate:"omitempty,url"`
	AllowOriginalIcon *bool  `json:"allow_original_icon"`
	IsActive          *bool  `json:"is_active"`
}

// Normalize 去除首尾空白并为缺省布尔值填入默认值
func (p *ServicePayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.TrimSpace(strings.ToLower(p.Slug))
	p.Description = strings.TrimSpace(p.Description)
	p.BaseURL = strings.TrimSpace(p.BaseURL)

	if p.AllowOriginalIcon == nil {
		defaultAllow := true
		p.AllowOriginalIcon = &defaultAllow
	}
	if p.IsActive == nil {
		defaultActive := true
		p.IsActive = &defaultActive
	}
}

// Validate 校验服务负载
func (p *ServicePayload) Validate() error {
	return check(p)
}

// ServicePatchPayload 描述部分更新服务时提交的字段
// nil 字段表示保持原值，非 nil 字段按创建时的规则校验
type ServicePatchPayload struct {
	Name              *string `json:"name" validate:"omitnil,min=1,max=100"`
	Slug              *string `json:"slug" validate:"omitnil,min=1,max=100,slug"`
	Description       *string `json:"description" validate:"omitnil,max=255"`
	BaseURL           *string `json:"base_url" validate:"omitnil,omitempty,url"`
	AllowOriginalIcon *bool   `json:"allow_original_icon"`
	IsActive          *bool   `json:"is_active"`
}

// Normalize 去除非 nil 字段的首尾空白
func (p *ServicePatchPayload) Normalize() {
	trimPtr(p.Name)
	if p.Slug != nil {
		*p.Slug = strings.TrimSpace(strings.ToLower(*p.Slug))
	}
	trimPtr(p.Description)
	trimPtr(p.BaseURL)
}

// Validate 校验服务部分更新负载
func (p *ServicePatchPayload) Validate() error {
	return check(p)
}

// IconPayload 描述创建或更新图标时提交的字段
type IconPayload struct {
	Name        string `json:"name" validate:"required,max=100"`
	ServiceID   uint   `json:"service_id" validate:"required"`
	Style       string `json:"style" validate:"required,oneof=FILLED OUTLINE MINIMAL GRADIENT THREE_D"`
	ColorScheme string `json:"color_scheme" validate:"required,oneof=ORIGINAL MONOCHROME WHITE BLACK CUSTOM"`
	Description string `json:"description" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
}

// Normalize 去除首尾空白并为缺省布尔值填入默认值
func (p *IconPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Style = strings.TrimSpace(strings.ToUpper(p.Style))
	p.ColorScheme = strings.TrimSpace(strings.ToUpper(p.ColorScheme))
	p.Description = strings.TrimSpace(p.Description)

	if p.IsActive == nil {
		defaultActive := true
		p.IsActive = &defaultActive
	}
}

// Validate 校验图标负载
func (p *IconPayload) Validate() error {
	return check(p)
}

// IconPatchPayload 描述部分更新图标时提交的字段
// nil 字段表示保持原值；图标与服务的归属关系不可变更
type IconPatchPayload struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=100"`
	Style       *string `json:"style" validate:"omitnil,oneof=FILLED OUTLINE MINIMAL GRADIENT THREE_D"`
	ColorScheme *string `json:"color_scheme" validate:"omitnil,oneof=ORIGINAL MONOCHROME WHITE BLACK CUSTOM"`
	Description *string `json:"description" validate:"omitnil,max=255"`
	IsActive    *bool   `json:"is_active"`
}

// Normalize 去除非 nil 字段的首尾空白并统一枚举大小写
func (p *IconPatchPayload) Normalize() {
	trimPtr(p.Name)
	if p.Style != nil {
		*p.Style = strings.TrimSpace(strings.ToUpper(*p.Style))
	}
	if p.ColorScheme != nil {
		*p.ColorScheme = strings.TrimSpace(strings.ToUpper(*p.ColorScheme))
	}
	trimPtr(p.Description)
}

// Validate 校验图标部分更新负载
func (p *IconPatchPayload) Validate() error {
	return check(p)
}

// LinkPayload 描述用户创建或更新链接时提交的字段
// IconID 以字符串接收，空串会被归一化为"未选择图标"
type LinkPayload struct {
	URL             string `json:"url" validate:"required,max=500,url"`
	Title           string `json:"title" validate:"max=100"`
	Description     string `json:"description" validate:"max=255"`
	ServiceID       uint   `json:"service_id" validate:"required"`
	IconID          string `json:"icon_id" validate:"omitempty,number"`
	UseOriginalIcon *bool  `json:"use_original_icon"`
	OriginalIconURL string `json:"original_icon_url" validate:"omitempty,url"`
	IsActive        *bool  `json:"is_active"`
}

// Normalize 去除首尾空白；空串 IconID 视作未传
func (p *LinkPayload) Normalize() {
	p.URL = strings.TrimSpace(p.URL)
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.IconID = strings.TrimSpace(p.IconID)
	p.OriginalIconURL = strings.TrimSpace(p.OriginalIconURL)

	if p.UseOriginalIcon == nil {
		defaultUse := false
		p.UseOriginalIcon = &defaultUse
	}
	if p.IsActive == nil {
		defaultActive := true
		p.IsActive = &defaultActive
	}
}

// Validate 校验链接负载
func (p *LinkPayload) Validate() error {
	return check(p)
}

// ColorPayload 描述创建或更新配色时提交的字段
type ColorPayload struct {
	Name     string `json:"name" validate:"required,max=50"`
	Code     string `json:"code" validate:"required,hexcolor"`
	IsActive *bool  `json:"is_active"`
}

// Normalize 去除首尾空白并为缺省布尔值填入默认值
func (p *ColorPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)

	if p.IsActive == nil {
		defaultActive := true
		p.IsActive = &defaultActive
	}
}

// Validate 校验配色负载
func (p *ColorPayload) Validate() error {
	return check(p)
}

// ReorderItem 描述重排请求中的单个条目
type ReorderItem struct {
	ID        uint `json:"id" validate:"required"`
	SortOrder int  `json:"sort_order" validate:"gte=0"`
}

// ReorderPayload 描述批量重排请求
// 空列表是校验错误而不是静默忽略
type ReorderPayload struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}

// Validate 校验重排负载
func (p *ReorderPayload) Validate() error {
	return check(p)
}
