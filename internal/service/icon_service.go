package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/altee/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrIconNotFound 在指定的图标不存在时返回
	ErrIconNotFound = errors.New("icon not found")
	// ErrIconInUse 在图标仍被用户链接引用时返回
	ErrIconInUse = errors.New("icon is still in use")
)

// IconService 维护服务图标素材，仅管理员可写
// 图标排序限定在所属服务范围内
type IconService struct {
	db *gorm.DB
}

// NewIconService 构造 IconService
func NewIconService(gdb *gorm.DB) *IconService {
	return &IconService{db: gdb}
}

// IconInput 描述创建图标时的字段，应当已经过校验与归一化
type IconInput struct {
	Name          string
	FilePath      string
	ThumbnailPath string
	Style         string
	ColorScheme   string
	Description   string
	IsActive      bool
	ServiceID     uint
	UploaderID    uint
}

// IconPatch 描述部分更新，nil 字段保持原值
// 图标与服务的归属关系创建后不可变更
type IconPatch struct {
	Name        *string
	Style       *string
	ColorScheme *string
	Description *string
	IsActive    *bool
}

// List 返回全部图标，先按所属服务再按排序值排列
// 全局列表仅用于后台展示，排序语义仍以服务内为准
func (s *IconService) List(includeInactive bool) ([]db.Icon, error) {
	query := s.db.Model(&db.Icon{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var icons []db.Icon
	if err := query.Order("service_id asc").Order("sort_order asc").Order("id asc").Find(&icons).Error; err != nil {
		return nil, fmt.Errorf("list icons: %w", err)
	}
	return icons, nil
}

// ListByService 返回归属于指定服务的图标
// includeInactive 为 false 时过滤掉已停用的图标，面向普通用户的视图必须如此
func (s *IconService) ListByService(serviceID uint, includeInactive bool) ([]db.Icon, error) {
	var svc db.Service
	if err := s.db.First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}

	query := s.db.Where("service_id = ?", serviceID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var icons []db.Icon
	if err := query.Order("sort_order asc").Order("id asc").Find(&icons).Error; err != nil {
		return nil, fmt.Errorf("list service icons: %w", err)
	}
	return icons, nil
}

// Get 根据主键获取图标
func (s *IconService) Get(id uint) (*db.Icon, error) {
	var icon db.Icon
	if err := s.db.First(&icon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIconNotFound
		}
		return nil, fmt.Errorf("get icon: %w", err)
	}
	return &icon, nil
}

// Create 新建图标，排序值在所属服务范围内取当前最大值加一
func (s *IconService) Create(input IconInput) (*db.Icon, error) {
	var created db.Icon

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var svc db.Service
		if err := tx.First(&svc, input.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("find service: %w", err)
		}

		scope := func(q *gorm.DB) *gorm.DB {
			return q.Where("service_id = ?", input.ServiceID)
		}
		sortOrder, err := nextSortOrder(tx, &db.Icon{}, scope)
		if err != nil {
			return err
		}

		created = db.Icon{
			Name:          input.Name,
			FilePath:      input.FilePath,
			ThumbnailPath: input.ThumbnailPath,
			Style:         input.Style,
			ColorScheme:   input.ColorScheme,
			Description:   input.Description,
			IsActive:      input.IsActive,
			SortOrder:     sortOrder,
			ServiceID:     input.ServiceID,
			UploaderID:    input.UploaderID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create icon: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update 部分更新图标
func (s *IconService) Update(id uint, patch IconPatch) (*db.Icon, error) {
	var icon db.Icon
	if err := s.db.First(&icon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIconNotFound
		}
		return nil, fmt.Errorf("find icon: %w", err)
	}

	if patch.Name != nil {
		icon.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Style != nil {
		icon.Style = strings.TrimSpace(strings.ToUpper(*patch.Style))
	}
	if patch.ColorScheme != nil {
		icon.ColorScheme = strings.TrimSpace(strings.ToUpper(*patch.ColorScheme))
	}
	if patch.Description != nil {
		icon.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		icon.IsActive = *patch.IsActive
	}

	if err := s.db.Save(&icon).Error; err != nil {
		return nil, fmt.Errorf("update icon: %w", err)
	}
	return &icon, nil
}

// Delete 删除图标，被用户链接引用时拒绝
func (s *IconService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var icon db.Icon
		if err := tx.First(&icon, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIconNotFound
			}
			return fmt.Errorf("find icon: %w", err)
		}

		var linkCount int64
		if err := tx.Model(&db.UserLink{}).Where("icon_id = ?", id).Count(&linkCount).Error; err != nil {
			return fmt.Errorf("count icon links: %w", err)
		}
		if linkCount > 0 {
			return ErrIconInUse
		}

		if err := tx.Unscoped().Delete(&icon).Error; err != nil {
			return fmt.Errorf("delete icon: %w", err)
		}
		return nil
	})
}

// Reorder 以单个事务重排指定服务范围内的图标
func (s *IconService) Reorder(serviceID uint, items []OrderItem) error {
	if err := validateOrderItems(items); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		scope := func(q *gorm.DB) *gorm.DB {
			return q.Where("service_id = ?", serviceID)
		}
		return applyOrder(tx, &db.Icon{}, items, scope)
	})
}
