package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/altee/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrColorNotFound 在指定的配色不存在时返回
	ErrColorNotFound = errors.New("color not found")
	// ErrColorDuplicate 在配色名称重复时返回
	ErrColorDuplicate = errors.New("color name already in use")
)

// ColorService 维护后台配色目录，仅管理员可写
type ColorService struct {
	db *gorm.DB
}

// NewColorService 构造 ColorService
func NewColorService(gdb *gorm.DB) *ColorService {
	return &ColorService{db: gdb}
}

// ColorInput 描述创建或更新配色时的字段
type ColorInput struct {
	Name     string
	Code     string
	IsActive bool
}

// List 返回配色集合，按排序值升序
func (s *ColorService) List(includeInactive bool) ([]db.Color, error) {
	query := s.db.Model(&db.Color{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var colors []db.Color
	if err := query.Order("sort_order asc").Order("id asc").Find(&colors).Error; err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	return colors, nil
}

// Create 新建配色，名称唯一，排序值在写入时取当前最大值加一
func (s *ColorService) Create(input ColorInput) (*db.Color, error) {
	var created db.Color

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Color{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("check color uniqueness: %w", err)
		}
		if count > 0 {
			return ErrColorDuplicate
		}

		sortOrder, err := nextSortOrder(tx, &db.Color{}, nil)
		if err != nil {
			return err
		}

		created = db.Color{
			Name:      input.Name,
			Code:      input.Code,
			IsActive:  input.IsActive,
			SortOrder: sortOrder,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create color: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update 更新配色，名称唯一性检查排除自身
func (s *ColorService) Update(id uint, input ColorInput) (*db.Color, error) {
	var color db.Color
	if err := s.db.First(&color, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColorNotFound
		}
		return nil, fmt.Errorf("find color: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	var existing db.Color
	if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrColorDuplicate
	}

	color.Name = name
	color.Code = strings.TrimSpace(input.Code)
	color.IsActive = input.IsActive

	if err := s.db.Save(&color).Error; err != nil {
		return nil, fmt.Errorf("update color: %w", err)
	}
	return &color, nil
}

// Delete 删除配色
func (s *ColorService) Delete(id uint) error {
	var color db.Color
	if err := s.db.First(&color, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColorNotFound
		}
		return fmt.Errorf("find color: %w", err)
	}

	if err := s.db.Unscoped().Delete(&color).Error; err != nil {
		return fmt.Errorf("delete color: %w", err)
	}
	return nil
}

// Reorder 以单个事务重排配色目录
func (s *ColorService) Reorder(items []OrderItem) error {
	if err := validateOrderItems(items); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return applyOrder(tx, &db.Color{}, items, nil)
	})
}
