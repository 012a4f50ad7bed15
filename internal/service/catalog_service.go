package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/altee/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrServiceNotFound 在指定的服务不存在时返回
	ErrServiceNotFound = errors.New("service not found")
	// ErrServiceDuplicate 在名称或别名与现有服务冲突时返回
	ErrServiceDuplicate = errors.New("service name or slug already in use")
	// ErrServiceInUse 在服务仍被图标或用户链接引用时返回
	ErrServiceInUse = errors.New("service is still in use")
)

// CatalogService 维护可链接服务目录，仅管理员可写
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService 构造 CatalogService
func NewCatalogService(gdb *gorm.DB) *CatalogService {
	return &CatalogService{db: gdb}
}

// ServiceFilter 描述服务列表查询的全部可识别选项
// 指针字段为 nil 时不施加对应过滤
type ServiceFilter struct {
	Search            string
	IsActive          *bool
	AllowOriginalIcon *bool
}

// ServiceInput 描述创建服务时的字段，应当已经过校验与归一化
type ServiceInput struct {
	Name              string
	Slug              string
	Description       string
	BaseURL           string
	AllowOriginalIcon bool
	IsActive          bool
}

// ServicePatch 描述部分更新，nil 字段保持原值
type ServicePatch struct {
	Name              *string
	Slug              *string
	Description       *string
	BaseURL           *string
	AllowOriginalIcon *bool
	IsActive          *bool
}

// List 返回服务集合，按排序值升序
func (s *CatalogService) List(filter ServiceFilter) ([]db.Service, error) {
	query := s.db.Model(&db.Service{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.AllowOriginalIcon != nil {
		query = query.Where("allow_original_icon = ?", *filter.AllowOriginalIcon)
	}

	var services []db.Service
	if err := query.Order("sort_order asc").Order("id asc").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// Get 根据主键获取服务
func (s *CatalogService) Get(id uint) (*db.Service, error) {
	var svc db.Service
	if err := s.db.First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &svc, nil
}

// Create 新建服务，排序值在写入时取当前最大值加一
func (s *CatalogService) Create(input ServiceInput) (*db.Service, error) {
	var created db.Service

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Service{}).
			Where("name = ? OR slug = ?", input.Name, input.Slug).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check service uniqueness: %w", err)
		}
		if count > 0 {
			return ErrServiceDuplicate
		}

		sortOrder, err := nextSortOrder(tx, &db.Service{}, nil)
		if err != nil {
			return err
		}

		created = db.Service{
			Name:              input.Name,
			Slug:              input.Slug,
			Description:       input.Description,
			BaseURL:           input.BaseURL,
			AllowOriginalIcon: input.AllowOriginalIcon,
			IsActive:          input.IsActive,
			SortOrder:         sortOrder,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create service: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update 部分更新服务，名称与别名的唯一性检查排除自身
func (s *CatalogService) Update(id uint, patch ServicePatch) (*db.Service, error) {
	var updated db.Service

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var svc db.Service
		if err := tx.First(&svc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("find service: %w", err)
		}

		name := svc.Name
		slug := svc.Slug
		if patch.Name != nil {
			name = strings.TrimSpace(*patch.Name)
		}
		if patch.Slug != nil {
			slug = strings.TrimSpace(strings.ToLower(*patch.Slug))
		}

		if name != svc.Name || slug != svc.Slug {
			var count int64
			if err := tx.Model(&db.Service{}).
				Where("(name = ? OR slug = ?) AND id <> ?", name, slug, id).
				Count(&count).Error; err != nil {
				return fmt.Errorf("check service uniqueness: %w", err)
			}
			if count > 0 {
				return ErrServiceDuplicate
			}
		}

		svc.Name = name
		svc.Slug = slug
		if patch.Description != nil {
			svc.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.BaseURL != nil {
			svc.BaseURL = strings.TrimSpace(*patch.BaseURL)
		}
		if patch.AllowOriginalIcon != nil {
			svc.AllowOriginalIcon = *patch.AllowOriginalIcon
		}
		if patch.IsActive != nil {
			svc.IsActive = *patch.IsActive
		}

		if err := tx.Save(&svc).Error; err != nil {
			return fmt.Errorf("update service: %w", err)
		}
		updated = svc
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete 删除服务，被图标或用户链接引用时拒绝
func (s *CatalogService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var svc db.Service
		if err := tx.First(&svc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("find service: %w", err)
		}

		var iconCount int64
		if err := tx.Model(&db.Icon{}).Where("service_id = ?", id).Count(&iconCount).Error; err != nil {
			return fmt.Errorf("count service icons: %w", err)
		}
		if iconCount > 0 {
			return ErrServiceInUse
		}

		var linkCount int64
		if err := tx.Model(&db.UserLink{}).Where("service_id = ?", id).Count(&linkCount).Error; err != nil {
			return fmt.Errorf("count service links: %w", err)
		}
		if linkCount > 0 {
			return ErrServiceInUse
		}

		if err := tx.Unscoped().Delete(&svc).Error; err != nil {
			return fmt.Errorf("delete service: %w", err)
		}
		return nil
	})
}

// Reorder 以单个事务重排服务目录的全局排序
func (s *CatalogService) Reorder(items []OrderItem) error {
	if err := validateOrderItems(items); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return applyOrder(tx, &db.Service{}, items, nil)
	})
}
