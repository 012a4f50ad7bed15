package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/altee/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound 在指定的链接不存在时返回
	ErrLinkNotFound = errors.New("user link not found")
	// ErrLinkNotOwned 在操作者不是链接归属用户时返回
	ErrLinkNotOwned = errors.New("user link belongs to another user")
	// ErrIconServiceMismatch 在所选图标不属于链接的服务时返回
	ErrIconServiceMismatch = errors.New("icon does not belong to the link's service")
	// ErrOriginalIconNotAllowed 在服务不允许自定义图标时返回
	ErrOriginalIconNotAllowed = errors.New("service does not allow original icons")
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
)

// 用户可编辑文本统一去除 HTML，避免把标签存入库中
var textPolicy = bluemonday.StrictPolicy()

// UserLinkService 维护用户主页链接，所有写操作都要求归属校验
type UserLinkService struct {
	db *gorm.DB
}

// NewUserLinkService 构造 UserLinkService
func NewUserLinkService(gdb *gorm.DB) *UserLinkService {
	return &UserLinkService{db: gdb}
}

// LinkInput 描述创建或更新链接时的字段，应当已经过校验与归一化
// IconID 为 nil 表示不使用目录图标
type LinkInput struct {
	URL             string
	Title           string
	Description     string
	ServiceID       uint
	IconID          *uint
	UseOriginalIcon bool
	OriginalIconURL string
	IsActive        bool
}

// assertLinkOwner 是 handler 与持久层共用的归属断言
// 纵深防御：即使调用方已经校验过归属，落库前仍再查一次
func assertLinkOwner(link *db.UserLink, userID uint) error {
	if link.UserID != userID {
		return ErrLinkNotOwned
	}
	return nil
}

// ListByUser 返回指定用户的链接，按排序值升序
func (s *UserLinkService) ListByUser(userID uint, includeInactive bool) ([]db.UserLink, error) {
	query := s.db.Where("user_id = ?", userID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var links []db.UserLink
	if err := query.Order("sort_order asc").Order("id asc").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list user links: %w", err)
	}
	return links, nil
}

// ListPublic 返回指定用户名对外可见的链接：
// 链接本身启用，且所属服务仍处于启用状态
func (s *UserLinkService) ListPublic(username string) ([]db.UserLink, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var links []db.UserLink
	if err := s.db.
		Joins("JOIN services ON services.id = user_links.service_id").
		Where("user_links.user_id = ?", user.ID).
		Where("user_links.is_active = ?", true).
		Where("services.is_active = ?", true).
		Order("user_links.sort_order asc").
		Order("user_links.id asc").
		Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list public links: %w", err)
	}
	return links, nil
}

// Get 获取链接并断言归属
func (s *UserLinkService) Get(linkID, userID uint) (*db.UserLink, error) {
	var link db.UserLink
	if err := s.db.First(&link, linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("get user link: %w", err)
	}

	if err := assertLinkOwner(&link, userID); err != nil {
		return nil, err
	}
	return &link, nil
}

// Create 为指定用户新建链接，排序值在该用户范围内取当前最大值加一
func (s *UserLinkService) Create(userID uint, input LinkInput) (*db.UserLink, error) {
	var created db.UserLink

	err := s.db.Transaction(func(tx *gorm.DB) error {
		svc, err := s.resolveReferences(tx, &input)
		if err != nil {
			return err
		}
		if input.UseOriginalIcon && !svc.AllowOriginalIcon {
			return ErrOriginalIconNotAllowed
		}

		scope := func(q *gorm.DB) *gorm.DB {
			return q.Where("user_id = ?", userID)
		}
		sortOrder, err := nextSortOrder(tx, &db.UserLink{}, scope)
		if err != nil {
			return err
		}

		created = db.UserLink{
			UserID:          userID,
			URL:             input.URL,
			Title:           textPolicy.Sanitize(input.Title),
			Description:     textPolicy.Sanitize(input.Description),
			SortOrder:       sortOrder,
			IsActive:        input.IsActive,
			UseOriginalIcon: input.UseOriginalIcon,
			OriginalIconURL: input.OriginalIconURL,
			ServiceID:       input.ServiceID,
			IconID:          input.IconID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create user link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update 更新链接，落库前再次断言归属
func (s *UserLinkService) Update(linkID, userID uint, input LinkInput) (*db.UserLink, error) {
	var updated db.UserLink

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var link db.UserLink
		if err := tx.First(&link, linkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLinkNotFound
			}
			return fmt.Errorf("find user link: %w", err)
		}

		if err := assertLinkOwner(&link, userID); err != nil {
			return err
		}

		svc, err := s.resolveReferences(tx, &input)
		if err != nil {
			return err
		}
		if input.UseOriginalIcon && !svc.AllowOriginalIcon {
			return ErrOriginalIconNotAllowed
		}

		link.URL = input.URL
		link.Title = textPolicy.Sanitize(input.Title)
		link.Description = textPolicy.Sanitize(input.Description)
		link.IsActive = input.IsActive
		link.UseOriginalIcon = input.UseOriginalIcon
		link.OriginalIconURL = input.OriginalIconURL
		link.ServiceID = input.ServiceID
		link.IconID = input.IconID

		if err := tx.Save(&link).Error; err != nil {
			return fmt.Errorf("update user link: %w", err)
		}
		updated = link
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete 删除链接，落库前再次断言归属
func (s *UserLinkService) Delete(linkID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var link db.UserLink
		if err := tx.First(&link, linkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLinkNotFound
			}
			return fmt.Errorf("find user link: %w", err)
		}

		if err := assertLinkOwner(&link, userID); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&link).Error; err != nil {
			return fmt.Errorf("delete user link: %w", err)
		}
		return nil
	})
}

// Reorder 以单个事务重排指定用户范围内的链接
// 范围外的链接 ID 会使整个事务回滚
func (s *UserLinkService) Reorder(userID uint, items []OrderItem) error {
	if err := validateOrderItems(items); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		scope := func(q *gorm.DB) *gorm.DB {
			return q.Where("user_id = ?", userID)
		}
		return applyOrder(tx, &db.UserLink{}, items, scope)
	})
}

// resolveReferences 校验服务与图标引用的有效性。
// 图标存在时必须与链接归属同一个服务，这里是唯一的强制点。
func (s *UserLinkService) resolveReferences(tx *gorm.DB, input *LinkInput) (*db.Service, error) {
	var svc db.Service
	if err := tx.First(&svc, input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}

	if input.IconID != nil {
		var icon db.Icon
		if err := tx.First(&icon, *input.IconID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIconNotFound
			}
			return nil, fmt.Errorf("find icon: %w", err)
		}
		if icon.ServiceID != input.ServiceID {
			return nil, ErrIconServiceMismatch
		}
	}

	return &svc, nil
}
