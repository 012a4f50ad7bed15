package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrEmptyOrder 在重排列表为空时返回
	ErrEmptyOrder = errors.New("reorder list is empty")
	// ErrInvalidOrder 在重排条目非法（ID 为零或排序值为负）时返回
	ErrInvalidOrder = errors.New("invalid reorder entry")
	// ErrOrderTargetMissing 在重排条目不属于当前范围时返回
	ErrOrderTargetMissing = errors.New("reorder target not found in scope")
)

// OrderItem 描述一条显式的排序赋值
type OrderItem struct {
	ID        uint
	SortOrder int
}

// validateOrderItems 检查重排输入的基本合法性。
// 同一 ID 或同一排序值出现多次不视为错误，按输入顺序后写者生效。
func validateOrderItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if item.ID == 0 {
			return fmt.Errorf("%w: id is required", ErrInvalidOrder)
		}
		if item.SortOrder < 0 {
			return fmt.Errorf("%w: sort order must not be negative", ErrInvalidOrder)
		}
	}
	return nil
}

// nextSortOrder 在事务内读取范围内当前最大排序值并返回其后继。
// 空集合返回 1。必须在写入时计算，不允许缓存。
func nextSortOrder(tx *gorm.DB, model interface{}, scope func(*gorm.DB) *gorm.DB) (int, error) {
	query := tx.Model(model)
	if scope != nil {
		query = scope(query)
	}

	var maxSort int
	if err := query.Select("COALESCE(MAX(sort_order), 0)").Scan(&maxSort).Error; err != nil {
		return 0, fmt.Errorf("resolve next sort order: %w", err)
	}

	return maxSort + 1, nil
}

// applyOrder 在调用方的事务内依次落盘全部排序赋值。
// 任何一条未命中范围内的记录都会使整个事务回滚，保证外部不可见中间状态。
func applyOrder(tx *gorm.DB, model interface{}, items []OrderItem, scope func(*gorm.DB) *gorm.DB) error {
	for _, item := range items {
		query := tx.Model(model).Where("id = ?", item.ID)
		if scope != nil {
			query = scope(query)
		}

		result := query.Update("sort_order", item.SortOrder)
		if result.Error != nil {
			return fmt.Errorf("apply sort order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOrderTargetMissing
		}
	}
	return nil
}
