// Package repo – repository functions for the StateGroup model. Mirrors the
// ModeGroup repository; the two taxonomies are independent but share shape.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// CreateStateGroup inserts a new state group row.
func CreateStateGroup(ctx context.Context, db *gorm.DB, name, description string) (*domain.StateGroup, error) {
	g := &domain.StateGroup{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, translate(err)
	}
	return g, nil
}

// GetStateGroup fetches a state group by id, or domain.ErrNotFound.
func GetStateGroup(ctx context.Context, db *gorm.DB, id string) (*domain.StateGroup, error) {
	var g domain.StateGroup
	if err := db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// GetStateGroupByName fetches a state group by exact name.
func GetStateGroupByName(ctx context.Context, db *gorm.DB, name string) (*domain.StateGroup, error) {
	var g domain.StateGroup
	if err := db.WithContext(ctx).Where("name = ?", name).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// GetStateGroupByDescription fetches a state group by exact description.
func GetStateGroupByDescription(ctx context.Context, db *gorm.DB, description string) (*domain.StateGroup, error) {
	var g domain.StateGroup
	if err := db.WithContext(ctx).Where("description = ?", description).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// ListStateGroups returns all state groups ordered by name.
func ListStateGroups(ctx context.Context, db *gorm.DB) ([]domain.StateGroup, error) {
	var out []domain.StateGroup
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

// CountStateGroups returns the total number of state groups.
func CountStateGroups(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.StateGroup{}).Count(&total).Error
	return total, translate(err)
}

// ListStateGroupsPage returns a page of state groups ordered by name.
func ListStateGroupsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.StateGroup, error) {
	var out []domain.StateGroup
	err := db.WithContext(ctx).
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// UpdateStateGroupName renames a state group; domain.ErrNotFound when missing.
func UpdateStateGroupName(ctx context.Context, db *gorm.DB, id, name string) error {
	return updateStateGroupColumn(ctx, db, id, "name", name)
}

// UpdateStateGroupDescription updates a group's description.
func UpdateStateGroupDescription(ctx context.Context, db *gorm.DB, id, description string) error {
	return updateStateGroupColumn(ctx, db, id, "description", description)
}

func updateStateGroupColumn(ctx context.Context, db *gorm.DB, id, column, value string) error {
	res := db.WithContext(ctx).
		Model(&domain.StateGroup{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteStateGroup removes a state group and reports whether a row was deleted.
func DeleteStateGroup(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.StateGroup{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// StateGroupExists reports whether a state group id exists.
func StateGroupExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.StateGroup{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, translate(err)
}

// StateGroupNameExists reports whether a group name is taken, excluding
// excludeID when non-empty.
func StateGroupNameExists(ctx context.Context, db *gorm.DB, name, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.StateGroup{}).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

// SearchStateGroupsByName returns groups whose name contains term,
// case-insensitively, ordered by name.
func SearchStateGroupsByName(ctx context.Context, db *gorm.DB, term string) ([]domain.StateGroup, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.StateGroup
	err := db.WithContext(ctx).
		Where("lower(name) LIKE ?", pattern).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}

// SearchStateGroupsByDescription returns groups whose description contains
// term, case-insensitively, ordered by name.
func SearchStateGroupsByDescription(ctx context.Context, db *gorm.DB, term string) ([]domain.StateGroup, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.StateGroup
	err := db.WithContext(ctx).
		Where("lower(description) LIKE ?", pattern).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}
