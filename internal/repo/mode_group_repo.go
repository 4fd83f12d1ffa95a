// Package repo implements the data persistence layer for the configuration
// store, backed by GORM. This file provides repository functions for the
// ModeGroup model.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// CreateModeGroup inserts a new mode group row.
func CreateModeGroup(ctx context.Context, db *gorm.DB, name, description string) (*domain.ModeGroup, error) {
	g := &domain.ModeGroup{
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

// GetModeGroup fetches a mode group by id, or domain.ErrNotFound.
func GetModeGroup(ctx context.Context, db *gorm.DB, id string) (*domain.ModeGroup, error) {
	var g domain.ModeGroup
	if err := db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// GetModeGroupByName fetches a mode group by exact name.
func GetModeGroupByName(ctx context.Context, db *gorm.DB, name string) (*domain.ModeGroup, error) {
	var g domain.ModeGroup
	if err := db.WithContext(ctx).Where("name = ?", name).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// GetModeGroupByDescription fetches a mode group by exact description.
func GetModeGroupByDescription(ctx context.Context, db *gorm.DB, description string) (*domain.ModeGroup, error) {
	var g domain.ModeGroup
	if err := db.WithContext(ctx).Where("description = ?", description).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// ListModeGroups returns all mode groups ordered by name.
func ListModeGroups(ctx context.Context, db *gorm.DB) ([]domain.ModeGroup, error) {
	var out []domain.ModeGroup
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

// CountModeGroups returns the total number of mode groups.
func CountModeGroups(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.ModeGroup{}).Count(&total).Error
	return total, translate(err)
}

// ListModeGroupsPage returns a page of mode groups ordered by name.
func ListModeGroupsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.ModeGroup, error) {
	var out []domain.ModeGroup
	err := db.WithContext(ctx).
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// UpdateModeGroupName renames a mode group; domain.ErrNotFound when missing.
func UpdateModeGroupName(ctx context.Context, db *gorm.DB, id, name string) error {
	return updateModeGroupColumn(ctx, db, id, "name", name)
}

// UpdateModeGroupDescription updates a group's description.
func UpdateModeGroupDescription(ctx context.Context, db *gorm.DB, id, description string) error {
	return updateModeGroupColumn(ctx, db, id, "description", description)
}

func updateModeGroupColumn(ctx context.Context, db *gorm.DB, id, column, value string) error {
	res := db.WithContext(ctx).
		Model(&domain.ModeGroup{}).
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

// DeleteModeGroup removes a mode group and reports whether a row was deleted.
func DeleteModeGroup(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ModeGroup{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ModeGroupExists reports whether a mode group id exists.
func ModeGroupExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ModeGroup{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, translate(err)
}

// ModeGroupNameExists reports whether a group name is taken, excluding
// excludeID when non-empty.
func ModeGroupNameExists(ctx context.Context, db *gorm.DB, name, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.ModeGroup{}).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

// ListModeGroupsByDateRange returns groups created within [start, end],
// newest first. Range validation belongs to the service layer.
func ListModeGroupsByDateRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.ModeGroup, error) {
	var out []domain.ModeGroup
	err := db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at DESC").
		Find(&out).Error
	return out, translate(err)
}

// SearchModeGroupsByName returns groups whose name contains term,
// case-insensitively, ordered by name.
func SearchModeGroupsByName(ctx context.Context, db *gorm.DB, term string) ([]domain.ModeGroup, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.ModeGroup
	err := db.WithContext(ctx).
		Where("lower(name) LIKE ?", pattern).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}
