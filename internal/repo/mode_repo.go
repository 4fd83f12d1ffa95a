// Package repo – repository functions for the Mode model. Modes are scoped
// to a ModeGroup: description uniqueness applies within the group only, and
// the composite unique index on (mode_group_id, description) is the
// authoritative guard.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// CreateMode inserts a new mode row in the given group.
func CreateMode(ctx context.Context, db *gorm.DB, groupID, description string) (*domain.Mode, error) {
	m := &domain.Mode{
		ID:          uuid.NewString(),
		ModeGroupID: groupID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// GetMode fetches a mode by id, or domain.ErrNotFound.
func GetMode(ctx context.Context, db *gorm.DB, id string) (*domain.Mode, error) {
	var m domain.Mode
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// GetModeByDescription fetches the first mode with an exact description
// match across all groups.
func GetModeByDescription(ctx context.Context, db *gorm.DB, description string) (*domain.Mode, error) {
	var m domain.Mode
	if err := db.WithContext(ctx).Where("description = ?", description).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// ListModes returns all modes ordered by description.
func ListModes(ctx context.Context, db *gorm.DB) ([]domain.Mode, error) {
	var out []domain.Mode
	err := db.WithContext(ctx).Order("description").Find(&out).Error
	return out, translate(err)
}

// ListModesForGroup returns the modes of one group ordered by description.
func ListModesForGroup(ctx context.Context, db *gorm.DB, groupID string) ([]domain.Mode, error) {
	var out []domain.Mode
	err := db.WithContext(ctx).
		Where("mode_group_id = ?", groupID).
		Order("description").
		Find(&out).Error
	return out, translate(err)
}

// CountModes returns the total number of modes.
func CountModes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Mode{}).Count(&total).Error
	return total, translate(err)
}

// CountModesForGroup returns the number of modes in one group.
func CountModesForGroup(ctx context.Context, db *gorm.DB, groupID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Mode{}).
		Where("mode_group_id = ?", groupID).
		Count(&total).Error
	return total, translate(err)
}

// ListModesPage returns a page of modes ordered by description.
func ListModesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Mode, error) {
	var out []domain.Mode
	err := db.WithContext(ctx).
		Order("description").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// ListModesPageForGroup returns a page of one group's modes ordered by
// description.
func ListModesPageForGroup(ctx context.Context, db *gorm.DB, groupID string, offset, limit int) ([]domain.Mode, error) {
	var out []domain.Mode
	err := db.WithContext(ctx).
		Where("mode_group_id = ?", groupID).
		Order("description").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// UpdateModeDescription updates a mode's description; domain.ErrNotFound
// when missing.
func UpdateModeDescription(ctx context.Context, db *gorm.DB, id, description string) error {
	res := db.WithContext(ctx).
		Model(&domain.Mode{}).
		Where("id = ?", id).
		Update("description", description)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateModeGroupID moves a mode to another group. Validation of the target
// group (existence, duplicate description) belongs to the service layer,
// which runs this inside the same transaction as its checks.
func UpdateModeGroupID(ctx context.Context, db *gorm.DB, id, groupID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Mode{}).
		Where("id = ?", id).
		Update("mode_group_id", groupID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMode removes a mode and reports whether a row was deleted.
func DeleteMode(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Mode{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ModeExists reports whether a mode id exists.
func ModeExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Mode{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, translate(err)
}

// ModeDescriptionExistsInGroup reports whether a description is taken within
// a group, excluding excludeID when non-empty (self-exclusion for updates).
func ModeDescriptionExistsInGroup(ctx context.Context, db *gorm.DB, groupID, description, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.Mode{}).
		Where("mode_group_id = ? AND description = ?", groupID, description)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

// SearchModesByDescription returns modes whose description contains term,
// case-insensitively, ordered by description.
func SearchModesByDescription(ctx context.Context, db *gorm.DB, term string) ([]domain.Mode, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.Mode
	err := db.WithContext(ctx).
		Where("lower(description) LIKE ?", pattern).
		Order("description").
		Find(&out).Error
	return out, translate(err)
}
