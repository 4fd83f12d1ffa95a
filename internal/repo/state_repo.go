// Package repo – repository functions for the State model. States carry two
// independent scoped-uniqueness constraints: (state_group_id, code) and
// (state_group_id, description).
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// CreateState inserts a new state row in the given group.
func CreateState(ctx context.Context, db *gorm.DB, groupID string, code int, description string) (*domain.State, error) {
	s := &domain.State{
		ID:           uuid.NewString(),
		StateGroupID: groupID,
		Code:         code,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetState fetches a state by id, or domain.ErrNotFound.
func GetState(ctx context.Context, db *gorm.DB, id string) (*domain.State, error) {
	var s domain.State
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// GetStateByCodeInGroup fetches the state with the given code within a
// group, or domain.ErrNotFound.
func GetStateByCodeInGroup(ctx context.Context, db *gorm.DB, groupID string, code int) (*domain.State, error) {
	var s domain.State
	err := db.WithContext(ctx).
		Where("state_group_id = ? AND code = ?", groupID, code).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// GetStateByDescription fetches the first state with an exact description
// match across all groups.
func GetStateByDescription(ctx context.Context, db *gorm.DB, description string) (*domain.State, error) {
	var s domain.State
	if err := db.WithContext(ctx).Where("description = ?", description).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// ListStates returns all states ordered by code then description.
func ListStates(ctx context.Context, db *gorm.DB) ([]domain.State, error) {
	var out []domain.State
	err := db.WithContext(ctx).Order("code, description").Find(&out).Error
	return out, translate(err)
}

// ListStatesForGroup returns one group's states ordered by code then
// description.
func ListStatesForGroup(ctx context.Context, db *gorm.DB, groupID string) ([]domain.State, error) {
	var out []domain.State
	err := db.WithContext(ctx).
		Where("state_group_id = ?", groupID).
		Order("code, description").
		Find(&out).Error
	return out, translate(err)
}

// ListStatesByCodeRange returns the states of one group whose code falls in
// [minCode, maxCode], ordered ascending by code. Bounds are validated by the
// service layer.
func ListStatesByCodeRange(ctx context.Context, db *gorm.DB, groupID string, minCode, maxCode int) ([]domain.State, error) {
	var out []domain.State
	err := db.WithContext(ctx).
		Where("state_group_id = ? AND code >= ? AND code <= ?", groupID, minCode, maxCode).
		Order("code").
		Find(&out).Error
	return out, translate(err)
}

// CountStates returns the total number of states.
func CountStates(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.State{}).Count(&total).Error
	return total, translate(err)
}

// CountStatesForGroup returns the number of states in one group.
func CountStatesForGroup(ctx context.Context, db *gorm.DB, groupID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.State{}).
		Where("state_group_id = ?", groupID).
		Count(&total).Error
	return total, translate(err)
}

// ListStatesPage returns a page of states ordered by code then description.
func ListStatesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.State, error) {
	var out []domain.State
	err := db.WithContext(ctx).
		Order("code, description").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// UpdateStateDescription updates a state's description; domain.ErrNotFound
// when missing.
func UpdateStateDescription(ctx context.Context, db *gorm.DB, id, description string) error {
	return updateStateColumn(ctx, db, id, "description", description)
}

// UpdateStateCode updates a state's numeric code.
func UpdateStateCode(ctx context.Context, db *gorm.DB, id string, code int) error {
	return updateStateColumn(ctx, db, id, "code", code)
}

// UpdateStateGroupID moves a state to another group. The service layer runs
// this inside the same transaction as its target-group checks.
func UpdateStateGroupID(ctx context.Context, db *gorm.DB, id, groupID string) error {
	return updateStateColumn(ctx, db, id, "state_group_id", groupID)
}

func updateStateColumn(ctx context.Context, db *gorm.DB, id, column string, value any) error {
	res := db.WithContext(ctx).
		Model(&domain.State{}).
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

// DeleteState removes a state and reports whether a row was deleted.
func DeleteState(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.State{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// StateExists reports whether a state id exists.
func StateExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.State{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, translate(err)
}

// StateCodeExistsInGroup reports whether a code is taken within a group,
// excluding excludeID when non-empty.
func StateCodeExistsInGroup(ctx context.Context, db *gorm.DB, groupID string, code int, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.State{}).
		Where("state_group_id = ? AND code = ?", groupID, code)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

// StateDescriptionExistsInGroup reports whether a description is taken
// within a group, excluding excludeID when non-empty.
func StateDescriptionExistsInGroup(ctx context.Context, db *gorm.DB, groupID, description, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.State{}).
		Where("state_group_id = ? AND description = ?", groupID, description)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

// SearchStatesByDescription returns states whose description contains term,
// case-insensitively, ordered by code then description.
func SearchStatesByDescription(ctx context.Context, db *gorm.DB, term string) ([]domain.State, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.State
	err := db.WithContext(ctx).
		Where("lower(description) LIKE ?", pattern).
		Order("code, description").
		Find(&out).Error
	return out, translate(err)
}
