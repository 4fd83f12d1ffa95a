// Package repo – dynamic filtered search
//
// Filters are applied through one shared scope per entity family so the page
// query and the count query cannot drift apart: both receive the exact same
// predicate set, and every value is bound as a parameter.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// ModeFilter is an open set of optional predicates over modes. Zero values
// mean "no constraint".
type ModeFilter struct {
	// GroupID filters by exact mode group id.
	GroupID string
	// Description filters by case-insensitive substring match.
	Description string
}

// scope applies the filter's predicates to a query. Both FindModesFiltered
// and CountModesFiltered go through here.
func (f ModeFilter) scope(q *gorm.DB) *gorm.DB {
	if f.GroupID != "" {
		q = q.Where("mode_group_id = ?", f.GroupID)
	}
	if term := strings.TrimSpace(f.Description); term != "" {
		q = q.Where("lower(description) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	return q
}

// FindModesFiltered returns a page of modes matching the filter, ordered by
// description.
func FindModesFiltered(ctx context.Context, db *gorm.DB, f ModeFilter, offset, limit int) ([]domain.Mode, error) {
	var out []domain.Mode
	err := f.scope(db.WithContext(ctx).Model(&domain.Mode{})).
		Order("description").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// CountModesFiltered returns the total number of modes matching the filter.
func CountModesFiltered(ctx context.Context, db *gorm.DB, f ModeFilter) (int64, error) {
	var total int64
	err := f.scope(db.WithContext(ctx).Model(&domain.Mode{})).Count(&total).Error
	return total, translate(err)
}

// StateFilter is an open set of optional predicates over states. Zero values
// mean "no constraint".
type StateFilter struct {
	// GroupID filters by exact state group id.
	GroupID string
	// Description filters by case-insensitive substring match.
	Description string
	// MinCode / MaxCode bound the code range when non-nil.
	MinCode *int
	MaxCode *int
}

func (f StateFilter) scope(q *gorm.DB) *gorm.DB {
	if f.GroupID != "" {
		q = q.Where("state_group_id = ?", f.GroupID)
	}
	if term := strings.TrimSpace(f.Description); term != "" {
		q = q.Where("lower(description) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if f.MinCode != nil {
		q = q.Where("code >= ?", *f.MinCode)
	}
	if f.MaxCode != nil {
		q = q.Where("code <= ?", *f.MaxCode)
	}
	return q
}

// FindStatesFiltered returns a page of states matching the filter, ordered
// by code then description.
func FindStatesFiltered(ctx context.Context, db *gorm.DB, f StateFilter, offset, limit int) ([]domain.State, error) {
	var out []domain.State
	err := f.scope(db.WithContext(ctx).Model(&domain.State{})).
		Order("code, description").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// CountStatesFiltered returns the total number of states matching the filter.
func CountStatesFiltered(ctx context.Context, db *gorm.DB, f StateFilter) (int64, error) {
	var total int64
	err := f.scope(db.WithContext(ctx).Model(&domain.State{})).Count(&total).Error
	return total, translate(err)
}
