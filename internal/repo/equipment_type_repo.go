// Package repo implements the data persistence layer for the configuration
// store, backed by GORM. This file provides repository functions for the
// EquipmentType model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a row is not found, functions return domain.ErrNotFound.
//   - Unique-constraint violations are translated to domain.ErrAlreadyExists.
//   - Other DB errors propagate unchanged.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// CreateEquipmentType inserts a new equipment type with the given name and
// level label. The id is a randomly generated UUID and CreatedAt is UTC.
func CreateEquipmentType(ctx context.Context, db *gorm.DB, name string, level int) (*domain.EquipmentType, error) {
	t := &domain.EquipmentType{
		ID:        uuid.NewString(),
		Name:      name,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// GetEquipmentType fetches an equipment type by id, or domain.ErrNotFound.
func GetEquipmentType(ctx context.Context, db *gorm.DB, id string) (*domain.EquipmentType, error) {
	var t domain.EquipmentType
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// GetEquipmentTypeByName fetches an equipment type by exact name, or
// domain.ErrNotFound.
func GetEquipmentTypeByName(ctx context.Context, db *gorm.DB, name string) (*domain.EquipmentType, error) {
	var t domain.EquipmentType
	if err := db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListEquipmentTypes returns all equipment types ordered by name.
func ListEquipmentTypes(ctx context.Context, db *gorm.DB) ([]domain.EquipmentType, error) {
	var out []domain.EquipmentType
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

// CountEquipmentTypes returns the total number of equipment types.
func CountEquipmentTypes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.EquipmentType{}).Count(&total).Error
	return total, translate(err)
}

// ListEquipmentTypesPage returns a page of equipment types ordered by name.
// The caller computes offset and limit; use CountEquipmentTypes for totals.
func ListEquipmentTypesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.EquipmentType, error) {
	var out []domain.EquipmentType
	err := db.WithContext(ctx).
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// UpdateEquipmentTypeName renames an equipment type. Returns
// domain.ErrNotFound when no row was affected.
func UpdateEquipmentTypeName(ctx context.Context, db *gorm.DB, id, name string) error {
	res := db.WithContext(ctx).
		Model(&domain.EquipmentType{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteEquipmentType removes an equipment type and reports whether a row
// was deleted.
func DeleteEquipmentType(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.EquipmentType{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// EquipmentTypeExists reports whether an equipment type id exists.
func EquipmentTypeExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.EquipmentType{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, translate(err)
}

// EquipmentTypeNameExists reports whether a type name is taken, excluding
// excludeID when non-empty (self-exclusion for renames).
func EquipmentTypeNameExists(ctx context.Context, db *gorm.DB, name, excludeID string) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.EquipmentType{}).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, translate(err)
}

// ListEquipmentTypesByDateRange returns types created within [start, end],
// newest first. Range validation belongs to the service layer.
func ListEquipmentTypesByDateRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.EquipmentType, error) {
	var out []domain.EquipmentType
	err := db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at DESC").
		Find(&out).Error
	return out, translate(err)
}

// SearchEquipmentTypesByName returns types whose name contains term,
// case-insensitively (byte-wise lower-casing, so collation cannot surprise),
// ordered by name.
func SearchEquipmentTypesByName(ctx context.Context, db *gorm.DB, term string) ([]domain.EquipmentType, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.EquipmentType
	err := db.WithContext(ctx).
		Where("lower(name) LIKE ?", pattern).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}
