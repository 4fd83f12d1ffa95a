// Package repo – repository functions for the Equipment model. Equipment
// rows form a forest via the nullable parent_id self-reference; relations
// are id fields resolved by queries, never embedded object graphs.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// CreateEquipment inserts a new equipment node. Referential checks on typeID
// and parentID are the service layer's job; the FK constraints remain the
// last line of defense.
func CreateEquipment(ctx context.Context, db *gorm.DB, name, typeID string, parentID *string, enabled bool, metadata datatypes.JSONMap) (*domain.Equipment, error) {
	e := &domain.Equipment{
		ID:        uuid.NewString(),
		Name:      name,
		TypeID:    typeID,
		ParentID:  parentID,
		Enabled:   enabled,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// GetEquipment fetches an equipment node by id, or domain.ErrNotFound.
func GetEquipment(ctx context.Context, db *gorm.DB, id string) (*domain.Equipment, error) {
	var e domain.Equipment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// GetEquipmentWithType fetches an equipment node with its Type association
// preloaded. Used by path materialization, which needs the level label.
func GetEquipmentWithType(ctx context.Context, db *gorm.DB, id string) (*domain.Equipment, error) {
	var e domain.Equipment
	err := db.WithContext(ctx).
		Preload("Type").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// GetEquipmentByName fetches the first equipment node with an exact name
// match.
func GetEquipmentByName(ctx context.Context, db *gorm.DB, name string) (*domain.Equipment, error) {
	var e domain.Equipment
	if err := db.WithContext(ctx).Where("name = ?", name).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// ListEquipment returns all equipment ordered by name.
func ListEquipment(ctx context.Context, db *gorm.DB) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

// ListEquipmentByType returns the equipment of one type ordered by name.
func ListEquipmentByType(ctx context.Context, db *gorm.DB, typeID string) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := db.WithContext(ctx).
		Where("type_id = ?", typeID).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}

// ListEquipmentByParent returns the direct children of one node ordered by
// name.
func ListEquipmentByParent(ctx context.Context, db *gorm.DB, parentID string) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}

// ListEnabledEquipment returns all enabled equipment ordered by name.
func ListEnabledEquipment(ctx context.Context, db *gorm.DB) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}

// CountEquipment returns the total number of equipment nodes.
func CountEquipment(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Equipment{}).Count(&total).Error
	return total, translate(err)
}

// CountEquipmentForType returns the number of equipment nodes referencing a
// type. Used by the delete-in-use check.
func CountEquipmentForType(ctx context.Context, db *gorm.DB, typeID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Equipment{}).
		Where("type_id = ?", typeID).
		Count(&total).Error
	return total, translate(err)
}

// CountEquipmentChildren returns the number of direct children of a node.
func CountEquipmentChildren(ctx context.Context, db *gorm.DB, parentID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Equipment{}).
		Where("parent_id = ?", parentID).
		Count(&total).Error
	return total, translate(err)
}

// ListEquipmentPage returns a page of equipment ordered by name.
func ListEquipmentPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := db.WithContext(ctx).
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// UpdateEquipmentName renames an equipment node.
func UpdateEquipmentName(ctx context.Context, db *gorm.DB, id, name string) error {
	return updateEquipmentColumn(ctx, db, id, "name", name)
}

// UpdateEquipmentMetadata replaces the opaque metadata document.
func UpdateEquipmentMetadata(ctx context.Context, db *gorm.DB, id string, metadata datatypes.JSONMap) error {
	return updateEquipmentColumn(ctx, db, id, "metadata", metadata)
}

// SetEquipmentEnabled flips the enabled flag.
func SetEquipmentEnabled(ctx context.Context, db *gorm.DB, id string, enabled bool) error {
	return updateEquipmentColumn(ctx, db, id, "enabled", enabled)
}

func updateEquipmentColumn(ctx context.Context, db *gorm.DB, id, column string, value any) error {
	res := db.WithContext(ctx).
		Model(&domain.Equipment{}).
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

// DeleteEquipment removes an equipment node and reports whether a row was
// deleted.
func DeleteEquipment(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Equipment{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// EquipmentExists reports whether an equipment id exists.
func EquipmentExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Equipment{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, translate(err)
}

// SearchEquipmentByName returns equipment whose name contains term,
// case-insensitively, ordered by name.
func SearchEquipmentByName(ctx context.Context, db *gorm.DB, term string) ([]domain.Equipment, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var out []domain.Equipment
	err := db.WithContext(ctx).
		Where("lower(name) LIKE ?", pattern).
		Order("name").
		Find(&out).Error
	return out, translate(err)
}
