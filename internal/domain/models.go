// Package domain defines the persistence models for the equipment hierarchy
// and its two taxonomies (mode groups/modes and state groups/states). These
// types are mapped with GORM and form the core data layer of the
// configuration store.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Validation bounds shared by all entity families.
const (
	// MaxNameLen caps trimmed names (equipment, types, groups).
	MaxNameLen = 255
	// MaxDescriptionLen caps trimmed descriptions (groups, modes, states).
	MaxDescriptionLen = 2048
)

// EquipmentType labels a node in the equipment tree. Names are globally
// unique. Level is the conventional 5-level ordering (Enterprise=1 .. Cell=5)
// consumed by path resolution; it is an ordering label only and is never
// enforced against the parent/child structure.
type EquipmentType struct {
	ID        string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"  gorm:"type:varchar(255);not null;uniqueIndex:ux_equipment_type_name"`
	Level     int       `json:"level" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for EquipmentType.
func (EquipmentType) TableName() string { return "equipment_types" }

// Equipment is a node in the physical/logical hierarchy. ParentID references
// another Equipment row or is nil for roots, so the table forms a forest.
// Metadata is an opaque key/value document; the store never interprets it.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - TypeID: foreign key to EquipmentType (must exist).
//   - ParentID: optional foreign key to the parent Equipment node.
//   - Enabled: operational flag, defaults to true.
//   - Metadata: opaque JSON key/value document.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Equipment struct {
	ID        string            `json:"id"        gorm:"type:char(36);primaryKey"`
	Name      string            `json:"name"      gorm:"type:varchar(255);not null;index"`
	TypeID    string            `json:"type_id"   gorm:"type:char(36);not null;index"`
	ParentID  *string           `json:"parent_id,omitempty" gorm:"type:char(36);index"`
	Enabled   bool              `json:"enabled"   gorm:"not null;default:true"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Type is the referenced equipment type. Deleting a type that still has
	// equipment is rejected at the service layer before the constraint fires.
	Type EquipmentType `json:"-" gorm:"foreignKey:TypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Equipment.
func (Equipment) TableName() string { return "equipment" }

// ModeGroup is a named set of operational modes (Running, E-Stop, ...).
// Names are globally unique; name and description are both required.
type ModeGroup struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex:ux_mode_group_name"`
	Description string    `json:"description" gorm:"type:varchar(2048);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for ModeGroup.
func (ModeGroup) TableName() string { return "mode_groups" }

// Mode is a member of a ModeGroup. Its description is unique only within its
// group; the same description may repeat across groups. The composite unique
// index is the authoritative guard under concurrent creates; the service
// level duplicate check exists to produce a friendlier error first.
type Mode struct {
	ID          string    `json:"id"            gorm:"type:char(36);primaryKey"`
	ModeGroupID string    `json:"mode_group_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_mode_group_description"`
	Description string    `json:"description"   gorm:"type:varchar(2048);not null;uniqueIndex:ux_mode_group_description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ModeGroup is the owning group.
	ModeGroup ModeGroup `json:"-" gorm:"foreignKey:ModeGroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Mode.
func (Mode) TableName() string { return "modes" }

// StateGroup is a named set of condition codes. Same shape and constraints
// as ModeGroup.
type StateGroup struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex:ux_state_group_name"`
	Description string    `json:"description" gorm:"type:varchar(2048);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for StateGroup.
func (StateGroup) TableName() string { return "state_groups" }

// State is a member of a StateGroup carrying a non-negative numeric code.
// The code and the description are each unique within the group, as two
// independent scoped constraints.
type State struct {
	ID           string    `json:"id"             gorm:"type:char(36);primaryKey"`
	StateGroupID string    `json:"state_group_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_state_group_code;uniqueIndex:ux_state_group_description"`
	Code         int       `json:"code"           gorm:"not null;uniqueIndex:ux_state_group_code"`
	Description  string    `json:"description"    gorm:"type:varchar(2048);not null;uniqueIndex:ux_state_group_description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// StateGroup is the owning group.
	StateGroup StateGroup `json:"-" gorm:"foreignKey:StateGroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for State.
func (State) TableName() string { return "states" }
