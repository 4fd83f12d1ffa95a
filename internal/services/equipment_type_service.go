// Package services defines the business logic for the equipment hierarchy
// and its taxonomies. Each service validates input, runs the scoped
// duplicate pre-checks that turn constraint races into friendly errors, and
// coordinates repository operations. Services return the typed errors from
// the domain package for predictable cases so the transport layer can map
// them to HTTP results without inspecting message text.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/repo"
)

// bulkCreateMax caps the number of rows a single bulk create may insert.
const bulkCreateMax = 100

// EquipmentTypeService manages the global EquipmentType taxonomy. Names are
// unique across all types; the level field is the 1..5 ordering label used
// by equipment path resolution.
type EquipmentTypeService struct {
	// DB is the database handle used for all operations. It may be a plain
	// *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// NewEquipmentTypeService constructs an EquipmentTypeService.
func NewEquipmentTypeService(db *gorm.DB) *EquipmentTypeService {
	return &EquipmentTypeService{DB: db}
}

// TypeSpec is one entry of a bulk create request.
type TypeSpec struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Create inserts a new equipment type. The name is trimmed and must be
// non-empty, at most 255 bytes, and globally unique. Level must be in
// [0,5]; zero means the type takes no place in the 5-level convention.
func (s *EquipmentTypeService) Create(ctx context.Context, name string, level int) (*domain.EquipmentType, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}
	if level < 0 || level > domain.LevelCell {
		return nil, domain.Validationf("level must be between 0 and %d", domain.LevelCell)
	}

	taken, err := repo.EquipmentTypeNameExists(ctx, s.DB, name, "")
	if err != nil {
		return nil, fmt.Errorf("check equipment type name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("equipment type %q: %w", name, domain.ErrAlreadyExists)
	}

	return repo.CreateEquipmentType(ctx, s.DB, name, level)
}

// BulkCreate inserts up to 100 equipment types in one call, skipping
// entries whose name is already taken. Useful for initial seeding of the
// Enterprise..Cell convention.
func (s *EquipmentTypeService) BulkCreate(ctx context.Context, specs []TypeSpec) ([]domain.EquipmentType, error) {
	if len(specs) == 0 {
		return nil, domain.Validationf("no equipment types provided")
	}
	if len(specs) > bulkCreateMax {
		return nil, domain.Validationf("cannot create more than %d equipment types at once", bulkCreateMax)
	}

	created := make([]domain.EquipmentType, 0, len(specs))
	for _, spec := range specs {
		t, err := s.Create(ctx, spec.Name, spec.Level)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return created, err
		}
		created = append(created, *t)
	}
	return created, nil
}

// Rename changes a type's name under the same rules as Create, excluding
// the row itself from the duplicate check. Returns the updated row.
func (s *EquipmentTypeService) Rename(ctx context.Context, id, name string) (*domain.EquipmentType, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetEquipmentType(ctx, s.DB, id); err != nil {
		return nil, err
	}
	taken, err := repo.EquipmentTypeNameExists(ctx, s.DB, name, id)
	if err != nil {
		return nil, fmt.Errorf("check equipment type name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("equipment type %q: %w", name, domain.ErrAlreadyExists)
	}

	if err := repo.UpdateEquipmentTypeName(ctx, s.DB, id, name); err != nil {
		return nil, err
	}
	return repo.GetEquipmentType(ctx, s.DB, id)
}

// Delete removes an equipment type. Types still referenced by equipment are
// rejected with domain.ErrInUse; the check and the delete run in one
// transaction.
func (s *EquipmentTypeService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inUse, err := repo.CountEquipmentForType(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("check equipment type usage: %w", err)
		}
		if inUse > 0 {
			return fmt.Errorf("equipment type %s has %d equipment: %w", id, inUse, domain.ErrInUse)
		}

		deleted, err := repo.DeleteEquipmentType(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Get fetches an equipment type by id.
func (s *EquipmentTypeService) Get(ctx context.Context, id string) (*domain.EquipmentType, error) {
	return repo.GetEquipmentType(ctx, s.DB, id)
}

// GetByName fetches an equipment type by exact name.
func (s *EquipmentTypeService) GetByName(ctx context.Context, name string) (*domain.EquipmentType, error) {
	return repo.GetEquipmentTypeByName(ctx, s.DB, name)
}

// List returns all equipment types ordered by name.
func (s *EquipmentTypeService) List(ctx context.Context) ([]domain.EquipmentType, error) {
	return repo.ListEquipmentTypes(ctx, s.DB)
}

// ListPage returns one page of equipment types plus the total count. Page is
// 1-based; perPage must be in [1,1000].
func (s *EquipmentTypeService) ListPage(ctx context.Context, page, perPage int) ([]domain.EquipmentType, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountEquipmentTypes(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListEquipmentTypesPage(ctx, s.DB, offset, perPage)
	return items, total, err
}

// ListByDateRange returns types created within [start, end], newest first.
// An inverted range is a validation error, not an empty result.
func (s *EquipmentTypeService) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.EquipmentType, error) {
	if start.After(end) {
		return nil, domain.Validationf("start date cannot be after end date")
	}
	return repo.ListEquipmentTypesByDateRange(ctx, s.DB, start, end)
}

// Exists reports whether an equipment type id exists.
func (s *EquipmentTypeService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.EquipmentTypeExists(ctx, s.DB, id)
}

// NameExists reports whether a type name is taken.
func (s *EquipmentTypeService) NameExists(ctx context.Context, name string) (bool, error) {
	return repo.EquipmentTypeNameExists(ctx, s.DB, name, "")
}

// SearchByName returns types whose name contains the term,
// case-insensitively, ordered by name.
func (s *EquipmentTypeService) SearchByName(ctx context.Context, term string) ([]domain.EquipmentType, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchEquipmentTypesByName(ctx, s.DB, term)
}
