// Package services – ModeGroupService
//
// Mode groups are the named vocabularies that own modes. Group names are
// unique across all groups; deleting a group that still has modes is
// rejected so members can never be orphaned.
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

// ModeGroupService manages the ModeGroup taxonomy.
type ModeGroupService struct {
	DB *gorm.DB
}

// NewModeGroupService constructs a ModeGroupService.
func NewModeGroupService(db *gorm.DB) *ModeGroupService {
	return &ModeGroupService{DB: db}
}

// Create inserts a new mode group. Name and description are both required,
// trimmed, and length-bounded; the name must be globally unique.
func (s *ModeGroupService) Create(ctx context.Context, name, description string) (*domain.ModeGroup, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}
	description, err = requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	taken, err := repo.ModeGroupNameExists(ctx, s.DB, name, "")
	if err != nil {
		return nil, fmt.Errorf("check mode group name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("mode group %q: %w", name, domain.ErrAlreadyExists)
	}

	return repo.CreateModeGroup(ctx, s.DB, name, description)
}

// GroupSpec is one entry of a bulk create request for mode groups.
type GroupSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BulkCreate inserts up to 100 mode groups in one call, skipping entries
// whose name is already taken. Useful for initial setup or imports.
func (s *ModeGroupService) BulkCreate(ctx context.Context, specs []GroupSpec) ([]domain.ModeGroup, error) {
	if len(specs) == 0 {
		return nil, domain.Validationf("no mode groups provided")
	}
	if len(specs) > bulkCreateMax {
		return nil, domain.Validationf("cannot create more than %d mode groups at once", bulkCreateMax)
	}

	created := make([]domain.ModeGroup, 0, len(specs))
	for _, spec := range specs {
		g, err := s.Create(ctx, spec.Name, spec.Description)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return created, err
		}
		created = append(created, *g)
	}
	return created, nil
}

// UpdateName renames a group under the same rules as Create, excluding the
// row itself from the duplicate check.
func (s *ModeGroupService) UpdateName(ctx context.Context, id, name string) (*domain.ModeGroup, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetModeGroup(ctx, s.DB, id); err != nil {
		return nil, err
	}
	taken, err := repo.ModeGroupNameExists(ctx, s.DB, name, id)
	if err != nil {
		return nil, fmt.Errorf("check mode group name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("mode group %q: %w", name, domain.ErrAlreadyExists)
	}

	if err := repo.UpdateModeGroupName(ctx, s.DB, id, name); err != nil {
		return nil, err
	}
	return repo.GetModeGroup(ctx, s.DB, id)
}

// UpdateDescription replaces a group's description.
func (s *ModeGroupService) UpdateDescription(ctx context.Context, id, description string) (*domain.ModeGroup, error) {
	description, err := requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateModeGroupDescription(ctx, s.DB, id, description); err != nil {
		return nil, err
	}
	return repo.GetModeGroup(ctx, s.DB, id)
}

// Delete removes a mode group. Groups that still contain modes are rejected
// with domain.ErrInUse; the check and the delete run in one transaction.
func (s *ModeGroupService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members, err := repo.CountModesForGroup(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("check mode group usage: %w", err)
		}
		if members > 0 {
			return fmt.Errorf("mode group %s has %d modes: %w", id, members, domain.ErrInUse)
		}

		deleted, err := repo.DeleteModeGroup(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Get fetches a mode group by id.
func (s *ModeGroupService) Get(ctx context.Context, id string) (*domain.ModeGroup, error) {
	return repo.GetModeGroup(ctx, s.DB, id)
}

// GetByName fetches a mode group by exact name.
func (s *ModeGroupService) GetByName(ctx context.Context, name string) (*domain.ModeGroup, error) {
	return repo.GetModeGroupByName(ctx, s.DB, name)
}

// GetByDescription fetches a mode group by exact description.
func (s *ModeGroupService) GetByDescription(ctx context.Context, description string) (*domain.ModeGroup, error) {
	return repo.GetModeGroupByDescription(ctx, s.DB, description)
}

// List returns all mode groups ordered by name.
func (s *ModeGroupService) List(ctx context.Context) ([]domain.ModeGroup, error) {
	return repo.ListModeGroups(ctx, s.DB)
}

// ListPage returns one page of mode groups plus the total count.
func (s *ModeGroupService) ListPage(ctx context.Context, page, perPage int) ([]domain.ModeGroup, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountModeGroups(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListModeGroupsPage(ctx, s.DB, offset, perPage)
	return items, total, err
}

// ListByDateRange returns groups created within [start, end], newest first.
// An inverted range is a validation error, not an empty result.
func (s *ModeGroupService) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.ModeGroup, error) {
	if start.After(end) {
		return nil, domain.Validationf("start date cannot be after end date")
	}
	return repo.ListModeGroupsByDateRange(ctx, s.DB, start, end)
}

// Exists reports whether a mode group id exists.
func (s *ModeGroupService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.ModeGroupExists(ctx, s.DB, id)
}

// SearchByName returns groups whose name contains the term,
// case-insensitively, ordered by name.
func (s *ModeGroupService) SearchByName(ctx context.Context, term string) ([]domain.ModeGroup, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchModeGroupsByName(ctx, s.DB, term)
}
