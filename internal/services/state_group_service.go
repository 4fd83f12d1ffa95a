package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/repo"
)

// StateGroupService manages the StateGroup taxonomy. It mirrors
// ModeGroupService: globally unique names, delete rejected while members
// remain.
type StateGroupService struct {
	DB *gorm.DB
}

// NewStateGroupService constructs a StateGroupService.
func NewStateGroupService(db *gorm.DB) *StateGroupService {
	return &StateGroupService{DB: db}
}

// Create inserts a new state group. Name and description are both required,
// trimmed, and length-bounded; the name must be globally unique.
func (s *StateGroupService) Create(ctx context.Context, name, description string) (*domain.StateGroup, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}
	description, err = requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	taken, err := repo.StateGroupNameExists(ctx, s.DB, name, "")
	if err != nil {
		return nil, fmt.Errorf("check state group name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("state group %q: %w", name, domain.ErrAlreadyExists)
	}

	return repo.CreateStateGroup(ctx, s.DB, name, description)
}

// UpdateName renames a group under the same rules as Create, excluding the
// row itself from the duplicate check.
func (s *StateGroupService) UpdateName(ctx context.Context, id, name string) (*domain.StateGroup, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetStateGroup(ctx, s.DB, id); err != nil {
		return nil, err
	}
	taken, err := repo.StateGroupNameExists(ctx, s.DB, name, id)
	if err != nil {
		return nil, fmt.Errorf("check state group name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("state group %q: %w", name, domain.ErrAlreadyExists)
	}

	if err := repo.UpdateStateGroupName(ctx, s.DB, id, name); err != nil {
		return nil, err
	}
	return repo.GetStateGroup(ctx, s.DB, id)
}

// UpdateDescription replaces a group's description.
func (s *StateGroupService) UpdateDescription(ctx context.Context, id, description string) (*domain.StateGroup, error) {
	description, err := requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateStateGroupDescription(ctx, s.DB, id, description); err != nil {
		return nil, err
	}
	return repo.GetStateGroup(ctx, s.DB, id)
}

// Delete removes a state group. Groups that still contain states are
// rejected with domain.ErrInUse; the check and the delete run in one
// transaction.
func (s *StateGroupService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members, err := repo.CountStatesForGroup(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("check state group usage: %w", err)
		}
		if members > 0 {
			return fmt.Errorf("state group %s has %d states: %w", id, members, domain.ErrInUse)
		}

		deleted, err := repo.DeleteStateGroup(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Get fetches a state group by id.
func (s *StateGroupService) Get(ctx context.Context, id string) (*domain.StateGroup, error) {
	return repo.GetStateGroup(ctx, s.DB, id)
}

// GetByName fetches a state group by exact name.
func (s *StateGroupService) GetByName(ctx context.Context, name string) (*domain.StateGroup, error) {
	return repo.GetStateGroupByName(ctx, s.DB, name)
}

// GetByDescription fetches a state group by exact description.
func (s *StateGroupService) GetByDescription(ctx context.Context, description string) (*domain.StateGroup, error) {
	return repo.GetStateGroupByDescription(ctx, s.DB, description)
}

// List returns all state groups ordered by name.
func (s *StateGroupService) List(ctx context.Context) ([]domain.StateGroup, error) {
	return repo.ListStateGroups(ctx, s.DB)
}

// ListPage returns one page of state groups plus the total count.
func (s *StateGroupService) ListPage(ctx context.Context, page, perPage int) ([]domain.StateGroup, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountStateGroups(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListStateGroupsPage(ctx, s.DB, offset, perPage)
	return items, total, err
}

// Exists reports whether a state group id exists.
func (s *StateGroupService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.StateGroupExists(ctx, s.DB, id)
}

// SearchByName returns groups whose name contains the term,
// case-insensitively, ordered by name.
func (s *StateGroupService) SearchByName(ctx context.Context, term string) ([]domain.StateGroup, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchStateGroupsByName(ctx, s.DB, term)
}

// SearchByDescription returns groups whose description contains the term,
// case-insensitively, ordered by name.
func (s *StateGroupService) SearchByDescription(ctx context.Context, term string) ([]domain.StateGroup, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchStateGroupsByDescription(ctx, s.DB, term)
}
