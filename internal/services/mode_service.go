package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/repo"
)

// ModeService manages modes inside their groups. A mode's description is
// unique within its group only; two groups may both contain "Production".
type ModeService struct {
	DB *gorm.DB
}

// NewModeService constructs a ModeService.
func NewModeService(db *gorm.DB) *ModeService {
	return &ModeService{DB: db}
}

// ModeSpec is one entry of a bulk create request.
type ModeSpec struct {
	GroupID     string `json:"group_id"`
	Description string `json:"description"`
}

// Create inserts a new mode. The group must exist, and the trimmed
// description must be unique within that group.
func (s *ModeService) Create(ctx context.Context, groupID, description string) (*domain.Mode, error) {
	description, err := requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	ok, err := repo.ModeGroupExists(ctx, s.DB, groupID)
	if err != nil {
		return nil, fmt.Errorf("check mode group: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("mode group %s: %w", groupID, domain.ErrReferenceNotFound)
	}

	taken, err := repo.ModeDescriptionExistsInGroup(ctx, s.DB, groupID, description, "")
	if err != nil {
		return nil, fmt.Errorf("check mode description: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("mode %q in group %s: %w", description, groupID, domain.ErrAlreadyExists)
	}

	return repo.CreateMode(ctx, s.DB, groupID, description)
}

// BulkCreate inserts up to 100 modes in one call, skipping entries whose
// description is already taken within their group.
func (s *ModeService) BulkCreate(ctx context.Context, specs []ModeSpec) ([]domain.Mode, error) {
	if len(specs) == 0 {
		return nil, domain.Validationf("no modes provided")
	}
	if len(specs) > bulkCreateMax {
		return nil, domain.Validationf("cannot create more than %d modes at once", bulkCreateMax)
	}

	created := make([]domain.Mode, 0, len(specs))
	for _, spec := range specs {
		m, err := s.Create(ctx, spec.GroupID, spec.Description)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return created, err
		}
		created = append(created, *m)
	}
	return created, nil
}

// UpdateDescription changes a mode's description, re-checking uniqueness
// within the mode's current group and excluding the row itself.
func (s *ModeService) UpdateDescription(ctx context.Context, id, description string) (*domain.Mode, error) {
	description, err := requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	m, err := repo.GetMode(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	taken, err := repo.ModeDescriptionExistsInGroup(ctx, s.DB, m.ModeGroupID, description, id)
	if err != nil {
		return nil, fmt.Errorf("check mode description: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("mode %q in group %s: %w", description, m.ModeGroupID, domain.ErrAlreadyExists)
	}

	if err := repo.UpdateModeDescription(ctx, s.DB, id, description); err != nil {
		return nil, err
	}
	return repo.GetMode(ctx, s.DB, id)
}

// MoveToGroup reassigns a mode to another group. The target group must exist
// and must not already contain a mode with the same description; both checks
// and the move run in one transaction so a failed check leaves the mode
// where it was.
func (s *ModeService) MoveToGroup(ctx context.Context, id, groupID string) (*domain.Mode, error) {
	var moved *domain.Mode
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.GetMode(ctx, tx, id)
		if err != nil {
			return err
		}
		if m.ModeGroupID == groupID {
			moved = m
			return nil
		}

		ok, err := repo.ModeGroupExists(ctx, tx, groupID)
		if err != nil {
			return fmt.Errorf("check mode group: %w", err)
		}
		if !ok {
			return fmt.Errorf("mode group %s: %w", groupID, domain.ErrReferenceNotFound)
		}

		taken, err := repo.ModeDescriptionExistsInGroup(ctx, tx, groupID, m.Description, id)
		if err != nil {
			return fmt.Errorf("check mode description: %w", err)
		}
		if taken {
			return fmt.Errorf("mode %q in group %s: %w", m.Description, groupID, domain.ErrAlreadyExists)
		}

		if err := repo.UpdateModeGroupID(ctx, tx, id, groupID); err != nil {
			return err
		}
		moved, err = repo.GetMode(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes a mode.
func (s *ModeService) Delete(ctx context.Context, id string) error {
	deleted, err := repo.DeleteMode(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// Get fetches a mode by id.
func (s *ModeService) Get(ctx context.Context, id string) (*domain.Mode, error) {
	return repo.GetMode(ctx, s.DB, id)
}

// GetByDescription fetches the first mode with an exact description match,
// across all groups.
func (s *ModeService) GetByDescription(ctx context.Context, description string) (*domain.Mode, error) {
	return repo.GetModeByDescription(ctx, s.DB, description)
}

// List returns all modes ordered by description.
func (s *ModeService) List(ctx context.Context) ([]domain.Mode, error) {
	return repo.ListModes(ctx, s.DB)
}

// ListForGroup returns the modes of one group ordered by description. The
// group must exist; a missing group is domain.ErrNotFound, not an empty list.
func (s *ModeService) ListForGroup(ctx context.Context, groupID string) ([]domain.Mode, error) {
	ok, err := repo.ModeGroupExists(ctx, s.DB, groupID)
	if err != nil {
		return nil, fmt.Errorf("check mode group: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("mode group %s: %w", groupID, domain.ErrNotFound)
	}
	return repo.ListModesForGroup(ctx, s.DB, groupID)
}

// ListPage returns one page of modes plus the total count. When groupID is
// non-empty the page and the count are both restricted to that group.
func (s *ModeService) ListPage(ctx context.Context, groupID string, page, perPage int) ([]domain.Mode, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	if groupID == "" {
		total, err := repo.CountModes(ctx, s.DB)
		if err != nil {
			return nil, 0, err
		}
		items, err := repo.ListModesPage(ctx, s.DB, offset, perPage)
		return items, total, err
	}
	total, err := repo.CountModesForGroup(ctx, s.DB, groupID)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListModesPageForGroup(ctx, s.DB, groupID, offset, perPage)
	return items, total, err
}

// Search returns one page of modes matching the filter plus the total count.
// The filter's predicates drive both queries, so the count always agrees
// with the page set.
func (s *ModeService) Search(ctx context.Context, f repo.ModeFilter, page, perPage int) ([]domain.Mode, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountModesFiltered(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.FindModesFiltered(ctx, s.DB, f, offset, perPage)
	return items, total, err
}

// SearchByDescription returns modes whose description contains the term,
// case-insensitively, ordered by description.
func (s *ModeService) SearchByDescription(ctx context.Context, term string) ([]domain.Mode, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchModesByDescription(ctx, s.DB, term)
}

// Exists reports whether a mode id exists.
func (s *ModeService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.ModeExists(ctx, s.DB, id)
}

// DescriptionExistsInGroup reports whether a description is already taken
// within a group.
func (s *ModeService) DescriptionExistsInGroup(ctx context.Context, groupID, description string) (bool, error) {
	return repo.ModeDescriptionExistsInGroup(ctx, s.DB, groupID, description, "")
}

// CountForGroup returns the number of modes in one group.
func (s *ModeService) CountForGroup(ctx context.Context, groupID string) (int64, error) {
	return repo.CountModesForGroup(ctx, s.DB, groupID)
}
