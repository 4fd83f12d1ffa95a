package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/repo"
)

// StateService manages states inside their groups. A state carries two
// independently scoped identities: the numeric code and the description are
// each unique within the owning group, so "1/Running" in Line States and
// "1/Running" in Machine States never collide.
type StateService struct {
	DB *gorm.DB
}

// NewStateService constructs a StateService.
func NewStateService(db *gorm.DB) *StateService {
	return &StateService{DB: db}
}

// StateSpec is one entry of a bulk create request.
type StateSpec struct {
	GroupID     string `json:"group_id"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// Create inserts a new state. The group must exist, the code must be
// non-negative and unused within the group, and the trimmed description must
// be unique within the group.
func (s *StateService) Create(ctx context.Context, groupID string, code int, description string) (*domain.State, error) {
	description, err := requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}
	if err := requireNonNegative("code", code); err != nil {
		return nil, err
	}

	ok, err := repo.StateGroupExists(ctx, s.DB, groupID)
	if err != nil {
		return nil, fmt.Errorf("check state group: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("state group %s: %w", groupID, domain.ErrReferenceNotFound)
	}

	codeTaken, err := repo.StateCodeExistsInGroup(ctx, s.DB, groupID, code, "")
	if err != nil {
		return nil, fmt.Errorf("check state code: %w", err)
	}
	if codeTaken {
		return nil, fmt.Errorf("state code %d in group %s: %w", code, groupID, domain.ErrAlreadyExists)
	}
	descTaken, err := repo.StateDescriptionExistsInGroup(ctx, s.DB, groupID, description, "")
	if err != nil {
		return nil, fmt.Errorf("check state description: %w", err)
	}
	if descTaken {
		return nil, fmt.Errorf("state %q in group %s: %w", description, groupID, domain.ErrAlreadyExists)
	}

	return repo.CreateState(ctx, s.DB, groupID, code, description)
}

// BulkCreate inserts up to 100 states in one call, skipping entries whose
// code or description is already taken within their group.
func (s *StateService) BulkCreate(ctx context.Context, specs []StateSpec) ([]domain.State, error) {
	if len(specs) == 0 {
		return nil, domain.Validationf("no states provided")
	}
	if len(specs) > bulkCreateMax {
		return nil, domain.Validationf("cannot create more than %d states at once", bulkCreateMax)
	}

	created := make([]domain.State, 0, len(specs))
	for _, spec := range specs {
		st, err := s.Create(ctx, spec.GroupID, spec.Code, spec.Description)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return created, err
		}
		created = append(created, *st)
	}
	return created, nil
}

// UpdateDescription changes a state's description, re-checking uniqueness
// within the state's current group and excluding the row itself.
func (s *StateService) UpdateDescription(ctx context.Context, id, description string) (*domain.State, error) {
	description, err := requireText("description", description, domain.MaxDescriptionLen)
	if err != nil {
		return nil, err
	}

	st, err := repo.GetState(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	taken, err := repo.StateDescriptionExistsInGroup(ctx, s.DB, st.StateGroupID, description, id)
	if err != nil {
		return nil, fmt.Errorf("check state description: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("state %q in group %s: %w", description, st.StateGroupID, domain.ErrAlreadyExists)
	}

	if err := repo.UpdateStateDescription(ctx, s.DB, id, description); err != nil {
		return nil, err
	}
	return repo.GetState(ctx, s.DB, id)
}

// UpdateCode changes a state's numeric code, re-checking uniqueness within
// the state's current group and excluding the row itself.
func (s *StateService) UpdateCode(ctx context.Context, id string, code int) (*domain.State, error) {
	if err := requireNonNegative("code", code); err != nil {
		return nil, err
	}

	st, err := repo.GetState(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	taken, err := repo.StateCodeExistsInGroup(ctx, s.DB, st.StateGroupID, code, id)
	if err != nil {
		return nil, fmt.Errorf("check state code: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("state code %d in group %s: %w", code, st.StateGroupID, domain.ErrAlreadyExists)
	}

	if err := repo.UpdateStateCode(ctx, s.DB, id, code); err != nil {
		return nil, err
	}
	return repo.GetState(ctx, s.DB, id)
}

// MoveToGroup reassigns a state to another group. The target group must
// exist and must not already contain the state's code or description; all
// checks and the move run in one transaction so a failed check leaves the
// state where it was.
func (s *StateService) MoveToGroup(ctx context.Context, id, groupID string) (*domain.State, error) {
	var moved *domain.State
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := repo.GetState(ctx, tx, id)
		if err != nil {
			return err
		}
		if st.StateGroupID == groupID {
			moved = st
			return nil
		}

		ok, err := repo.StateGroupExists(ctx, tx, groupID)
		if err != nil {
			return fmt.Errorf("check state group: %w", err)
		}
		if !ok {
			return fmt.Errorf("state group %s: %w", groupID, domain.ErrReferenceNotFound)
		}

		codeTaken, err := repo.StateCodeExistsInGroup(ctx, tx, groupID, st.Code, id)
		if err != nil {
			return fmt.Errorf("check state code: %w", err)
		}
		if codeTaken {
			return fmt.Errorf("state code %d in group %s: %w", st.Code, groupID, domain.ErrAlreadyExists)
		}
		descTaken, err := repo.StateDescriptionExistsInGroup(ctx, tx, groupID, st.Description, id)
		if err != nil {
			return fmt.Errorf("check state description: %w", err)
		}
		if descTaken {
			return fmt.Errorf("state %q in group %s: %w", st.Description, groupID, domain.ErrAlreadyExists)
		}

		if err := repo.UpdateStateGroupID(ctx, tx, id, groupID); err != nil {
			return err
		}
		moved, err = repo.GetState(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes a state.
func (s *StateService) Delete(ctx context.Context, id string) error {
	deleted, err := repo.DeleteState(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// Get fetches a state by id.
func (s *StateService) Get(ctx context.Context, id string) (*domain.State, error) {
	return repo.GetState(ctx, s.DB, id)
}

// GetByCode fetches the state with the given code within a group.
func (s *StateService) GetByCode(ctx context.Context, groupID string, code int) (*domain.State, error) {
	if err := requireNonNegative("code", code); err != nil {
		return nil, err
	}
	return repo.GetStateByCodeInGroup(ctx, s.DB, groupID, code)
}

// GetByDescription fetches the first state with an exact description match,
// across all groups.
func (s *StateService) GetByDescription(ctx context.Context, description string) (*domain.State, error) {
	return repo.GetStateByDescription(ctx, s.DB, description)
}

// List returns all states ordered by code then description.
func (s *StateService) List(ctx context.Context) ([]domain.State, error) {
	return repo.ListStates(ctx, s.DB)
}

// ListForGroup returns one group's states ordered by code then description.
// The group must exist; a missing group is domain.ErrNotFound, not an empty
// list.
func (s *StateService) ListForGroup(ctx context.Context, groupID string) ([]domain.State, error) {
	ok, err := repo.StateGroupExists(ctx, s.DB, groupID)
	if err != nil {
		return nil, fmt.Errorf("check state group: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("state group %s: %w", groupID, domain.ErrNotFound)
	}
	return repo.ListStatesForGroup(ctx, s.DB, groupID)
}

// ListByCodeRange returns one group's states whose code falls in
// [minCode, maxCode], ordered ascending by code. An inverted range is a
// validation error, not an empty result.
func (s *StateService) ListByCodeRange(ctx context.Context, groupID string, minCode, maxCode int) ([]domain.State, error) {
	if err := requireNonNegative("min_code", minCode); err != nil {
		return nil, err
	}
	if err := requireNonNegative("max_code", maxCode); err != nil {
		return nil, err
	}
	if minCode > maxCode {
		return nil, domain.Validationf("min_code cannot exceed max_code")
	}
	return repo.ListStatesByCodeRange(ctx, s.DB, groupID, minCode, maxCode)
}

// ListPage returns one page of states plus the total count. When groupID is
// non-empty the page and the count are both restricted to that group.
func (s *StateService) ListPage(ctx context.Context, groupID string, page, perPage int) ([]domain.State, int64, error) {
	if groupID != "" {
		return s.Search(ctx, repo.StateFilter{GroupID: groupID}, page, perPage)
	}
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountStates(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListStatesPage(ctx, s.DB, offset, perPage)
	return items, total, err
}

// Search returns one page of states matching the filter plus the total
// count. The filter's predicates drive both queries, so the count always
// agrees with the page set.
func (s *StateService) Search(ctx context.Context, f repo.StateFilter, page, perPage int) ([]domain.State, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	if f.MinCode != nil && f.MaxCode != nil && *f.MinCode > *f.MaxCode {
		return nil, 0, domain.Validationf("min_code cannot exceed max_code")
	}
	total, err := repo.CountStatesFiltered(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.FindStatesFiltered(ctx, s.DB, f, offset, perPage)
	return items, total, err
}

// SearchByDescription returns states whose description contains the term,
// case-insensitively, ordered by code then description.
func (s *StateService) SearchByDescription(ctx context.Context, term string) ([]domain.State, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchStatesByDescription(ctx, s.DB, term)
}

// Exists reports whether a state id exists.
func (s *StateService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.StateExists(ctx, s.DB, id)
}

// CodeExistsInGroup reports whether a code is already taken within a group.
func (s *StateService) CodeExistsInGroup(ctx context.Context, groupID string, code int) (bool, error) {
	return repo.StateCodeExistsInGroup(ctx, s.DB, groupID, code, "")
}

// DescriptionExistsInGroup reports whether a description is already taken
// within a group.
func (s *StateService) DescriptionExistsInGroup(ctx context.Context, groupID, description string) (bool, error) {
	return repo.StateDescriptionExistsInGroup(ctx, s.DB, groupID, description, "")
}
