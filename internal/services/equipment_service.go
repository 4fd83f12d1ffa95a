package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/repo"
)

// maxPathDepth bounds the parent walk during path materialization. Real
// hierarchies are five levels deep; anything past this means a corrupted
// parent chain.
const maxPathDepth = 64

// EquipmentService manages the equipment forest: physical assets linked to a
// type and optionally to a parent node.
type EquipmentService struct {
	DB *gorm.DB
}

// NewEquipmentService constructs an EquipmentService.
func NewEquipmentService(db *gorm.DB) *EquipmentService {
	return &EquipmentService{DB: db}
}

// Create inserts a new equipment node. The type must exist, and when a
// parent is given it must exist too; missing references surface as
// domain.ErrReferenceNotFound rather than a raw constraint failure.
func (s *EquipmentService) Create(ctx context.Context, name, typeID string, parentID *string, enabled bool, metadata map[string]any) (*domain.Equipment, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}

	ok, err := repo.EquipmentTypeExists(ctx, s.DB, typeID)
	if err != nil {
		return nil, fmt.Errorf("check equipment type: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("equipment type %s: %w", typeID, domain.ErrReferenceNotFound)
	}

	if parentID != nil {
		ok, err := repo.EquipmentExists(ctx, s.DB, *parentID)
		if err != nil {
			return nil, fmt.Errorf("check parent equipment: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("parent equipment %s: %w", *parentID, domain.ErrReferenceNotFound)
		}
	}

	return repo.CreateEquipment(ctx, s.DB, name, typeID, parentID, enabled, datatypes.JSONMap(metadata))
}

// Rename changes an equipment node's name.
func (s *EquipmentService) Rename(ctx context.Context, id, name string) (*domain.Equipment, error) {
	name, err := requireText("name", name, domain.MaxNameLen)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateEquipmentName(ctx, s.DB, id, name); err != nil {
		return nil, err
	}
	return repo.GetEquipment(ctx, s.DB, id)
}

// UpdateMetadata replaces a node's metadata document. The document is opaque
// to this service; nil clears it.
func (s *EquipmentService) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) (*domain.Equipment, error) {
	if err := repo.UpdateEquipmentMetadata(ctx, s.DB, id, datatypes.JSONMap(metadata)); err != nil {
		return nil, err
	}
	return repo.GetEquipment(ctx, s.DB, id)
}

// SetEnabled flips a node's enabled flag.
func (s *EquipmentService) SetEnabled(ctx context.Context, id string, enabled bool) (*domain.Equipment, error) {
	if err := repo.SetEquipmentEnabled(ctx, s.DB, id, enabled); err != nil {
		return nil, err
	}
	return repo.GetEquipment(ctx, s.DB, id)
}

// Delete removes an equipment node. Nodes that still have children are
// rejected with domain.ErrInUse; the check and the delete run in one
// transaction.
func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children, err := repo.CountEquipmentChildren(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("check equipment children: %w", err)
		}
		if children > 0 {
			return fmt.Errorf("equipment %s has %d children: %w", id, children, domain.ErrInUse)
		}

		deleted, err := repo.DeleteEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Get fetches an equipment node by id.
func (s *EquipmentService) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	return repo.GetEquipment(ctx, s.DB, id)
}

// GetByName fetches the first equipment node with an exact name match.
func (s *EquipmentService) GetByName(ctx context.Context, name string) (*domain.Equipment, error) {
	return repo.GetEquipmentByName(ctx, s.DB, name)
}

// List returns all equipment ordered by name.
func (s *EquipmentService) List(ctx context.Context) ([]domain.Equipment, error) {
	return repo.ListEquipment(ctx, s.DB)
}

// ListByType returns the equipment of one type ordered by name.
func (s *EquipmentService) ListByType(ctx context.Context, typeID string) ([]domain.Equipment, error) {
	return repo.ListEquipmentByType(ctx, s.DB, typeID)
}

// ListChildren returns the direct children of one node ordered by name.
func (s *EquipmentService) ListChildren(ctx context.Context, parentID string) ([]domain.Equipment, error) {
	return repo.ListEquipmentByParent(ctx, s.DB, parentID)
}

// ListEnabled returns all enabled equipment ordered by name.
func (s *EquipmentService) ListEnabled(ctx context.Context) ([]domain.Equipment, error) {
	return repo.ListEnabledEquipment(ctx, s.DB)
}

// ListPage returns one page of equipment plus the total count.
func (s *EquipmentService) ListPage(ctx context.Context, page, perPage int) ([]domain.Equipment, int64, error) {
	offset, err := pageBounds(page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountEquipment(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListEquipmentPage(ctx, s.DB, offset, perPage)
	return items, total, err
}

// SearchByName returns equipment whose name contains the term,
// case-insensitively, ordered by name.
func (s *EquipmentService) SearchByName(ctx context.Context, term string) ([]domain.Equipment, error) {
	term, err := requireSearchTerm(term)
	if err != nil {
		return nil, err
	}
	return repo.SearchEquipmentByName(ctx, s.DB, term)
}

// Exists reports whether an equipment id exists.
func (s *EquipmentService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.EquipmentExists(ctx, s.DB, id)
}

// Path materializes the root-to-node ancestor chain for an equipment node,
// with each link's type preloaded so level lookups need no further queries.
// The walk is bounded and tracks visited ids, so a cyclic parent chain fails
// instead of spinning.
func (s *EquipmentService) Path(ctx context.Context, id string) (*domain.EquipmentPath, error) {
	tr := otel.Tracer("services/EquipmentService")
	ctx, span := tr.Start(ctx, "Path",
		trace.WithAttributes(attribute.String("equipment.id", id)),
	)
	defer span.End()

	seen := make(map[string]struct{}, 8)
	var chain []domain.Equipment

	cur := &id
	for cur != nil {
		if len(chain) >= maxPathDepth {
			return nil, fmt.Errorf("equipment %s: ancestor chain exceeds %d levels", id, maxPathDepth)
		}
		if _, dup := seen[*cur]; dup {
			return nil, fmt.Errorf("equipment %s: ancestor chain contains a cycle at %s", id, *cur)
		}
		seen[*cur] = struct{}{}

		node, err := repo.GetEquipmentWithType(ctx, s.DB, *cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *node)
		cur = node.ParentID
	}

	// Walked leaf-to-root; callers expect root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return &domain.EquipmentPath{EquipmentID: id, Chain: chain}, nil
}
