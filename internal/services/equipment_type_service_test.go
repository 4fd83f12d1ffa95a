package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

func TestEquipmentType_Create_TrimsName(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)

	created, err := svc.Create(context.Background(), "  Line  ", domain.LevelLine)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Line" {
		t.Fatalf("expected trimmed name %q, got %q", "Line", created.Name)
	}
	if created.Level != domain.LevelLine {
		t.Fatalf("expected level %d, got %d", domain.LevelLine, created.Level)
	}
}

func TestEquipmentType_Create_ValidationErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "   ", 1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.Create(ctx, strings.Repeat("x", domain.MaxNameLen+1), 1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for long name, got %v", err)
	}
	if _, err := svc.Create(ctx, "Line", -1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative level, got %v", err)
	}
	if _, err := svc.Create(ctx, "Line", domain.LevelCell+1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for level above cell, got %v", err)
	}
}

func TestEquipmentType_Create_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Site", domain.LevelSite); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, "Site", domain.LevelSite)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestEquipmentType_Rename(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	a, err := svc.Create(ctx, "Cell", domain.LevelCell)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Area", domain.LevelArea); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Renaming to its own current name is allowed (self-exclusion).
	if _, err := svc.Rename(ctx, a.ID, "Cell"); err != nil {
		t.Fatalf("rename to same name: %v", err)
	}

	// Renaming onto another type's name conflicts.
	if _, err := svc.Rename(ctx, a.ID, "Area"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	renamed, err := svc.Rename(ctx, a.ID, "Work Cell")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Work Cell" {
		t.Fatalf("expected renamed type, got %q", renamed.Name)
	}
}

func TestEquipmentType_Rename_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)

	_, err := svc.Rename(context.Background(), "missing", "Line")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEquipmentType_Delete_InUse(t *testing.T) {
	db := newTestDB(t)
	typeSvc := NewEquipmentTypeService(db)
	equipSvc := NewEquipmentService(db)
	ctx := context.Background()

	tp, err := typeSvc.Create(ctx, "Line", domain.LevelLine)
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	if _, err := equipSvc.Create(ctx, "Line 1", tp.ID, nil, true, nil); err != nil {
		t.Fatalf("create equipment: %v", err)
	}

	if err := typeSvc.Delete(ctx, tp.ID); !errors.Is(err, domain.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}

	// Still present after the rejected delete.
	if _, err := typeSvc.Get(ctx, tp.ID); err != nil {
		t.Fatalf("type should survive rejected delete: %v", err)
	}
}

func TestEquipmentType_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	tp, err := svc.Create(ctx, "Enterprise", domain.LevelEnterprise)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, tp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, tp.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestEquipmentType_BulkCreate_SkipsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Site", domain.LevelSite); err != nil {
		t.Fatalf("create: %v", err)
	}

	created, err := svc.BulkCreate(ctx, []TypeSpec{
		{Name: "Enterprise", Level: domain.LevelEnterprise},
		{Name: "Site", Level: domain.LevelSite}, // already exists, skipped
		{Name: "Area", Level: domain.LevelArea},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(created))
	}
}

func TestEquipmentType_BulkCreate_Bounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	if _, err := svc.BulkCreate(ctx, nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty batch, got %v", err)
	}

	big := make([]TypeSpec, bulkCreateMax+1)
	for i := range big {
		big[i] = TypeSpec{Name: fmt.Sprintf("T%d", i)}
	}
	if _, err := svc.BulkCreate(ctx, big); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for oversized batch, got %v", err)
	}
}

func TestEquipmentType_ListPage(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, fmt.Sprintf("Type %02d", i), 0); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, total, err := svc.ListPage(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(items))
	}

	// Last page is a partial page, never an error.
	items, _, err = svc.ListPage(ctx, 3, 2)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item on page 3, got %d", len(items))
	}

	if _, _, err := svc.ListPage(ctx, 1, 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for per_page 0, got %v", err)
	}
	if _, _, err := svc.ListPage(ctx, 1, maxPerPage+1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for per_page above cap, got %v", err)
	}
	if _, _, err := svc.ListPage(ctx, 0, 10); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for page 0, got %v", err)
	}
}

func TestEquipmentType_SearchByName(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	for _, name := range []string{"Packaging Line", "Filling Line", "Warehouse"} {
		if _, err := svc.Create(ctx, name, 0); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := svc.SearchByName(ctx, "LINE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	if _, err := svc.SearchByName(ctx, "   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank term, got %v", err)
	}
}

func TestEquipmentType_ListByDateRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewEquipmentTypeService(db)
	ctx := context.Background()

	for _, name := range []string{"Enterprise", "Site", "Line"} {
		if _, err := svc.Create(ctx, name, 0); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	got, err := svc.ListByDateRange(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 types in range, got %d", len(got))
	}

	past, err := svc.ListByDateRange(ctx, time.Now().Add(-48*time.Hour), time.Now().Add(-47*time.Hour))
	if err != nil {
		t.Fatalf("list by past range: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("expected no types in past range, got %d", len(past))
	}

	if _, err := svc.ListByDateRange(ctx, time.Now(), time.Now().Add(-time.Minute)); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}
