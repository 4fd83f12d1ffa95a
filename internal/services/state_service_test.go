package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mesworks/go-mes-backend/internal/domain"
	"github.com/mesworks/go-mes-backend/internal/repo"
)

func seedStateGroup(t *testing.T, svc *StateGroupService, name string) *domain.StateGroup {
	t.Helper()
	g, err := svc.Create(context.Background(), name, name+" description")
	if err != nil {
		t.Fatalf("create state group %q: %v", name, err)
	}
	return g
}

func TestState_Create_DualUniqueness(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g1 := seedStateGroup(t, groupSvc, "Line States")
	g2 := seedStateGroup(t, groupSvc, "Machine States")

	if _, err := stateSvc.Create(ctx, g1.ID, 1, "Running"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Duplicate code in the same group.
	if _, err := stateSvc.Create(ctx, g1.ID, 1, "Other"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate code, got %v", err)
	}
	// Duplicate description in the same group.
	if _, err := stateSvc.Create(ctx, g1.ID, 2, "Running"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate description, got %v", err)
	}
	// Both are free in another group.
	if _, err := stateSvc.Create(ctx, g2.ID, 1, "Running"); err != nil {
		t.Fatalf("same code/description across groups should be allowed: %v", err)
	}
}

func TestState_Create_Validation(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g := seedStateGroup(t, groupSvc, "Line States")

	if _, err := stateSvc.Create(ctx, g.ID, -1, "Running"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative code, got %v", err)
	}
	if _, err := stateSvc.Create(ctx, g.ID, 1, "   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank description, got %v", err)
	}
	if _, err := stateSvc.Create(ctx, "missing", 1, "Running"); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestState_UpdateCode(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g := seedStateGroup(t, groupSvc, "Line States")
	running, err := stateSvc.Create(ctx, g.ID, 1, "Running")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := stateSvc.Create(ctx, g.ID, 2, "Starved"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Keeping the current code is allowed.
	if _, err := stateSvc.UpdateCode(ctx, running.ID, 1); err != nil {
		t.Fatalf("update to same code: %v", err)
	}
	// Taking a sibling's code conflicts.
	if _, err := stateSvc.UpdateCode(ctx, running.ID, 2); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := stateSvc.UpdateCode(ctx, running.ID, -5); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	updated, err := stateSvc.UpdateCode(ctx, running.ID, 10)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Code != 10 {
		t.Fatalf("expected code 10, got %d", updated.Code)
	}
}

func TestState_UpdateTimestamps(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g := seedStateGroup(t, groupSvc, "Line States")
	st, err := stateSvc.Create(ctx, g.ID, 1, "Running")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Cross a second boundary so the comparison is stable at any storage
	// precision.
	time.Sleep(1100 * time.Millisecond)
	updated, err := stateSvc.UpdateDescription(ctx, st.ID, "Producing")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.CreatedAt.Unix() != st.CreatedAt.Unix() {
		t.Fatalf("created_at changed on update: %v -> %v", st.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt.Unix() <= st.UpdatedAt.Unix() {
		t.Fatalf("updated_at should strictly advance: %v -> %v", st.UpdatedAt, updated.UpdatedAt)
	}
}

func TestState_MoveToGroup_ChecksBothConstraints(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g1 := seedStateGroup(t, groupSvc, "Line States")
	g2 := seedStateGroup(t, groupSvc, "Machine States")

	st, err := stateSvc.Create(ctx, g1.ID, 1, "Running")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Target holds the same code under a different description.
	if _, err := stateSvc.Create(ctx, g2.ID, 1, "Active"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := stateSvc.MoveToGroup(ctx, st.ID, g2.ID); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for code clash, got %v", err)
	}

	// Target holds the same description under a different code.
	g3 := seedStateGroup(t, groupSvc, "Cell States")
	if _, err := stateSvc.Create(ctx, g3.ID, 9, "Running"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := stateSvc.MoveToGroup(ctx, st.ID, g3.ID); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for description clash, got %v", err)
	}

	// The state never left its group.
	still, err := stateSvc.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if still.StateGroupID != g1.ID {
		t.Fatalf("state should remain in source group after rejected moves")
	}

	g4 := seedStateGroup(t, groupSvc, "Area States")
	moved, err := stateSvc.MoveToGroup(ctx, st.ID, g4.ID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.StateGroupID != g4.ID {
		t.Fatalf("expected state in group %s, got %s", g4.ID, moved.StateGroupID)
	}
}

func TestState_ListByCodeRange(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g := seedStateGroup(t, groupSvc, "Line States")
	for code, desc := range map[int]string{
		0: "Stopped", 1: "Running", 2: "Starved", 5: "Blocked", 9: "Faulted",
	} {
		if _, err := stateSvc.Create(ctx, g.ID, code, desc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := stateSvc.ListByCodeRange(ctx, g.ID, 1, 5)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 states in [1,5], got %d", len(got))
	}
	// Ordered ascending by code, bounds inclusive.
	if got[0].Code != 1 || got[2].Code != 5 {
		t.Fatalf("unexpected range order: %d..%d", got[0].Code, got[len(got)-1].Code)
	}

	// Inverted range is a validation error, not an empty result.
	if _, err := stateSvc.ListByCodeRange(ctx, g.ID, 5, 1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
	if _, err := stateSvc.ListByCodeRange(ctx, g.ID, -1, 5); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative min, got %v", err)
	}
}

func TestState_Search_CodeRangeFilter(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g := seedStateGroup(t, groupSvc, "Line States")
	for code, desc := range map[int]string{1: "Running", 2: "Starved", 8: "Blocked"} {
		if _, err := stateSvc.Create(ctx, g.ID, code, desc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	minCode, maxCode := 1, 5
	items, total, err := stateSvc.Search(ctx, repo.StateFilter{
		GroupID: g.ID,
		MinCode: &minCode,
		MaxCode: &maxCode,
	}, 1, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected total 2 and 2 items, got total=%d items=%d", total, len(items))
	}

	minCode = 9
	maxCode = 2
	if _, _, err := stateSvc.Search(ctx, repo.StateFilter{MinCode: &minCode, MaxCode: &maxCode}, 1, 10); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

// Mirrors a typical seeding session: one vocabulary of line states created in
// bulk, queried back by range and by description.
func TestState_LineStatesScenario(t *testing.T) {
	db := newTestDB(t)
	groupSvc := NewStateGroupService(db)
	stateSvc := NewStateService(db)
	ctx := context.Background()

	g, err := groupSvc.Create(ctx, "Line States", "Run states for packaging lines")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	created, err := stateSvc.BulkCreate(ctx, []StateSpec{
		{GroupID: g.ID, Code: 0, Description: "Stopped"},
		{GroupID: g.ID, Code: 1, Description: "Running"},
		{GroupID: g.ID, Code: 2, Description: "Starved"},
		{GroupID: g.ID, Code: 3, Description: "Blocked"},
		{GroupID: g.ID, Code: 4, Description: "Changeover"},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 5 {
		t.Fatalf("expected 5 created, got %d", len(created))
	}

	// Re-seeding the same batch is a no-op thanks to duplicate skipping.
	again, err := stateSvc.BulkCreate(ctx, []StateSpec{
		{GroupID: g.ID, Code: 1, Description: "Running"},
		{GroupID: g.ID, Code: 4, Description: "Changeover"},
	})
	if err != nil {
		t.Fatalf("bulk re-create: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected 0 created on re-seed, got %d", len(again))
	}

	running, err := stateSvc.GetByCode(ctx, g.ID, 1)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if running.Description != "Running" {
		t.Fatalf("expected Running, got %q", running.Description)
	}

	active, err := stateSvc.ListByCodeRange(ctx, g.ID, 1, 3)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active states, got %d", len(active))
	}
}

func TestStateGroup_SearchByDescription(t *testing.T) {
	db := newTestDB(t)
	svc := NewStateGroupService(db)
	ctx := context.Background()

	for _, g := range []struct{ name, desc string }{
		{"Group A", "Pump related operations"},
		{"Group B", "Motor control operations"},
		{"Group C", "Valve positioning"},
	} {
		if _, err := svc.Create(ctx, g.name, g.desc); err != nil {
			t.Fatalf("create %q: %v", g.name, err)
		}
	}

	got, err := svc.SearchByDescription(ctx, "OPERATIONS")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// Ordered by group name, not description.
	if got[0].Name != "Group A" || got[1].Name != "Group B" {
		t.Fatalf("expected name-ordered matches, got %q, %q", got[0].Name, got[1].Name)
	}

	if _, err := svc.SearchByDescription(ctx, "   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank term, got %v", err)
	}
}
