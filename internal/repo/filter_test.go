package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.EquipmentType{},
		&domain.Equipment{},
		&domain.ModeGroup{},
		&domain.Mode{},
		&domain.StateGroup{},
		&domain.State{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedStateGroupRow(t *testing.T, db *gorm.DB, name string) *domain.StateGroup {
	t.Helper()
	g, err := CreateStateGroup(context.Background(), db, name, name+" description")
	if err != nil {
		t.Fatalf("create state group: %v", err)
	}
	return g
}

func TestStateFilter_CountMatchesFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g1 := seedStateGroupRow(t, db, "Line States")
	g2 := seedStateGroupRow(t, db, "Machine States")

	for code, desc := range map[int]string{0: "Stopped", 1: "Running", 2: "Starved", 7: "Blocked"} {
		if _, err := CreateState(ctx, db, g1.ID, code, desc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := CreateState(ctx, db, g2.ID, 1, "Running"); err != nil {
		t.Fatalf("create: %v", err)
	}

	minCode, maxCode := 0, 5
	f := StateFilter{GroupID: g1.ID, MinCode: &minCode, MaxCode: &maxCode}

	total, err := CountStatesFiltered(ctx, db, f)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	items, err := FindStatesFiltered(ctx, db, f, 0, 100)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if int64(len(items)) != total {
		t.Fatalf("count %d does not match page set %d", total, len(items))
	}
	if total != 3 {
		t.Fatalf("expected 3 states in range for group, got %d", total)
	}

	// Adding a description predicate narrows both the same way.
	f.Description = "St"
	total, err = CountStatesFiltered(ctx, db, f)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	items, err = FindStatesFiltered(ctx, db, f, 0, 100)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if int64(len(items)) != total || total != 2 {
		t.Fatalf("expected matching count/page of 2, got count=%d items=%d", total, len(items))
	}
}

func TestModeFilter_DescriptionIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g, err := CreateModeGroup(ctx, db, "Line Modes", "desc")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	for _, d := range []string{"Production", "Planned Stop", "Changeover"} {
		if _, err := CreateMode(ctx, db, g.ID, d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := FindModesFiltered(ctx, db, ModeFilter{Description: "PLAN"}, 0, 10)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 1 || items[0].Description != "Planned Stop" {
		t.Fatalf("unexpected match set: %+v", items)
	}
}

func TestStateFilter_PaginationWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g := seedStateGroupRow(t, db, "Line States")
	for i := 0; i < 7; i++ {
		if _, err := CreateState(ctx, db, g.ID, i, fmt.Sprintf("State %d", i)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page1, err := FindStatesFiltered(ctx, db, StateFilter{GroupID: g.ID}, 0, 3)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	page2, err := FindStatesFiltered(ctx, db, StateFilter{GroupID: g.ID}, 3, 3)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(page1) != 3 || len(page2) != 3 {
		t.Fatalf("expected full pages, got %d and %d", len(page1), len(page2))
	}
	// Stable code ordering means no overlap between adjacent pages.
	if page1[2].Code >= page2[0].Code {
		t.Fatalf("pages overlap: %d vs %d", page1[2].Code, page2[0].Code)
	}
}
