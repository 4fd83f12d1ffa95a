package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

func TestCreateState_DuplicateCodeTranslated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g := seedStateGroupRow(t, db, "Line States")
	if _, err := CreateState(ctx, db, g.ID, 1, "Running"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The composite unique index fires and the driver error is translated.
	_, err := CreateState(ctx, db, g.ID, 1, "Other")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists from constraint, got %v", err)
	}
}

func TestGetState_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetState(context.Background(), db, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStateColumn_NotFound(t *testing.T) {
	db := newTestDB(t)

	if err := UpdateStateDescription(context.Background(), db, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteState_ReportsRowsAffected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g := seedStateGroupRow(t, db, "Line States")
	st, err := CreateState(ctx, db, g.ID, 1, "Running")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := DeleteState(ctx, db, st.ID)
	if err != nil || !deleted {
		t.Fatalf("expected deleted=true, got %v/%v", deleted, err)
	}
	deleted, err = DeleteState(ctx, db, st.ID)
	if err != nil || deleted {
		t.Fatalf("expected deleted=false on repeat, got %v/%v", deleted, err)
	}
}

func TestStateExistenceChecks_ExcludeSelf(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g := seedStateGroupRow(t, db, "Line States")
	st, err := CreateState(ctx, db, g.ID, 1, "Running")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	taken, err := StateCodeExistsInGroup(ctx, db, g.ID, 1, "")
	if err != nil || !taken {
		t.Fatalf("expected code taken, got %v/%v", taken, err)
	}
	taken, err = StateCodeExistsInGroup(ctx, db, g.ID, 1, st.ID)
	if err != nil || taken {
		t.Fatalf("expected code free when excluding self, got %v/%v", taken, err)
	}
	taken, err = StateDescriptionExistsInGroup(ctx, db, g.ID, "Running", st.ID)
	if err != nil || taken {
		t.Fatalf("expected description free when excluding self, got %v/%v", taken, err)
	}
}
