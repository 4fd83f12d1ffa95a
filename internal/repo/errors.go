// Package repo – driver error translation
//
// Every repository function passes its terminal error through translate() so
// the rest of the codebase only ever sees the domain taxonomy. This is the
// single point where a unique-constraint race (two concurrent creates passing
// the same pre-check) is folded into domain.ErrAlreadyExists; the database
// constraint stays the authoritative enforcement.
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// translate maps driver-level failures onto the domain error taxonomy.
// Unrecognized errors pass through unchanged (StoreError semantics).
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// isDuplicate detects unique-constraint violations on drivers that do not
// map them to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
