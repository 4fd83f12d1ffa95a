// Package services – shared validation rules
//
// These primitives are pure functions with no I/O. Entity services call them
// before issuing any query, so invalid input never reaches persistence.
// Messages are stable: "<field> cannot be empty", "<field> exceeds max length
// of N characters", "<field> cannot be negative".
package services

import (
	"strings"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

// Pagination contract: page input is 1-based; per-page is capped so a single
// request cannot drain the table.
const (
	maxPerPage = 1000
)

// requireText trims value and enforces non-emptiness and the max byte
// length. It returns the trimmed value; every stored string goes through
// here, which is what makes P2-style trim idempotence hold.
func requireText(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", domain.Validationf("%s cannot be empty", field)
	}
	if len(trimmed) > max {
		return "", domain.Validationf("%s exceeds max length of %d characters", field, max)
	}
	return trimmed, nil
}

// requireNonNegative rejects negative integers.
func requireNonNegative(field string, n int) error {
	if n < 0 {
		return domain.Validationf("%s cannot be negative", field)
	}
	return nil
}

// pageBounds converts a 1-based page and per-page size into an offset,
// validating both. perPage must be in [1,1000] and the derived offset must
// be non-negative.
func pageBounds(page, perPage int) (int, error) {
	if perPage < 1 || perPage > maxPerPage {
		return 0, domain.Validationf("per_page must be between 1 and %d", maxPerPage)
	}
	offset := (page - 1) * perPage
	if offset < 0 {
		return 0, domain.Validationf("offset cannot be negative")
	}
	return offset, nil
}

// requireSearchTerm rejects empty or whitespace-only search input.
func requireSearchTerm(term string) (string, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return "", domain.Validationf("search term cannot be empty")
	}
	return trimmed, nil
}
