// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants and the single mapping
// from service-layer errors to HTTP responses. Codes provide clients with a
// stable, machine-readable error taxonomy that supplements human-readable
// messages; clients are expected to branch on codes, never on message text.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - Generic codes (bad_request, not_found) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (reference_not_found, in_use) distinguish failure
//     modes that share a status with a generic code.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesworks/go-mes-backend/internal/domain"
)

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeValidation  = "validation_failed"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "already_exists"
	ErrCodeRefNotFound = "reference_not_found"
	ErrCodeInUse       = "in_use"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// svcError translates a service-layer error into the HTTP response for it.
// This is the only place where domain errors meet status codes:
//
//	ValidationError      -> 400 validation_failed
//	ErrNotFound          -> 404 not_found
//	ErrAlreadyExists     -> 409 already_exists
//	ErrInUse             -> 409 in_use
//	ErrReferenceNotFound -> 422 reference_not_found
//	anything else        -> 500 internal_error
func svcError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Msg)
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInUse):
		fail(c, http.StatusConflict, ErrCodeInUse, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrReferenceNotFound):
		fail(c, http.StatusUnprocessableEntity, ErrCodeRefNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
