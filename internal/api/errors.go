// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"net/http"

	"github.com/lexidrill/lexidrill-api/internal/asset"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/generation"
	"github.com/lexidrill/lexidrill-api/internal/service/session"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Configuration errors: the caller must configure before retrying
	case errors.Is(err, session.ErrNotConfigured),
		errors.Is(err, generation.ErrNotConfigured):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, session.ErrQuestionNotFound),
		errors.Is(err, store.ErrVocabularyNotFound),
		errors.Is(err, store.ErrSentenceNotFound),
		errors.Is(err, store.ErrUserStateNotFound),
		errors.Is(err, store.ErrSystemConfigNotFound):
		return http.StatusNotFound

	// Exhaustion: the quiz pool is empty
	case errors.Is(err, session.ErrNoTargetVocabulary):
		return http.StatusConflict

	// Write-once violations and duplicates
	case errors.Is(err, domain.ErrSettlementInitialized),
		errors.Is(err, store.ErrAlreadyTargeted),
		errors.Is(err, store.ErrWordExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidSettlementDay),
		errors.Is(err, domain.ErrInvalidQuestionType),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, asset.ErrUnknownKind),
		errors.Is(err, generation.ErrInvalidConfig):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, session.ErrNotConfigured):
		return "System configuration not initialized"

	case errors.Is(err, generation.ErrNotConfigured):
		return "Provider API key not configured"

	case errors.Is(err, session.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, store.ErrVocabularyNotFound):
		return "Vocabulary not found"

	case errors.Is(err, store.ErrSentenceNotFound):
		return "Example sentence not found"

	case errors.Is(err, session.ErrNoTargetVocabulary):
		return "No target vocabulary available; add target words first"

	case errors.Is(err, domain.ErrSettlementInitialized):
		return "Settlement day is already initialized"

	case errors.Is(err, domain.ErrInvalidSettlementDay):
		return "Settlement day must be between 1 and 31"

	case errors.Is(err, store.ErrAlreadyTargeted):
		return "Vocabulary is already targeted"

	case errors.Is(err, store.ErrWordExists):
		return "Word already exists"

	case errors.Is(err, asset.ErrUnknownKind):
		return "Unknown asset kind"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
