package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyWord is returned when a vocabulary word is empty.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrEmptySentence is returned when an example sentence is empty.
	ErrEmptySentence = errors.New("sentence cannot be empty")

	// ErrInvalidQuestionType is returned when a question type is not one of
	// the three supported kinds.
	ErrInvalidQuestionType = errors.New("invalid question type")

	// ErrInvalidSettlementDay is returned when a settlement day is outside 1-31.
	ErrInvalidSettlementDay = errors.New("settlement day must be between 1 and 31")

	// ErrSettlementInitialized is returned when the settlement cycle is
	// re-initialized after the write-once flag has been set.
	ErrSettlementInitialized = errors.New("settlement cycle already initialized")
)
