// Package session implements the learning session engine: starting and
// stopping quiz runs, scoring answers, and selecting the next question.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/domain"
)

// SubmitAnswerRequest carries one answer to the pending question.
type SubmitAnswerRequest struct {
	QuestionID   uuid.UUID           `json:"question_id"`
	Answer       string              `json:"answer"`
	QuestionType domain.QuestionType `json:"question_type"`
}

// StartResult is the payload a client needs to begin (or resume) drilling.
type StartResult struct {
	Question       *domain.Question `json:"question"`
	SessionCorrect int              `json:"session_correct"`
	SessionWrong   int              `json:"session_wrong"`
}

// SubmitAnswerResult reports the scored answer plus the next question, so a
// client renders the follow-up without a second round trip.
type SubmitAnswerResult struct {
	IsCorrect      bool             `json:"is_correct"`
	CorrectAnswer  string           `json:"correct_answer"`
	PointChange    int              `json:"point_change"`
	NewPoints      int              `json:"new_points"`
	NewReward      float64          `json:"new_reward"`
	SessionCorrect int              `json:"session_correct"`
	SessionWrong   int              `json:"session_wrong"`
	NextQuestion   *domain.Question `json:"next_question"`
}

// SessionService drives the learner's quiz state machine.
type SessionService interface {
	// GetState returns the learner's current state, lazily creating it. The
	// settlement check runs first as a side effect.
	GetState(ctx context.Context) (*domain.UserState, error)

	// StartSession begins a quiz run. If a question is already pending the
	// same question is reconstructed and returned (idempotent resume);
	// otherwise session counters reset and a fresh question is assigned.
	//
	// Returns ErrNoTargetVocabulary when the target set is empty.
	StartSession(ctx context.Context) (*StartResult, error)

	// StopSession returns the learner to idle. Points, reward, and the audit
	// log are preserved. The pending question pointer is deliberately left in
	// place; it is meaningless while idle and overwritten on the next start.
	StopSession(ctx context.Context) error

	// SubmitAnswer scores the answer against the pending question, applies
	// the point delta, appends an audit row, and assigns the next question,
	// all within one transaction.
	//
	// Returns ErrNotConfigured when no system configuration exists,
	// ErrQuestionNotFound when the question id resolves to nothing, and
	// ErrNoTargetVocabulary when no follow-up question can be drawn.
	SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitAnswerResult, error)

	// GetPointLogs returns the audit trail newest-first, at most limit rows.
	// A non-positive limit uses the default of 50.
	GetPointLogs(ctx context.Context, limit int) ([]*domain.PointLog, error)
}

// Common error types for SessionService
var (
	// ErrNotConfigured indicates the system configuration row is missing.
	ErrNotConfigured = errors.New("system configuration not initialized")

	// ErrQuestionNotFound indicates the submitted question id does not
	// resolve to a vocabulary.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrNoTargetVocabulary indicates the quiz pool is empty.
	ErrNoTargetVocabulary = errors.New("no target vocabulary available")
)

// ServiceError wraps errors from the session service with operation context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartSessionError returns a ServiceError for the start_session operation.
func NewStartSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "start_session", Message: message, Err: err}
}

// NewSubmitAnswerError returns a ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_answer", Message: message, Err: err}
}
