package domain

import (
	"time"

	"github.com/google/uuid"
)

// PointLog is one append-only audit row per answered question. Rows are never
// mutated or deleted. The question word, type, and correct answer are recorded
// only for wrong answers, for remediation review.
type PointLog struct {
	ID           uuid.UUID    `json:"id"`
	ChangeAmount int          `json:"change_amount"`
	BalanceAfter int          `json:"balance_after"`
	QuestionWord string       `json:"question_word,omitempty"`
	QuestionType QuestionType `json:"question_type,omitempty"`
	CorrectWord  string       `json:"correct_answer,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewPointLog builds the audit row for an answer. For correct answers the
// remediation fields stay empty.
func NewPointLog(change, balanceAfter int, correct bool, word string, qt QuestionType) *PointLog {
	log := &PointLog{
		ID:           uuid.New(),
		ChangeAmount: change,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC(),
	}
	if !correct {
		log.QuestionWord = word
		log.QuestionType = qt
		log.CorrectWord = word
	}
	return log
}
