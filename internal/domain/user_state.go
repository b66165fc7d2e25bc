package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStateID is the fixed key of the singleton user state row. The design
// assumes exactly one learner.
const UserStateID = "user"

// UserState is the learner's mutable global state: point balance, accrued
// reward, per-session counters, and the in-flight question pointer that lets
// a reconnecting client resume the exact pending question.
type UserState struct {
	ID              string       `json:"id"`
	CurrentPoints   int          `json:"current_points"`
	CurrentReward   float64      `json:"current_reward"`
	SessionCorrect  int          `json:"session_correct"`
	SessionWrong    int          `json:"session_wrong"`
	IsLearning      bool         `json:"is_learning"`
	CurrentQuestion uuid.UUID    `json:"current_question_id,omitempty"`
	QuestionType    QuestionType `json:"current_question_type,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewUserState returns the default state used on lazy creation: zero points,
// zero reward, not learning.
func NewUserState() *UserState {
	return &UserState{
		ID:        UserStateID,
		UpdatedAt: time.Now().UTC(),
	}
}

// HasPendingQuestion reports whether a question is in flight, which is what
// makes a session resumable.
func (s *UserState) HasPendingQuestion() bool {
	return s.IsLearning && s.CurrentQuestion != uuid.Nil
}

// ApplyAnswer records an answer's point delta and recomputes the clamped
// reward. Points are deliberately not floored at zero; only the reward is.
func (s *UserState) ApplyAnswer(correct bool, pointChange int, cfg *SystemConfig) {
	s.CurrentPoints += pointChange
	s.CurrentReward = cfg.RewardFor(s.CurrentPoints)
	if correct {
		s.SessionCorrect++
	} else {
		s.SessionWrong++
	}
	s.UpdatedAt = time.Now().UTC()
}

// ResetCycle zeroes points and reward at the close of a settlement cycle.
func (s *UserState) ResetCycle() {
	s.CurrentPoints = 0
	s.CurrentReward = 0
	s.UpdatedAt = time.Now().UTC()
}
