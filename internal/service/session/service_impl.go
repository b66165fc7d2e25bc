package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

const defaultLogLimit = 50

// SettlementChecker runs the opportunistic cycle-close check. Failures are
// its own concern; the session engine only triggers it.
type SettlementChecker interface {
	CheckAndSettle(ctx context.Context)
}

// Verify interface compliance at compile time
var _ SessionService = (*sessionServiceImpl)(nil)

// sessionServiceImpl implements the SessionService interface.
type sessionServiceImpl struct {
	db            *sql.DB
	stateStore    store.UserStateStore
	configStore   store.SystemConfigStore
	vocabStore    store.VocabularyStore
	pointLogStore store.PointLogStore
	settlement    SettlementChecker
	rng           Rand
	logger        *slog.Logger
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(
	db *sql.DB,
	stateStore store.UserStateStore,
	configStore store.SystemConfigStore,
	vocabStore store.VocabularyStore,
	pointLogStore store.PointLogStore,
	settlement SettlementChecker,
	rng Rand,
	log *slog.Logger,
) SessionService {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if stateStore == nil || configStore == nil || vocabStore == nil || pointLogStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("session service stores cannot be nil")
	}
	if settlement == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("settlement checker cannot be nil")
	}

	if rng == nil {
		rng = NewRand()
	}
	if log == nil {
		log = slog.Default()
	}

	return &sessionServiceImpl{
		db:            db,
		stateStore:    stateStore,
		configStore:   configStore,
		vocabStore:    vocabStore,
		pointLogStore: pointLogStore,
		settlement:    settlement,
		rng:           rng,
		logger:        log.With(slog.String("component", "session_service")),
	}
}

// GetState implements SessionService.GetState.
func (s *sessionServiceImpl) GetState(ctx context.Context) (*domain.UserState, error) {
	s.settlement.CheckAndSettle(ctx)

	state, err := s.stateStore.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user state: %w", err)
	}
	return state, nil
}

// StartSession implements SessionService.StartSession.
func (s *sessionServiceImpl) StartSession(ctx context.Context) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *StartResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		stateTx := s.stateStore.WithTx(tx)

		state, err := stateTx.Get(ctx)
		if err != nil {
			return err
		}

		if state.HasPendingQuestion() {
			storedType := state.QuestionType
			question, err := s.rebuildPendingQuestion(ctx, state)
			if err == nil {
				// rebuild may have swapped an unusable stored type; keep the
				// pointer and the payload in agreement.
				if state.QuestionType != storedType {
					if err := stateTx.Update(ctx, state); err != nil {
						return err
					}
				}
				log.Debug("resuming pending question",
					slog.String("question_id", state.CurrentQuestion.String()))
				result = &StartResult{
					Question:       question,
					SessionCorrect: state.SessionCorrect,
					SessionWrong:   state.SessionWrong,
				}
				return nil
			}

			// The pending vocabulary may have been removed since the session
			// was abandoned. Fall through and draw a fresh question.
			if !errors.Is(err, store.ErrVocabularyNotFound) {
				return err
			}
			log.Warn("pending question no longer resolvable, drawing fresh",
				slog.String("question_id", state.CurrentQuestion.String()))
		}

		state.SessionCorrect = 0
		state.SessionWrong = 0
		state.IsLearning = true

		question, err := s.selectQuestion(ctx, state)
		if err != nil {
			return err
		}

		if err := stateTx.Update(ctx, state); err != nil {
			return err
		}

		result = &StartResult{
			Question:       question,
			SessionCorrect: state.SessionCorrect,
			SessionWrong:   state.SessionWrong,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoTargetVocabulary) {
			return nil, err
		}
		log.Error("failed to start session", slog.String("error", err.Error()))
		return nil, NewStartSessionError("could not start session", err)
	}

	return result, nil
}

// StopSession implements SessionService.StopSession.
func (s *sessionServiceImpl) StopSession(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		stateTx := s.stateStore.WithTx(tx)

		state, err := stateTx.Get(ctx)
		if err != nil {
			return err
		}

		state.IsLearning = false
		return stateTx.Update(ctx, state)
	})
	if err != nil {
		log.Error("failed to stop session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to stop session: %w", err)
	}

	return nil
}

// SubmitAnswer implements SessionService.SubmitAnswer.
func (s *sessionServiceImpl) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cfg, err := s.configStore.Peek(ctx)
	if err != nil {
		if errors.Is(err, store.ErrSystemConfigNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, NewSubmitAnswerError("could not load configuration", err)
	}

	var result *SubmitAnswerResult
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		stateTx := s.stateStore.WithTx(tx)
		logsTx := s.pointLogStore.WithTx(tx)

		vocab, err := s.vocabStore.GetByID(ctx, req.QuestionID)
		if err != nil {
			if errors.Is(err, store.ErrVocabularyNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		state, err := stateTx.Get(ctx)
		if err != nil {
			return err
		}

		isCorrect := req.Answer == vocab.Word
		pointChange := cfg.PointsPerQuestion
		if !isCorrect {
			pointChange = -cfg.PointsPerQuestion
		}

		state.ApplyAnswer(isCorrect, pointChange, cfg)

		entry := domain.NewPointLog(pointChange, state.CurrentPoints, isCorrect, vocab.Word, req.QuestionType)
		if err := logsTx.Append(ctx, entry); err != nil {
			return err
		}

		next, err := s.selectQuestion(ctx, state)
		if err != nil {
			return err
		}

		if err := stateTx.Update(ctx, state); err != nil {
			return err
		}

		result = &SubmitAnswerResult{
			IsCorrect:      isCorrect,
			CorrectAnswer:  vocab.Word,
			PointChange:    pointChange,
			NewPoints:      state.CurrentPoints,
			NewReward:      state.CurrentReward,
			SessionCorrect: state.SessionCorrect,
			SessionWrong:   state.SessionWrong,
			NextQuestion:   next,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrNoTargetVocabulary) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("question_id", req.QuestionID.String()))
		return nil, NewSubmitAnswerError("could not process answer", err)
	}

	return result, nil
}

// GetPointLogs implements SessionService.GetPointLogs.
func (s *sessionServiceImpl) GetPointLogs(ctx context.Context, limit int) ([]*domain.PointLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}

	logs, err := s.pointLogStore.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list point logs: %w", err)
	}
	return logs, nil
}

// selectQuestion draws a new question, records it on state, and returns the
// full render payload. The caller persists state.
func (s *sessionServiceImpl) selectQuestion(ctx context.Context, state *domain.UserState) (*domain.Question, error) {
	targets, err := s.vocabStore.ListTargets(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, ErrNoTargetVocabulary
	}

	target := targets[s.rng.Intn(len(targets))]
	vocab := target.Vocabulary

	questionType := s.pickQuestionType(vocab)

	question, err := s.buildQuestion(vocab, questionType, targets, false)
	if err != nil {
		return nil, err
	}

	state.CurrentQuestion = vocab.ID
	state.QuestionType = questionType
	return question, nil
}

// rebuildPendingQuestion reconstructs the in-flight question from the state
// pointer so a reconnecting client sees exactly what it left.
func (s *sessionServiceImpl) rebuildPendingQuestion(ctx context.Context, state *domain.UserState) (*domain.Question, error) {
	vocab, err := s.vocabStore.GetByID(ctx, state.CurrentQuestion)
	if err != nil {
		return nil, err
	}

	targets, err := s.vocabStore.ListTargets(ctx)
	if err != nil {
		return nil, err
	}

	questionType := state.QuestionType
	if !domain.ValidQuestionType(questionType) ||
		(questionType == domain.QuestionSentenceToWord && len(vocab.AudioSentences()) == 0) {
		questionType = s.pickQuestionType(vocab)
		state.QuestionType = questionType
	}

	return s.buildQuestion(vocab, questionType, targets, true)
}

// pickQuestionType chooses uniformly among the types the vocabulary is
// eligible for. Sentence questions need at least one audio-bearing sentence.
func (s *sessionServiceImpl) pickQuestionType(vocab *domain.Vocabulary) domain.QuestionType {
	eligible := []domain.QuestionType{
		domain.QuestionImageToWord,
		domain.QuestionWordToImage,
	}
	if len(vocab.AudioSentences()) > 0 {
		eligible = append(eligible, domain.QuestionSentenceToWord)
	}
	return eligible[s.rng.Intn(len(eligible))]
}

// buildQuestion assembles the option set and, for sentence questions, the
// blanked sentence payload.
func (s *sessionServiceImpl) buildQuestion(
	vocab *domain.Vocabulary,
	questionType domain.QuestionType,
	targets []*domain.TargetVocabulary,
	continuing bool,
) (*domain.Question, error) {
	options := s.buildOptions(vocab, targets)

	question := &domain.Question{
		Continuing:   continuing,
		Vocabulary:   vocab,
		QuestionType: questionType,
		Options:      options,
	}

	if questionType == domain.QuestionSentenceToWord {
		audible := vocab.AudioSentences()
		if len(audible) == 0 {
			return nil, fmt.Errorf("vocabulary %s has no audio sentences for sentence question", vocab.ID)
		}
		sentence := audible[s.rng.Intn(len(audible))]
		question.SentenceData = &domain.SentenceData{
			SentenceID:        sentence.ID,
			OriginalSentence:  sentence.Sentence,
			SentenceWithBlank: domain.BlankOutWord(sentence.Sentence, vocab.Word),
			AudioPath:         sentence.AudioPath,
		}
	}

	return question, nil
}

// buildOptions returns the correct vocabulary plus up to two distractors
// drawn without replacement from the other targets, shuffled. With a small
// target pool the set may hold fewer than three options.
func (s *sessionServiceImpl) buildOptions(vocab *domain.Vocabulary, targets []*domain.TargetVocabulary) []*domain.Vocabulary {
	others := make([]*domain.Vocabulary, 0, len(targets))
	for _, t := range targets {
		if t.Vocabulary != nil && t.VocabularyID != vocab.ID {
			others = append(others, t.Vocabulary)
		}
	}

	s.rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	distractors := 2
	if len(others) < distractors {
		distractors = len(others)
	}

	options := append([]*domain.Vocabulary{vocab}, others[:distractors]...)
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}
