package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// FakeVocabularyStore is an in-memory store.VocabularyStore. Derived queries
// (missing-asset lists, counts) are computed from the stored vocabularies so
// tests exercise the same data flow as the PostgreSQL implementation.
type FakeVocabularyStore struct {
	mu      sync.Mutex
	Vocabs  map[uuid.UUID]*domain.Vocabulary
	Targets []*domain.TargetVocabulary

	// ForcedErr, when set, is returned by every method.
	ForcedErr error
}

var _ store.VocabularyStore = (*FakeVocabularyStore)(nil)

// NewFakeVocabularyStore returns an empty fake.
func NewFakeVocabularyStore() *FakeVocabularyStore {
	return &FakeVocabularyStore{Vocabs: make(map[uuid.UUID]*domain.Vocabulary)}
}

// AddWord inserts a vocabulary for the given word and returns it.
func (f *FakeVocabularyStore) AddWord(word string) *domain.Vocabulary {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, err := domain.NewVocabulary(word)
	if err != nil {
		// ALLOW-PANIC: test helper, caller controls the input
		panic(err)
	}
	f.Vocabs[v.ID] = v
	return v
}

// AddTargetWord inserts a vocabulary and marks it as a quiz target.
func (f *FakeVocabularyStore) AddTargetWord(word string) *domain.Vocabulary {
	v := f.AddWord(word)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Targets = append(f.Targets, &domain.TargetVocabulary{
		ID:           uuid.New(),
		VocabularyID: v.ID,
		Vocabulary:   v,
	})
	return v
}

func (f *FakeVocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	v, ok := f.Vocabs[id]
	if !ok {
		return nil, store.ErrVocabularyNotFound
	}
	return v, nil
}

func (f *FakeVocabularyStore) ListTargets(ctx context.Context) ([]*domain.TargetVocabulary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	out := make([]*domain.TargetVocabulary, 0, len(f.Targets))
	for _, t := range f.Targets {
		t.Vocabulary = f.Vocabs[t.VocabularyID]
		out = append(out, t)
	}
	return out, nil
}

func (f *FakeVocabularyStore) AddTarget(ctx context.Context, vocabularyID uuid.UUID) (*domain.TargetVocabulary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	if _, ok := f.Vocabs[vocabularyID]; !ok {
		return nil, store.ErrVocabularyNotFound
	}
	for _, t := range f.Targets {
		if t.VocabularyID == vocabularyID {
			return nil, store.ErrAlreadyTargeted
		}
	}
	t := &domain.TargetVocabulary{
		ID:           uuid.New(),
		VocabularyID: vocabularyID,
		Vocabulary:   f.Vocabs[vocabularyID],
	}
	f.Targets = append(f.Targets, t)
	return t, nil
}

func (f *FakeVocabularyStore) CountVocabularies(ctx context.Context, missingImage bool) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return 0, 0, f.ForcedErr
	}
	missing := 0
	for _, v := range f.Vocabs {
		if missingImage && !v.HasImage() {
			missing++
		}
		if !missingImage && !v.HasAudio() {
			missing++
		}
	}
	return len(f.Vocabs), missing, nil
}

func (f *FakeVocabularyStore) CountSentences(ctx context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return 0, 0, f.ForcedErr
	}
	total, missing := 0, 0
	for _, v := range f.Vocabs {
		for _, s := range v.Sentences {
			total++
			if s.AudioPath == "" {
				missing++
			}
		}
	}
	return total, missing, nil
}

func (f *FakeVocabularyStore) ListVocabulariesMissingImage(ctx context.Context) ([]store.AssetItem, error) {
	return f.listVocabs(func(v *domain.Vocabulary) bool { return !v.HasImage() })
}

func (f *FakeVocabularyStore) ListVocabulariesMissingAudio(ctx context.Context) ([]store.AssetItem, error) {
	return f.listVocabs(func(v *domain.Vocabulary) bool { return !v.HasAudio() })
}

func (f *FakeVocabularyStore) listVocabs(match func(*domain.Vocabulary) bool) ([]store.AssetItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var items []store.AssetItem
	for _, v := range f.Vocabs {
		if match(v) {
			items = append(items, store.AssetItem{ID: v.ID, Text: v.Word})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Text < items[j].Text })
	return items, nil
}

func (f *FakeVocabularyStore) ListSentencesMissingAudio(ctx context.Context) ([]store.AssetItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var items []store.AssetItem
	for _, v := range f.Vocabs {
		for _, s := range v.Sentences {
			if s.AudioPath == "" {
				items = append(items, store.AssetItem{ID: s.ID, Text: s.Sentence})
			}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Text < items[j].Text })
	return items, nil
}

func (f *FakeVocabularyStore) ListVocabulariesNeedingSentences(ctx context.Context, min int) ([]store.AssetItem, error) {
	return f.listVocabs(func(v *domain.Vocabulary) bool { return len(v.Sentences) < min })
}

func (f *FakeVocabularyStore) AttachImagePath(ctx context.Context, id uuid.UUID, path string) error {
	return f.attach(id, func(v *domain.Vocabulary) { v.ImagePath = path })
}

func (f *FakeVocabularyStore) AttachAudioPath(ctx context.Context, id uuid.UUID, path string) error {
	return f.attach(id, func(v *domain.Vocabulary) { v.AudioPath = path })
}

func (f *FakeVocabularyStore) attach(id uuid.UUID, apply func(*domain.Vocabulary)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	v, ok := f.Vocabs[id]
	if !ok {
		return store.ErrVocabularyNotFound
	}
	apply(v)
	return nil
}

func (f *FakeVocabularyStore) AttachSentenceAudioPath(ctx context.Context, id uuid.UUID, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	for _, v := range f.Vocabs {
		for i := range v.Sentences {
			if v.Sentences[i].ID == id {
				v.Sentences[i].AudioPath = path
				return nil
			}
		}
	}
	return store.ErrSentenceNotFound
}

func (f *FakeVocabularyStore) CreateSentence(ctx context.Context, sentence *domain.ExampleSentence) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	v, ok := f.Vocabs[sentence.VocabularyID]
	if !ok {
		return store.ErrVocabularyNotFound
	}
	v.Sentences = append(v.Sentences, *sentence)
	return nil
}

// FakeUserStateStore is an in-memory store.UserStateStore.
type FakeUserStateStore struct {
	mu    sync.Mutex
	State *domain.UserState

	// UpdateCalls counts persisted writes.
	UpdateCalls int
	ForcedErr   error
}

var _ store.UserStateStore = (*FakeUserStateStore)(nil)

// NewFakeUserStateStore returns a fake with no state row yet; Get lazily
// creates the default row, mirroring the PostgreSQL store.
func NewFakeUserStateStore() *FakeUserStateStore {
	return &FakeUserStateStore{}
}

func (f *FakeUserStateStore) Get(ctx context.Context) (*domain.UserState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	if f.State == nil {
		f.State = domain.NewUserState()
	}
	copied := *f.State
	return &copied, nil
}

func (f *FakeUserStateStore) Peek(ctx context.Context) (*domain.UserState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	if f.State == nil {
		return nil, store.ErrUserStateNotFound
	}
	copied := *f.State
	return &copied, nil
}

func (f *FakeUserStateStore) Update(ctx context.Context, state *domain.UserState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	if f.State == nil {
		return store.ErrUserStateNotFound
	}
	copied := *state
	f.State = &copied
	f.UpdateCalls++
	return nil
}

func (f *FakeUserStateStore) WithTx(tx *sql.Tx) store.UserStateStore { return f }

// FakeSystemConfigStore is an in-memory store.SystemConfigStore.
type FakeSystemConfigStore struct {
	mu        sync.Mutex
	Cfg       *domain.SystemConfig
	ForcedErr error
}

var _ store.SystemConfigStore = (*FakeSystemConfigStore)(nil)

// NewFakeSystemConfigStore returns a fake holding the given configuration.
// Pass nil to start unconfigured; Get then lazily creates defaults while
// Peek reports ErrSystemConfigNotFound.
func NewFakeSystemConfigStore(cfg *domain.SystemConfig) *FakeSystemConfigStore {
	return &FakeSystemConfigStore{Cfg: cfg}
}

func (f *FakeSystemConfigStore) Get(ctx context.Context) (*domain.SystemConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	if f.Cfg == nil {
		f.Cfg = domain.NewSystemConfig()
	}
	copied := *f.Cfg
	return &copied, nil
}

func (f *FakeSystemConfigStore) Peek(ctx context.Context) (*domain.SystemConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	if f.Cfg == nil {
		return nil, store.ErrSystemConfigNotFound
	}
	copied := *f.Cfg
	return &copied, nil
}

func (f *FakeSystemConfigStore) Update(ctx context.Context, cfg *domain.SystemConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	copied := *cfg
	f.Cfg = &copied
	return nil
}

// FakePointLogStore is an in-memory store.PointLogStore.
type FakePointLogStore struct {
	mu        sync.Mutex
	Entries   []*domain.PointLog
	ForcedErr error
}

var _ store.PointLogStore = (*FakePointLogStore)(nil)

// NewFakePointLogStore returns an empty fake.
func NewFakePointLogStore() *FakePointLogStore {
	return &FakePointLogStore{}
}

func (f *FakePointLogStore) Append(ctx context.Context, log *domain.PointLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.Entries = append(f.Entries, log)
	return nil
}

func (f *FakePointLogStore) ListRecent(ctx context.Context, limit int) ([]*domain.PointLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var out []*domain.PointLog
	for i := len(f.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.Entries[i])
	}
	return out, nil
}

func (f *FakePointLogStore) WithTx(tx *sql.Tx) store.PointLogStore { return f }

// FakeSettlementStore is an in-memory store.SettlementStore.
type FakeSettlementStore struct {
	mu        sync.Mutex
	Histories []*domain.SettlementHistory
	ForcedErr error
}

var _ store.SettlementStore = (*FakeSettlementStore)(nil)

// NewFakeSettlementStore returns an empty fake.
func NewFakeSettlementStore() *FakeSettlementStore {
	return &FakeSettlementStore{}
}

func (f *FakeSettlementStore) Append(ctx context.Context, history *domain.SettlementHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return f.ForcedErr
	}
	f.Histories = append(f.Histories, history)
	return nil
}

func (f *FakeSettlementStore) Latest(ctx context.Context) (*domain.SettlementHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForcedErr != nil {
		return nil, f.ForcedErr
	}
	var latest *domain.SettlementHistory
	for _, h := range f.Histories {
		if latest == nil || h.CycleEnd.After(latest.CycleEnd) {
			latest = h
		}
	}
	return latest, nil
}

func (f *FakeSettlementStore) WithTx(tx *sql.Tx) store.SettlementStore { return f }
