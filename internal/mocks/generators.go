package mocks

import (
	"context"
	"sync"

	"github.com/lexidrill/lexidrill-api/internal/generation"
)

// FakeImageGenerator returns a fixed payload, or fails for words listed in
// FailWords. Calls are recorded for assertions.
type FakeImageGenerator struct {
	mu        sync.Mutex
	Calls     []string
	FailWords map[string]error
	Ext       string
}

var _ generation.ImageGenerator = (*FakeImageGenerator)(nil)

func (f *FakeImageGenerator) GenerateImage(ctx context.Context, word string) (*generation.GeneratedFile, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, word)
	f.mu.Unlock()

	if err, ok := f.FailWords[word]; ok {
		return nil, err
	}
	ext := f.Ext
	if ext == "" {
		ext = ".png"
	}
	return &generation.GeneratedFile{Data: []byte("image:" + word), Ext: ext}, nil
}

// FakeSpeechGenerator mirrors FakeImageGenerator for audio payloads.
type FakeSpeechGenerator struct {
	mu        sync.Mutex
	Calls     []string
	FailTexts map[string]error
}

var _ generation.SpeechGenerator = (*FakeSpeechGenerator)(nil)

func (f *FakeSpeechGenerator) GenerateSpeech(ctx context.Context, text string) (*generation.GeneratedFile, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, text)
	f.mu.Unlock()

	if err, ok := f.FailTexts[text]; ok {
		return nil, err
	}
	return &generation.GeneratedFile{Data: []byte("audio:" + text), Ext: ".mp3"}, nil
}

// FakeSentenceGenerator returns canned sentences per word.
type FakeSentenceGenerator struct {
	mu        sync.Mutex
	Calls     []string
	Sentences map[string][]string
	Err       error
}

var _ generation.SentenceGenerator = (*FakeSentenceGenerator)(nil)

func (f *FakeSentenceGenerator) GenerateSentences(ctx context.Context, word string, count int) ([]string, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, word)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if s, ok := f.Sentences[word]; ok {
		return s, nil
	}
	return []string{"I like " + word + "."}, nil
}
