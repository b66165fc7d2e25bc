package generation

import "context"

// GeneratedFile is one produced media asset: raw bytes plus the file
// extension (including the dot) the provider's content type implies.
type GeneratedFile struct {
	Data []byte
	Ext  string
}

// ImageGenerator defines the interface for producing an illustrative image
// for a vocabulary word. Implementations call an external image model and
// download the result.
type ImageGenerator interface {
	// GenerateImage renders an image for the given word. The returned file
	// holds the downloaded image bytes and its extension.
	GenerateImage(ctx context.Context, word string) (*GeneratedFile, error)
}

// SpeechGenerator defines the interface for synthesizing pronunciation audio
// for a word or a full example sentence.
type SpeechGenerator interface {
	// GenerateSpeech synthesizes audio for the given text.
	GenerateSpeech(ctx context.Context, text string) (*GeneratedFile, error)
}

// SentenceGenerator defines the interface for producing short example
// sentences that demonstrate a vocabulary word in context.
type SentenceGenerator interface {
	// GenerateSentences returns count example sentences for the word. Each
	// sentence contains the word itself so it can later be blanked out for
	// fill-in questions.
	GenerateSentences(ctx context.Context, word string, count int) ([]string, error)
}
