package generation

import (
	"context"
	"fmt"
	"strings"
)

// specialSentences holds hand-tuned sentence pairs for words where the
// generic noun templates read wrong (adjectives, verbs, pronouns).
var specialSentences = map[string][]string{
	"happy": {"I am happy.", "She is happy."},
	"sad":   {"I am sad.", "He is sad."},
	"big":   {"It is big.", "The ball is big."},
	"small": {"It is small.", "The cat is small."},
	"red":   {"It is red.", "I like red."},
	"blue":  {"It is blue.", "I like blue."},
	"green": {"It is green.", "The tree is green."},
	"run":   {"I run fast.", "She can run."},
	"jump":  {"I can jump.", "Jump high!"},
	"sing":  {"I can sing.", "She can sing."},
	"play":  {"I play games.", "Let's play!"},
	"eat":   {"I eat apples.", "Time to eat."},
	"drink": {"I drink water.", "Drink milk."},
	"i":     {"I am here.", "I like you."},
	"you":   {"You are nice.", "I see you."},
	"he":    {"He is tall.", "He runs fast."},
	"she":   {"She is kind.", "She can sing."},
}

// nounTemplates are the generic beginner-level sentence frames, simplest
// first. They target early readers, so every frame stays under five words.
var nounTemplates = []string{
	"I see a %s.",
	"I like %s.",
	"This is a %s.",
	"I have a %s.",
	"Look! A %s.",
	"One %s.",
	"Big %s.",
	"Small %s.",
}

// TemplateSentenceGenerator produces example sentences from fixed
// beginner-level frames. It needs no provider credentials and serves as the
// fallback when no language model is configured.
type TemplateSentenceGenerator struct{}

// NewTemplateSentenceGenerator returns the template-based generator.
func NewTemplateSentenceGenerator() *TemplateSentenceGenerator {
	return &TemplateSentenceGenerator{}
}

// Ensure TemplateSentenceGenerator implements SentenceGenerator
var _ SentenceGenerator = (*TemplateSentenceGenerator)(nil)

// GenerateSentences implements SentenceGenerator. Words with hand-tuned
// sentences use those; everything else goes through the noun frames.
func (g *TemplateSentenceGenerator) GenerateSentences(_ context.Context, word string, count int) ([]string, error) {
	if strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("%w: word cannot be empty", ErrGenerationFailed)
	}
	if count <= 0 {
		count = 2
	}

	if special, ok := specialSentences[strings.ToLower(word)]; ok {
		if count > len(special) {
			count = len(special)
		}
		return append([]string(nil), special[:count]...), nil
	}

	if count > len(nounTemplates) {
		count = len(nounTemplates)
	}

	sentences := make([]string, 0, count)
	for _, tmpl := range nounTemplates[:count] {
		sentences = append(sentences, fmt.Sprintf(tmpl, word))
	}
	return sentences, nil
}
