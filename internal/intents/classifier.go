package intents

import (
	"context"
	"math"
	"strings"

	"github.com/fittrackr/assistant/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultFallbackThreshold is the similarity score below which a
	// nearest-neighbor match is not trusted and fallback is returned.
	DefaultFallbackThreshold = 0.18
	// OverrideConfidenceFloor is the minimum confidence reported for
	// keyword-overridden intents.
	OverrideConfidenceFloor = 0.6
)

// Classifier assigns an intent label to a free-text message using
// nearest-neighbor cosine similarity over character n-gram vectors, with
// keyword overrides taking precedence. The index is built once and is
// immutable, so a single Classifier is safe for concurrent use.
type Classifier struct {
	vectorizer        *vectorizer
	vectors           [][]float64
	labels            []string
	overrides         []KeywordOverride
	fallbackThreshold float64
}

func NewClassifier(corpus []IntentExample, overrides []KeywordOverride) *Classifier {
	var phrases []string
	var labels []string
	for _, example := range corpus {
		for _, phrase := range example.Phrases {
			phrases = append(phrases, Normalize(phrase))
			labels = append(labels, example.Label)
		}
	}

	v := fitVectorizer(phrases, 3, 5)
	vectors := make([][]float64, len(phrases))
	for i, phrase := range phrases {
		vectors[i] = v.transform(phrase)
	}

	normalizedOverrides := make([]KeywordOverride, len(overrides))
	for i, o := range overrides {
		normalizedOverrides[i] = KeywordOverride{
			Keyword: Normalize(o.Keyword),
			Label:   o.Label,
		}
	}

	return &Classifier{
		vectorizer:        v,
		vectors:           vectors,
		labels:            labels,
		overrides:         normalizedOverrides,
		fallbackThreshold: DefaultFallbackThreshold,
	}
}

// NewDefaultClassifier builds a classifier over the built-in corpus and
// overrides.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultCorpus(), DefaultOverrides())
}

// Classify returns the detected intent and a confidence in [0,1]. Empty
// messages go straight to fallback. The result is deterministic: similarity
// ties resolve to the first corpus phrase.
func (c *Classifier) Classify(ctx context.Context, message string) (string, float64) {
	_, span := tracing.GlobalTracer.Start(ctx, "assistant.intents.classify")
	defer span.End()

	label, confidence := c.classify(message)
	span.SetAttributes(
		attribute.String("intent", label),
		attribute.Float64("confidence", confidence),
	)
	return label, confidence
}

func (c *Classifier) classify(message string) (string, float64) {
	msg := Normalize(message)
	if msg == "" {
		return IntentFallback, 0
	}

	vec := c.vectorizer.transform(msg)

	bestIdx := -1
	bestScore := 0.0
	for i, phraseVec := range c.vectors {
		if score := cosineSimilarity(vec, phraseVec); score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	bestScore = math.Min(bestScore, 1)

	for _, o := range c.overrides {
		if strings.Contains(msg, o.Keyword) {
			return o.Label, math.Max(bestScore, OverrideConfidenceFloor)
		}
	}

	if bestIdx < 0 || bestScore < c.fallbackThreshold {
		return IntentFallback, bestScore
	}
	return c.labels[bestIdx], bestScore
}
