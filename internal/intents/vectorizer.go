package intents

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowers the text and strips accents, so "fatigué", "FATIGUE"
// and "fatigue" all map to the same n-grams.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.ReplaceAll(text, "’", "'")
	folded, _, err := transform.String(accentFolder, text)
	if err != nil {
		return text
	}
	return folded
}

// vectorizer builds frequency-weighted character n-gram vectors: term
// counts scaled by a smoothed inverse document frequency, L2-normalized.
// The vocabulary is fixed at fit time; unknown n-grams are ignored on
// transform.
type vectorizer struct {
	ngramMin int
	ngramMax int
	vocab    map[string]int
	idf      []float64
}

func fitVectorizer(docs []string, ngramMin, ngramMax int) *vectorizer {
	vocab := make(map[string]int)
	var docFreq []int

	for _, doc := range docs {
		seen := make(map[int]bool)
		for _, gram := range charNgrams(doc, ngramMin, ngramMax) {
			idx, ok := vocab[gram]
			if !ok {
				idx = len(vocab)
				vocab[gram] = idx
				docFreq = append(docFreq, 0)
			}
			if !seen[idx] {
				docFreq[idx]++
				seen[idx] = true
			}
		}
	}

	idf := make([]float64, len(docFreq))
	for i, df := range docFreq {
		idf[i] = math.Log(float64(1+len(docs))/float64(1+df)) + 1
	}

	return &vectorizer{
		ngramMin: ngramMin,
		ngramMax: ngramMax,
		vocab:    vocab,
		idf:      idf,
	}
}

// transform maps text to its weighted vector in the fitted vocabulary.
func (v *vectorizer) transform(text string) []float64 {
	vec := make([]float64, len(v.vocab))
	for _, gram := range charNgrams(text, v.ngramMin, v.ngramMax) {
		if idx, ok := v.vocab[gram]; ok {
			vec[idx]++
		}
	}

	var norm2 float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm2 += vec[i] * vec[i]
	}
	if norm2 > 0 {
		norm2 = math.Sqrt(norm2)
		for i := range vec {
			vec[i] /= norm2
		}
	}

	return vec
}

func charNgrams(text string, ngramMin, ngramMax int) []string {
	chars := []rune(text)
	var grams []string
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(chars); i++ {
			grams = append(grams, string(chars[i:i+n]))
		}
	}
	return grams
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
