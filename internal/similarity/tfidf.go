// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity implements a TF-IDF weighted vector space over strategy
// documents and cosine similarity between them. The vocabulary is derived
// from the full document set passed to NewVectorizer, so vectors from the
// same vectorizer are always comparable.
package similarity

import (
	"math"
	"strings"
	"unicode"
)

// Vectorizer holds the shared vocabulary and inverse document frequencies
// fitted over one document set.
type Vectorizer struct {
	vocab map[string]int // term → dimension index
	idf   []float64      // per-dimension inverse document frequency
}

// NewVectorizer fits a vectorizer over docs. Terms are lowercased word
// tokens of length >= 2 with stop words removed. IDF uses the smoothed form
// ln((1+n)/(1+df)) + 1 so terms present in every document still carry a
// small positive weight.
func NewVectorizer(docs []string) *Vectorizer {
	vocab := make(map[string]int)
	df := []int{}

	for _, doc := range docs {
		seen := make(map[int]struct{})
		for _, tok := range tokenize(doc) {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
				df = append(df, 0)
			}
			seen[idx] = struct{}{}
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	return &Vectorizer{vocab: vocab, idf: idf}
}

// Vector returns the L2-normalized TF-IDF vector for doc. Terms outside the
// fitted vocabulary are ignored. A document with no retained terms yields
// the zero vector.
func (v *Vectorizer) Vector(doc string) []float64 {
	vec := make([]float64, len(v.vocab))
	for _, tok := range tokenize(doc) {
		if idx, ok := v.vocab[tok]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of two same-length normalized
// vectors. Zero vectors compare as 0.0 rather than NaN.
func Cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// MaxSimilarity builds a vector space over corpus plus doc and returns the
// maximum cosine similarity between doc and any corpus document. An empty
// corpus returns exactly 0.0 without any comparison.
func MaxSimilarity(doc string, corpus []string) float64 {
	if len(corpus) == 0 {
		return 0.0
	}

	all := make([]string, 0, len(corpus)+1)
	all = append(all, corpus...)
	all = append(all, doc)
	v := NewVectorizer(all)

	docVec := v.Vector(doc)
	maxSim := 0.0
	for _, existing := range corpus {
		if sim := Cosine(docVec, v.Vector(existing)); sim > maxSim {
			maxSim = sim
		}
	}
	return maxSim
}

// tokenize lowercases doc and splits it into letter/digit runs, keeping
// tokens of length >= 2 that are not stop words.
func tokenize(doc string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() >= 2 {
			tok := b.String()
			if !isStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		b.Reset()
	}

	for _, r := range strings.ToLower(doc) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
