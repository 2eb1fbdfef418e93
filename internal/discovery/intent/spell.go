// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package intent

import (
	"github.com/tomtom215/reperio/internal/metrics"
)

// SpellCorrector corrects query tokens by edit-distance matching against
// the vocabulary dictionary.
//
// A correction is applied only when its confidence clears the threshold;
// below it the original token is preserved and flagged low-confidence so
// the caller can surface a "did you mean" suggestion without rewriting the
// query behind the user's back.
type SpellCorrector struct {
	dict *Dictionary

	maxDistance int     // max edit distance considered
	minLength   int     // tokens shorter than this are never corrected
	threshold   float64 // minimum confidence to apply a correction
}

// NewSpellCorrector creates a spell corrector over the given dictionary.
// Non-positive parameters fall back to defaults (distance 2, min length 4,
// threshold 0.6).
func NewSpellCorrector(dict *Dictionary, maxDistance, minLength int, threshold float64) *SpellCorrector {
	if maxDistance <= 0 {
		maxDistance = 2
	}
	if minLength <= 0 {
		minLength = 4
	}
	if threshold <= 0 {
		threshold = 0.6
	}
	return &SpellCorrector{
		dict:        dict,
		maxDistance: maxDistance,
		minLength:   minLength,
		threshold:   threshold,
	}
}

// correction is the outcome of correcting a single token.
type correction struct {
	token         string
	corrected     bool
	lowConfidence bool
}

// Correct corrects one token.
//
// Confidence is 1 - distance/len(token): a one-edit fix of a long token is
// near certain, the same edit on a short token is a guess. Tokens already
// in the vocabulary, or shorter than the minimum length, pass through
// unchanged.
func (s *SpellCorrector) Correct(token string) correction {
	if len([]rune(token)) < s.minLength || s.dict == nil || s.dict.Size() == 0 {
		return correction{token: token}
	}

	term, distance, ok := s.dict.Nearest(token, s.maxDistance)
	if !ok {
		return correction{token: token}
	}
	if distance == 0 {
		return correction{token: token}
	}

	confidence := 1 - float64(distance)/float64(len([]rune(token)))
	if confidence < s.threshold {
		return correction{token: token, lowConfidence: true}
	}

	metrics.IntentSpellCorrections.Inc()
	return correction{token: term, corrected: true}
}

// CorrectAll corrects a token slice, reporting whether any token was
// rewritten and whether any candidate correction stayed below threshold.
func (s *SpellCorrector) CorrectAll(tokens []string) (out []string, corrected, lowConfidence bool) {
	out = make([]string, len(tokens))
	for i, token := range tokens {
		c := s.Correct(token)
		out[i] = c.token
		corrected = corrected || c.corrected
		lowConfidence = lowConfidence || c.lowConfidence
	}
	return out, corrected, lowConfidence
}
