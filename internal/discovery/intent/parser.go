// Reperio - Content Discovery Engine for Entertainment Catalogs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reperio

package intent

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/tomtom215/reperio/internal/discovery"
	"github.com/tomtom215/reperio/internal/metrics"
)

// genreAliases maps query vocabulary to the catalog's canonical genre
// labels. Aliases collapse spelling variants ("scifi", "sci fi") onto one
// label so retrieval filters and theme matching agree with catalog
// metadata.
var genreAliases = map[string]string{
	"action":      "action",
	"adventure":   "adventure",
	"comedy":      "comedy",
	"drama":       "drama",
	"horror":      "horror",
	"thriller":    "thriller",
	"romance":     "romance",
	"sci-fi":      "sci-fi",
	"scifi":       "sci-fi",
	"fantasy":     "fantasy",
	"documentary": "documentary",
	"crime":       "crime",
	"mystery":     "mystery",
	"animation":   "animation",
	"family":      "family",
	"western":     "western",
	"war":         "war",
}

// platformAliases maps query vocabulary to canonical platform identifiers.
var platformAliases = map[string]string{
	"netflix": "netflix",
	"prime":   "prime_video",
	"amazon":  "prime_video",
	"hulu":    "hulu",
	"disney":  "disney_plus",
	"hbo":     "hbo_max",
	"max":     "hbo_max",
	"apple":   "apple_tv",
	"peacock": "peacock",
}

// themeTags maps mood and theme vocabulary onto theme labels that feed the
// theme-match ranking factor.
var themeTags = map[string]string{
	"space":        "space",
	"adventure":    "adventure",
	"dark":         "dark",
	"feel-good":    "feel-good",
	"uplifting":    "feel-good",
	"lighthearted": "feel-good",
	"gritty":       "dark",
	"epic":         "epic",
	"heist":        "heist",
	"dystopian":    "dystopian",
	"superhero":    "superhero",
	"zombie":       "zombie",
	"apocalypse":   "post-apocalyptic",
	"whodunit":     "mystery",
	"nostalgic":    "nostalgia",
	"binge":        "bingeable",
}

// referencePattern captures "like <Title>" and "similar to <Title>"
// constructions. The title runs to the end of the query or the next comma.
var referencePattern = regexp.MustCompile(`(?i)\b(?:like|similar to)\s+([^,]+)`)

// Parser turns raw query text into a structured QueryIntent. It implements
// discovery.IntentParser. Safe for concurrent use; the dictionary and
// synonym table it holds are themselves reloadable.
type Parser struct {
	spell    *SpellCorrector
	synonyms *Synonyms

	// fallbackConfidence is assigned to freeform queries where no entity
	// was recognized.
	fallbackConfidence float64
}

// NewParser creates a parser. spell and synonyms may be nil, disabling the
// corresponding enrichment.
func NewParser(spell *SpellCorrector, synonyms *Synonyms, fallbackConfidence float64) *Parser {
	if fallbackConfidence <= 0 {
		fallbackConfidence = 0.5
	}
	return &Parser{
		spell:              spell,
		synonyms:           synonyms,
		fallbackConfidence: fallbackConfidence,
	}
}

// Parse implements discovery.IntentParser.
//
// The canonical normalized text reflects spell corrections that cleared the
// confidence threshold and nothing else. Synonym expansion lands only in
// KeywordTerms. Title references ("like Alien") are extracted before
// tokenization so multi-word titles stay intact.
func (p *Parser) Parse(ctx context.Context, query, locale string) (discovery.QueryIntent, error) {
	if err := ctx.Err(); err != nil {
		return discovery.QueryIntent{}, err
	}

	intent := discovery.QueryIntent{
		Raw:    query,
		Locale: locale,
	}

	lower := strings.ToLower(strings.TrimSpace(query))

	// Title references first; the matched spans are removed so reference
	// words do not pollute token extraction.
	remainder := referencePattern.ReplaceAllStringFunc(lower, func(m string) string {
		sub := referencePattern.FindStringSubmatch(m)
		if len(sub) == 2 {
			title := strings.TrimSpace(sub[1])
			if title != "" {
				intent.References = append(intent.References, title)
			}
		}
		return ""
	})

	tokens := tokenize(remainder)

	if p.spell != nil {
		var corrected, lowConfidence bool
		tokens, corrected, lowConfidence = p.spell.CorrectAll(tokens)
		intent.Corrected = corrected
		intent.LowConfidence = lowConfidence
	}

	intent.Tokens = tokens
	intent.Normalized = strings.Join(tokens, " ")

	p.extractEntities(&intent)

	if p.synonyms != nil {
		intent.KeywordTerms = p.synonyms.Expand(tokens)
	} else {
		intent.KeywordTerms = tokens
	}

	intent.Confidence = p.confidence(&intent)
	recordIntentKind(&intent)

	return intent, nil
}

// extractEntities scans tokens against the genre, platform and theme
// dictionaries. A token can contribute to at most one entity class, checked
// in genre, platform, theme order.
func (p *Parser) extractEntities(intent *discovery.QueryIntent) {
	seenGenre := make(map[string]struct{})
	seenPlatform := make(map[string]struct{})
	seenTheme := make(map[string]struct{})

	for _, token := range intent.Tokens {
		if genre, ok := genreAliases[token]; ok {
			if _, dup := seenGenre[genre]; !dup {
				seenGenre[genre] = struct{}{}
				intent.Genres = append(intent.Genres, genre)
			}
			continue
		}
		if platform, ok := platformAliases[token]; ok {
			if _, dup := seenPlatform[platform]; !dup {
				seenPlatform[platform] = struct{}{}
				intent.Platforms = append(intent.Platforms, platform)
			}
			continue
		}
		if theme, ok := themeTags[token]; ok {
			if _, dup := seenTheme[theme]; !dup {
				seenTheme[theme] = struct{}{}
				intent.Themes = append(intent.Themes, theme)
			}
		}
	}
}

// confidence scores how much structure was recognized. Queries with
// extracted entities or references are high confidence; pure freeform text
// gets the configured fallback confidence.
func (p *Parser) confidence(intent *discovery.QueryIntent) float64 {
	entities := len(intent.Genres) + len(intent.Platforms) + len(intent.Themes) + len(intent.References)
	if entities == 0 {
		return p.fallbackConfidence
	}
	confidence := 0.6 + 0.1*float64(entities)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}

// recordIntentKind classifies the parse for metrics.
func recordIntentKind(intent *discovery.QueryIntent) {
	switch {
	case len(intent.References) > 0:
		metrics.IntentParsedTotal.WithLabelValues("similarity").Inc()
	case len(intent.Genres) > 0:
		metrics.IntentParsedTotal.WithLabelValues("genre").Inc()
	case len(intent.Platforms) > 0:
		metrics.IntentParsedTotal.WithLabelValues("platform").Inc()
	default:
		metrics.IntentParsedTotal.WithLabelValues("freeform").Inc()
	}
}

// tokenize splits normalized query text into lowercase tokens, keeping
// internal hyphens ("sci-fi", "feel-good") and dropping other punctuation.
// Letters and digits from any script survive, so accented and non-Latin
// titles keep their terms for the keyword leg.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(strings.ToLower(f), "-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Ensure interface compliance.
var _ discovery.IntentParser = (*Parser)(nil)
