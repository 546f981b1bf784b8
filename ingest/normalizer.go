// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/tei"
)

// maxInferredTitleLength bounds titles inferred from content lines.
const maxInferredTitleLength = 120

// ScoreTriple is the static quality, freshness, and reliability
// assessment for one source type. All three values live in [0, 1].
type ScoreTriple struct {
	Quality     float64
	Freshness   float64
	Reliability float64
}

// DefaultSourceScores returns the built-in score table keyed by source type.
func DefaultSourceScores() map[core.SourceType]ScoreTriple {
	return map[core.SourceType]ScoreTriple{
		core.SourceTypeTranscript:    {Quality: 0.9, Freshness: 0.8, Reliability: 0.9},
		core.SourceTypeBrief:         {Quality: 0.8, Freshness: 0.7, Reliability: 0.8},
		core.SourceTypeRSS:           {Quality: 0.6, Freshness: 1.0, Reliability: 0.5},
		core.SourceTypePressRelease:  {Quality: 0.7, Freshness: 0.6, Reliability: 0.7},
		core.SourceTypeResearchNotes: {Quality: 0.5, Freshness: 0.5, Reliability: 0.6},
	}
}

// fallbackSourceScores applies to source types absent from the table.
var fallbackSourceScores = ScoreTriple{Quality: 0.5, Freshness: 0.5, Reliability: 0.5}

// TypedScoreNormalizer assigns static scores by source type, infers a
// display title, and wraps raw content in a minimal TEI fragment.
type TypedScoreNormalizer struct {
	scores map[core.SourceType]ScoreTriple
}

// NewTypedScoreNormalizer returns a normalizer using the built-in score
// table with overrides merged on top. Overrides outside [0, 1] are
// rejected with ErrInvalidScore.
func NewTypedScoreNormalizer(overrides map[core.SourceType]ScoreTriple) (*TypedScoreNormalizer, error) {
	scores := DefaultSourceScores()
	for sourceType, triple := range overrides {
		if err := validateScoreTriple(sourceType, triple); err != nil {
			return nil, err
		}
		scores[sourceType] = triple
	}
	return &TypedScoreNormalizer{scores: scores}, nil
}

func validateScoreTriple(sourceType core.SourceType, triple ScoreTriple) error {
	for name, value := range map[string]float64{
		"quality":     triple.Quality,
		"freshness":   triple.Freshness,
		"reliability": triple.Reliability,
	} {
		if math.IsNaN(value) || value < 0 || value > 1 {
			return fmt.Errorf("%w: %s %s score %v", ErrInvalidScore, sourceType, name, value)
		}
	}
	return nil
}

// Normalize implements SourceNormalizer.
func (n *TypedScoreNormalizer) Normalize(ctx context.Context, raw RawSourceInput) (NormalizedSource, error) {
	if err := ctx.Err(); err != nil {
		return NormalizedSource{}, err
	}
	if strings.TrimSpace(raw.SourceURI) == "" {
		return NormalizedSource{}, core.ErrEmptySourceURI
	}
	if raw.SourceType == "" {
		return NormalizedSource{}, core.ErrEmptySourceType
	}

	title := inferTitle(raw)
	fragment, err := tei.Build(title, raw.Content)
	if err != nil {
		return NormalizedSource{}, fmt.Errorf("build tei fragment for %s: %w", raw.SourceURI, err)
	}
	hash := raw.ContentHash
	if hash == "" {
		hash = core.ContentHash(raw.Content)
	}
	triple, ok := n.scores[raw.SourceType]
	if !ok {
		triple = fallbackSourceScores
	}

	return NormalizedSource{
		Input:       raw,
		Title:       title,
		TeiFragment: fragment,
		ContentHash: hash,
		Quality:     triple.Quality,
		Freshness:   triple.Freshness,
		Reliability: triple.Reliability,
	}, nil
}

// inferTitle picks a display title: an explicit metadata title wins, then
// the first non-blank content line truncated to maxInferredTitleLength,
// then the source type rendered as words.
func inferTitle(raw RawSourceInput) string {
	if v, ok := raw.Metadata["title"]; ok {
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	for _, line := range strings.Split(raw.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > maxInferredTitleLength {
			return string(runes[:maxInferredTitleLength])
		}
		return trimmed
	}
	return titleizeSourceType(raw.SourceType)
}

// titleizeSourceType renders a source type as words: underscores become
// spaces and each word is capitalized.
func titleizeSourceType(sourceType core.SourceType) string {
	words := strings.Fields(strings.ReplaceAll(string(sourceType), "_", " "))
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
