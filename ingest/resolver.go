package ingest

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// RejectionReasonLowerWeighted is recorded against every source that
// loses conflict resolution to a higher-weighted duplicate.
const RejectionReasonLowerWeighted = "lower-weighted duplicate"

// HighestWeightResolver selects the highest-weighted source as canonical.
// Equal weights fall back to the original submission order.
type HighestWeightResolver struct{}

// NewHighestWeightResolver returns the default conflict resolver.
func NewHighestWeightResolver() *HighestWeightResolver {
	return &HighestWeightResolver{}
}

// Resolve implements ConflictResolver.
func (r *HighestWeightResolver) Resolve(results []WeightingResult) (ConflictOutcome, error) {
	if len(results) == 0 {
		return ConflictOutcome{}, ErrEmptySourceSet
	}
	ranked := rankByWeight(results)
	winner := ranked[0]
	rejected := make([]RejectedSource, 0, len(ranked)-1)
	for _, loser := range ranked[1:] {
		rejected = append(rejected, RejectedSource{
			WeightingResult: loser,
			Reason:          RejectionReasonLowerWeighted,
		})
	}
	return ConflictOutcome{
		MergedTeiXML:     winner.Source.TeiFragment,
		MergedTitle:      winner.Source.Title,
		PreferredSources: []WeightingResult{winner},
		RejectedSources:  rejected,
		ResolutionNotes:  resolutionNotes(winner, rejected),
		MergedAt:         time.Now().UTC(),
	}, nil
}

// rankByWeight orders results by weight descending. Equal weights keep
// their submission order, so repeated runs over the same request rank
// identically.
func rankByWeight(results []WeightingResult) []WeightingResult {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b WeightingResult) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.Source.Input.OrderIndex, b.Source.Input.OrderIndex)
	})
	return ranked
}

func resolutionNotes(winner WeightingResult, rejected []RejectedSource) string {
	if len(rejected) == 0 {
		return fmt.Sprintf("Single source '%s' selected as canonical (weight %.3f). No conflicts to resolve.",
			winner.Source.Title, winner.Weight)
	}
	notes := make([]string, 0, len(rejected)+1)
	notes = append(notes, fmt.Sprintf("Source '%s' selected as canonical (weight %.3f).",
		winner.Source.Title, winner.Weight))
	for _, loser := range rejected {
		notes = append(notes, fmt.Sprintf("Source '%s' rejected (weight %.3f).",
			loser.Source.Title, loser.Weight))
	}
	return strings.Join(notes, " ")
}
