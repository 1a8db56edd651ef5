// README: Front-page/remaining split with tiered shuffle and no-repeat accounting.
package dialogue

import (
	"math"
	"sort"
	"time"

	"voxguide/internal/modules/ranking"
	"voxguide/internal/types"
)

// AddSearchResults takes a freshly ranked list, applies variety shuffling
// inside relevance tiers, filters out places already shown this call, and
// splits the survivors into the narrated front page and the deferred
// remaining queue. Returns the front page.
//
// When fewer than a full front page of unseen places survives, the shown
// set is cleared and the unfiltered list reused: once the index is
// exhausted for a query, repeating beats dead-ending the conversation.
func (s *State) AddSearchResults(results []ranking.Result, queryText string) []ranking.Result {
	return s.addResults(s.shuffleWithinTiers(results), queryText)
}

// AddOrderedResults is AddSearchResults for searches where the caller
// asked for an explicit ordering (cheapest, closest, highest rated): the
// ranked order is kept as-is instead of being variety-shuffled.
func (s *State) AddOrderedResults(results []ranking.Result, queryText string) []ranking.Result {
	return s.addResults(results, queryText)
}

func (s *State) addResults(ordered []ranking.Result, queryText string) []ranking.Result {
	filtered := make([]ranking.Result, 0, len(ordered))
	for _, r := range ordered {
		if !s.ShownPlaceIDs[r.ID] {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) < frontPageSize {
		s.ShownPlaceIDs = make(map[types.ID]bool)
		filtered = ordered
	}

	s.Searches = append(s.Searches, SearchRecord{
		At:       time.Now(),
		Query:    queryText,
		Total:    len(ordered),
		Filtered: len(filtered),
	})

	cut := frontPageSize
	if cut > len(filtered) {
		cut = len(filtered)
	}
	s.CurrentResults = filtered[:cut]
	s.RemainingResults = filtered[cut:]
	s.PaginationCursor = 0
	s.Phase = PhasePresentingResults

	for _, r := range s.CurrentResults {
		s.ShownPlaceIDs[r.ID] = true
	}
	return s.CurrentResults
}

// NextBatch returns up to count entries from the remaining queue starting
// at the pagination cursor, advances the cursor, and records each id as
// shown. Exhaustion yields an empty slice and leaves state untouched.
func (s *State) NextBatch(count int) []ranking.Result {
	if count <= 0 || s.PaginationCursor >= len(s.RemainingResults) {
		return nil
	}
	end := s.PaginationCursor + count
	if end > len(s.RemainingResults) {
		end = len(s.RemainingResults)
	}
	batch := s.RemainingResults[s.PaginationCursor:end]
	s.PaginationCursor = end
	for _, r := range batch {
		s.ShownPlaceIDs[r.ID] = true
	}
	return batch
}

// shuffleWithinTiers groups results by composite score rounded to one
// decimal and permutes each group, so ties break randomly without
// distorting relevance ordering across tiers.
func (s *State) shuffleWithinTiers(results []ranking.Result) []ranking.Result {
	tiers := make(map[float64][]ranking.Result)
	for _, r := range results {
		key := math.Round(r.CompositeScore*10) / 10
		tiers[key] = append(tiers[key], r)
	}

	keys := make([]float64, 0, len(tiers))
	for k := range tiers {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	out := make([]ranking.Result, 0, len(results))
	for _, k := range keys {
		group := tiers[k]
		s.rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		out = append(out, group...)
	}
	return out
}
