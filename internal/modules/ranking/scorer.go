// README: Composite relevance scoring and re-sort modes; pure over fetched candidates.
package ranking

import (
	"log"
	"math"
	"sort"
	"strings"
)

// Fixed design weights; the primary path sums to 1.0.
const (
	weightSimilarity = 0.35
	weightRating     = 0.25
	weightReviews    = 0.15
	weightPriceFit   = 0.10
	weightLocation   = 0.10
	weightFeatures   = 0.05

	// reviewSaturation is where review count stops adding signal.
	reviewSaturation = 1000.0
	// locationDecayMi is the distance at which location fit decays to zero.
	locationDecayMi = 10.0

	// pricePrefBoost is the additive bonus for an exact price-tier match
	// with the caller's stated preference.
	pricePrefBoost = 0.1
	// atmospherePrefBoost is the additive bonus per overlapping atmosphere tag.
	atmospherePrefBoost = 0.05
	// reviewBoostCap bounds the informational review boost field.
	reviewBoostCap = 0.2
)

// Score computes composite scores for candidates against the active query
// and returns them ordered by the query's sort mode. Candidates with
// malformed metadata are dropped individually, never failing the batch.
func Score(candidates []Candidate, q Query) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		r, ok := scoreOne(c, q)
		if !ok {
			log.Printf("ranking: skipping malformed candidate %q", c.ID)
			continue
		}
		results = append(results, r)
	}
	Sort(results, q.Sort)
	return results
}

func scoreOne(c Candidate, q Query) (Result, bool) {
	m := c.Metadata
	if c.ID == "" || m.Title == "" {
		return Result{}, false
	}
	if m.Rating < 0 || m.Rating > 5 || math.IsNaN(m.Rating) {
		return Result{}, false
	}
	if m.ReviewCount < 0 {
		return Result{}, false
	}
	if c.Similarity < 0 || c.Similarity > 1 || math.IsNaN(c.Similarity) {
		return Result{}, false
	}

	ratingFit := m.Rating / 5.0
	reviewFit := math.Min(float64(m.ReviewCount)/reviewSaturation, 1.0)
	// Linear decay from cheapest to most expensive tier, independent of
	// any stated preference.
	priceFit := 1.0 - float64(m.PriceLevel.Numeric()-1)/3.0

	locationFit := 1.0
	var distance *float64
	if q.CallerCoords != nil && m.Coordinates != nil {
		d := haversineMi(*q.CallerCoords, *m.Coordinates)
		distance = &d
		locationFit = math.Max(0, 1.0-d/locationDecayMi)
	}

	featureFit := 1.0
	if len(q.Features) > 0 {
		matched := 0
		about := strings.ToLower(m.About)
		for _, f := range q.Features {
			if strings.Contains(about, strings.ToLower(f)) {
				matched++
			}
		}
		featureFit = float64(matched) / float64(len(q.Features))
	}

	composite := weightSimilarity*c.Similarity +
		weightRating*ratingFit +
		weightReviews*reviewFit +
		weightPriceFit*priceFit +
		weightLocation*locationFit +
		weightFeatures*featureFit

	// Preference-fit bonuses ride on top of the fixed-weight blend so an
	// empty preference set leaves the primary formula untouched.
	prefBoost := 0.0
	prefs := q.Entities.Prefs
	if prefs.PriceLevel != "" && m.PriceLevel.Matches(prefs.PriceLevel) {
		prefBoost += pricePrefBoost
	}
	if len(prefs.Atmosphere) > 0 && len(m.Atmosphere) > 0 {
		for _, a := range prefs.Atmosphere {
			for _, b := range m.Atmosphere {
				if strings.EqualFold(a, b) {
					prefBoost += atmospherePrefBoost
					break
				}
			}
		}
	}

	return Result{
		Candidate:       c,
		CompositeScore:  composite + prefBoost,
		RatingBoost:     (m.Rating - 3.5) / 5.0,
		ReviewBoost:     math.Min(float64(m.ReviewCount)/reviewSaturation, reviewBoostCap),
		PreferenceBoost: prefBoost,
		Distance:        distance,
	}, true
}

// Sort reorders results in place by the given mode. Each mode uses a
// different primary key with the composite score as tiebreaker. Distance
// ordering is only meaningful when distances exist; result sets without
// any distance fall back to best match.
func Sort(results []Result, mode SortMode) {
	switch mode {
	case SortRatingHigh:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Metadata.Rating != results[j].Metadata.Rating {
				return results[i].Metadata.Rating > results[j].Metadata.Rating
			}
			return results[i].CompositeScore > results[j].CompositeScore
		})
	case SortPriceLow:
		sort.SliceStable(results, func(i, j int) bool {
			pi, pj := results[i].Metadata.PriceLevel.Numeric(), results[j].Metadata.PriceLevel.Numeric()
			if pi != pj {
				return pi < pj
			}
			return results[i].CompositeScore > results[j].CompositeScore
		})
	case SortDistance:
		if !anyDistance(results) {
			Sort(results, SortBestMatch)
			return
		}
		sort.SliceStable(results, func(i, j int) bool {
			di, dj := distanceOrInf(results[i]), distanceOrInf(results[j])
			if di != dj {
				return di < dj
			}
			return results[i].CompositeScore > results[j].CompositeScore
		})
	default: // SortBestMatch
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CompositeScore > results[j].CompositeScore
		})
	}
}

func anyDistance(results []Result) bool {
	for _, r := range results {
		if r.Distance != nil {
			return true
		}
	}
	return false
}

func distanceOrInf(r Result) float64 {
	if r.Distance == nil {
		return math.Inf(1)
	}
	return *r.Distance
}
