package ranking

import (
	"math"
	"testing"

	"voxguide/internal/modules/extract"
	"voxguide/internal/types"
)

func candidate(id string, similarity, rating float64, reviews int, tier PriceTier) Candidate {
	return Candidate{
		ID: types.ID(id),
		Metadata: Metadata{
			Title:       "Place " + id,
			Rating:      rating,
			ReviewCount: reviews,
			PriceLevel:  tier,
		},
		Similarity: similarity,
	}
}

func TestScore_CompositeFormula(t *testing.T) {
	// rating=4.8, reviews=1200, price=$, similarity=0.9, no coordinates,
	// no feature request:
	// 0.35*0.9 + 0.25*0.96 + 0.15*1.0 + 0.10*1.0 + 0.10*1.0 + 0.05*1.0 = 1.005
	results := Score([]Candidate{candidate("a", 0.9, 4.8, 1200, TierCheap)}, Query{})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if got := results[0].CompositeScore; math.Abs(got-1.005) > 1e-9 {
		t.Errorf("composite = %v, want 1.005", got)
	}
}

func TestScore_RatingMonotonic(t *testing.T) {
	low := Score([]Candidate{candidate("a", 0.5, 3.0, 100, TierModerate)}, Query{})
	high := Score([]Candidate{candidate("a", 0.5, 4.5, 100, TierModerate)}, Query{})
	if high[0].CompositeScore < low[0].CompositeScore {
		t.Errorf("raising rating lowered score: %v -> %v", low[0].CompositeScore, high[0].CompositeScore)
	}
}

func TestScore_PriceFitDecay(t *testing.T) {
	cheap := Score([]Candidate{candidate("a", 0.5, 4.0, 100, TierCheap)}, Query{})
	luxury := Score([]Candidate{candidate("a", 0.5, 4.0, 100, TierLuxury)}, Query{})
	diff := cheap[0].CompositeScore - luxury[0].CompositeScore
	// Full tier span is worth exactly the price weight.
	if math.Abs(diff-0.10) > 1e-9 {
		t.Errorf("cheap-luxury delta = %v, want 0.10", diff)
	}
}

func TestScore_PricePreferenceBoost(t *testing.T) {
	q := Query{Entities: extract.Entities{Prefs: extract.Preferences{PriceLevel: extract.PriceBudget}}}
	plain := Score([]Candidate{candidate("a", 0.5, 4.0, 100, TierCheap)}, Query{})
	boosted := Score([]Candidate{candidate("a", 0.5, 4.0, 100, TierCheap)}, q)
	diff := boosted[0].CompositeScore - plain[0].CompositeScore
	if math.Abs(diff-0.1) > 1e-9 {
		t.Errorf("preference boost = %v, want 0.1", diff)
	}
	if boosted[0].PreferenceBoost != 0.1 {
		t.Errorf("PreferenceBoost field = %v, want 0.1", boosted[0].PreferenceBoost)
	}
}

func TestScore_LocationDecay(t *testing.T) {
	austin := types.Point{Lat: 30.2672, Lng: -97.7431}
	nearby := austin
	nearby.Lat += 0.01 // well under a mile of latitude shift is ~0.7mi

	c := candidate("a", 0.5, 4.0, 100, TierModerate)
	c.Metadata.Coordinates = &nearby
	far := candidate("b", 0.5, 4.0, 100, TierModerate)
	farPoint := types.Point{Lat: 32.7767, Lng: -96.7970} // Dallas, ~180mi
	far.Metadata.Coordinates = &farPoint

	results := Score([]Candidate{c, far}, Query{CallerCoords: &austin})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "a" {
		t.Errorf("nearby place should outrank far place, got %s first", results[0].ID)
	}
	for _, r := range results {
		if r.Distance == nil {
			t.Errorf("result %s missing distance", r.ID)
		}
	}
	// Beyond the decay radius location fit clamps at zero, so the far
	// place loses exactly the full location weight versus the near one
	// (allowing for the near place's small residual decay).
	delta := results[0].CompositeScore - results[1].CompositeScore
	if delta <= 0 || delta > 0.10+1e-9 {
		t.Errorf("location delta = %v, want within (0, 0.10]", delta)
	}
}

func TestScore_FeatureFit(t *testing.T) {
	c := candidate("a", 0.5, 4.0, 100, TierModerate)
	c.Metadata.About = "Live music patio with family-friendly vibes"
	half := Score([]Candidate{c}, Query{Features: []string{"live music", "vegan menu"}})
	full := Score([]Candidate{c}, Query{Features: []string{"live music", "patio"}})
	if half[0].CompositeScore >= full[0].CompositeScore {
		t.Errorf("half feature match %v should score below full match %v",
			half[0].CompositeScore, full[0].CompositeScore)
	}
}

func TestScore_DropsMalformed(t *testing.T) {
	bad := []Candidate{
		{ID: "", Metadata: Metadata{Title: "No ID", Rating: 4}, Similarity: 0.5},
		{ID: "no-title", Metadata: Metadata{Rating: 4}, Similarity: 0.5},
		candidate("bad-rating", 0.5, 7.2, 100, TierCheap),
		candidate("bad-reviews", 0.5, 4.0, -3, TierCheap),
		candidate("bad-sim", 1.7, 4.0, 100, TierCheap),
	}
	good := candidate("ok", 0.5, 4.0, 100, TierCheap)
	results := Score(append(bad, good), Query{})
	if len(results) != 1 || results[0].ID != "ok" {
		t.Fatalf("malformed candidates not dropped: %+v", results)
	}
}

func TestSort_Modes(t *testing.T) {
	mk := func() []Result {
		return Score([]Candidate{
			candidate("cheap-low", 0.9, 3.5, 50, TierCheap),
			candidate("pricey-top", 0.4, 5.0, 900, TierLuxury),
			candidate("mid", 0.7, 4.2, 400, TierModerate),
		}, Query{})
	}

	byRating := mk()
	Sort(byRating, SortRatingHigh)
	if byRating[0].ID != "pricey-top" {
		t.Errorf("rating_high first = %s, want pricey-top", byRating[0].ID)
	}

	byPrice := mk()
	Sort(byPrice, SortPriceLow)
	if byPrice[0].ID != "cheap-low" || byPrice[2].ID != "pricey-top" {
		t.Errorf("price_low order wrong: %s..%s", byPrice[0].ID, byPrice[2].ID)
	}

	// No distances anywhere: distance mode falls back to best match.
	byDistance := mk()
	best := mk()
	Sort(byDistance, SortDistance)
	Sort(best, SortBestMatch)
	for i := range best {
		if byDistance[i].ID != best[i].ID {
			t.Errorf("distance fallback order differs at %d: %s vs %s", i, byDistance[i].ID, best[i].ID)
		}
	}
}

func TestScore_BestMatchOrdersByComposite(t *testing.T) {
	results := Score([]Candidate{
		candidate("weak", 0.2, 3.0, 10, TierLuxury),
		candidate("strong", 0.9, 4.9, 1500, TierCheap),
	}, Query{})
	if results[0].ID != "strong" {
		t.Errorf("best match first = %s, want strong", results[0].ID)
	}
}
