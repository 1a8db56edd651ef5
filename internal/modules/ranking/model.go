// README: Candidate and ranked-result types; the one canonical shape downstream of retrieval.
package ranking

import (
	"voxguide/internal/modules/extract"
	"voxguide/internal/types"
)

// PriceTier is the place's own price bracket as retrieval reports it.
type PriceTier string

const (
	TierCheap    PriceTier = "$"
	TierModerate PriceTier = "$$"
	TierUpscale  PriceTier = "$$$"
	TierLuxury   PriceTier = "$$$$"
)

// Numeric maps a tier to 1..4. Unknown tiers count as cheapest.
func (t PriceTier) Numeric() int {
	switch t {
	case TierModerate:
		return 2
	case TierUpscale:
		return 3
	case TierLuxury:
		return 4
	default:
		return 1
	}
}

// Matches reports whether the tier satisfies a stated price preference.
func (t PriceTier) Matches(p extract.PriceLevel) bool {
	switch p {
	case extract.PriceBudget:
		return t == TierCheap
	case extract.PriceModerate:
		return t == TierModerate
	case extract.PriceUpscale:
		return t == TierUpscale || t == TierLuxury
	}
	return false
}

// Metadata is the descriptive payload retrieval attaches to a place.
type Metadata struct {
	Title       string       `json:"title"`
	Category    string       `json:"category,omitempty"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"review_count"`
	PriceLevel  PriceTier    `json:"price_level,omitempty"`
	Address     string       `json:"address,omitempty"`
	Coordinates *types.Point `json:"coordinates,omitempty"`
	Features    string       `json:"features,omitempty"`
	About       string       `json:"about,omitempty"`
	Hours       string       `json:"hours,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Website     string       `json:"website,omitempty"`
	Atmosphere  []string     `json:"atmosphere,omitempty"`
}

// Candidate is an unranked place returned by the retrieval collaborator.
// Read-only to this core.
type Candidate struct {
	ID         types.ID `json:"id"`
	Metadata   Metadata `json:"metadata"`
	Similarity float64  `json:"similarity"`
}

// Result is a Candidate annotated with its composite relevance score and
// the derived signals that fed it.
type Result struct {
	Candidate
	CompositeScore  float64  `json:"composite_score"`
	RatingBoost     float64  `json:"rating_boost"`
	ReviewBoost     float64  `json:"review_boost"`
	PreferenceBoost float64  `json:"preference_boost"`
	Distance        *float64 `json:"distance,omitempty"`
}

// SortMode selects the primary key used to order an already-scored set.
type SortMode string

const (
	SortBestMatch  SortMode = "best_match"
	SortRatingHigh SortMode = "rating_high"
	SortPriceLow   SortMode = "price_low"
	SortDistance   SortMode = "distance"
)

// Query carries everything scoring needs about the active request.
type Query struct {
	Text         string
	Entities     extract.Entities
	CallerCoords *types.Point
	// Features are caller-requested keywords matched against the
	// candidate's free-text about field.
	Features []string
	Sort     SortMode
}
