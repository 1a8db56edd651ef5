// README: Records and phases tracked inside a call's dialogue state.
package dialogue

import (
	"time"

	"voxguide/internal/types"
)

// Phase is the informal conversation stage, driven by classifier output
// and retrieval outcome.
type Phase string

const (
	PhaseAwaitingCity      Phase = "awaiting_city"
	PhaseAwaitingCategory  Phase = "awaiting_category"
	PhaseSearching         Phase = "searching"
	PhasePresentingResults Phase = "presenting_results"
	PhaseDiscussingPlace   Phase = "discussing_place"
	PhaseFarewell          Phase = "farewell"
)

const (
	// frontPageSize is how many results are narrated immediately after a search.
	frontPageSize = 3
	// recentMentionLimit bounds the ring of recently discussed places.
	recentMentionLimit = 5
)

// TurnRecord is one entry of the append-only conversation audit trail.
type TurnRecord struct {
	At       time.Time `json:"at"`
	Query    string    `json:"query,omitempty"`
	Response string    `json:"response,omitempty"`
	Kind     string    `json:"kind"`
}

// SearchRecord notes one executed search and how many candidates survived
// the shown-places filter.
type SearchRecord struct {
	At       time.Time `json:"at"`
	Query    string    `json:"query"`
	Total    int       `json:"total"`
	Filtered int       `json:"filtered"`
}

// PlaceMention tracks a recently surfaced place for reference resolution.
type PlaceMention struct {
	ID    types.ID  `json:"id"`
	Title string    `json:"title"`
	At    time.Time `json:"at"`
}
