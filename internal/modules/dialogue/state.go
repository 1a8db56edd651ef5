// README: Per-call dialogue state; the single mutable aggregate of the core.
package dialogue

import (
	"math/rand"
	"time"

	"voxguide/internal/modules/extract"
	"voxguide/internal/modules/intent"
	"voxguide/internal/modules/ranking"
	"voxguide/internal/types"
)

// State holds everything remembered about one active call. There is
// exactly one live State per call; it is created at call start, mutated
// by every turn through these methods only, and discarded at call end.
// The surrounding system serializes turns per call, so State itself
// carries no lock.
type State struct {
	CallID types.ID `json:"call_id"`

	CurrentCity     string           `json:"current_city,omitempty"`
	CurrentCategory extract.Category `json:"current_category,omitempty"`
	CurrentPlaceID  types.ID         `json:"current_place_id,omitempty"`

	CurrentResults   []ranking.Result `json:"current_results,omitempty"`
	RemainingResults []ranking.Result `json:"remaining_results,omitempty"`
	PaginationCursor int              `json:"pagination_cursor"`

	ShownPlaceIDs     map[types.ID]bool `json:"shown_place_ids,omitempty"`
	RejectedPlaceIDs  map[types.ID]bool `json:"rejected_place_ids,omitempty"`
	PreferredPlaceIDs map[types.ID]bool `json:"preferred_place_ids,omitempty"`
	DiscussionDepth   map[types.ID]int  `json:"discussion_depth,omitempty"`

	Preferences    extract.Preferences `json:"preferences"`
	RecentMentions []PlaceMention      `json:"recent_mentions,omitempty"`
	History        []TurnRecord        `json:"history,omitempty"`
	Searches       []SearchRecord      `json:"searches,omitempty"`

	Phase     Phase     `json:"phase"`
	StartedAt time.Time `json:"started_at"`

	rng *rand.Rand
}

// NewState creates an empty dialogue state for a freshly started call.
func NewState(callID types.ID) *State {
	return &State{
		CallID:            callID,
		ShownPlaceIDs:     make(map[types.ID]bool),
		RejectedPlaceIDs:  make(map[types.ID]bool),
		PreferredPlaceIDs: make(map[types.ID]bool),
		DiscussionDepth:   make(map[types.ID]int),
		Phase:             PhaseAwaitingCity,
		StartedAt:         time.Now(),
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedShuffle pins the intra-tier shuffle to a deterministic sequence.
// Randomization exists for narration variety only; tests pin it so tier
// ordering stays assertable.
func (s *State) SeedShuffle(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// MergeEntities folds a turn's extracted entities into the state.
// Preference facts union with prior facts, never replace them.
func (s *State) MergeEntities(e extract.Entities) {
	if e.City != "" {
		s.CurrentCity = e.City
	}
	if e.Category != "" && e.Category != extract.CategoryPlace {
		s.CurrentCategory = e.Category
	}
	if e.Prefs.PriceLevel != "" {
		s.Preferences.PriceLevel = e.Prefs.PriceLevel
	}
	for _, a := range e.Prefs.Atmosphere {
		if !s.Preferences.HasAtmosphere(a) {
			s.Preferences.Atmosphere = append(s.Preferences.Atmosphere, a)
		}
	}
	for _, c := range e.Prefs.Cuisine {
		if !s.Preferences.HasCuisine(c) {
			s.Preferences.Cuisine = append(s.Preferences.Cuisine, c)
		}
	}
	if e.Prefs.FamilyFriendly {
		s.Preferences.FamilyFriendly = true
	}

	switch {
	case s.CurrentCity == "":
		s.Phase = PhaseAwaitingCity
	case s.CurrentCategory == "":
		if s.Phase == PhaseAwaitingCity {
			s.Phase = PhaseAwaitingCategory
		}
	}
}

// SetCurrentPlace points the conversation at a place. Every set deepens the
// discussion counter, which later decides overview versus deep narration.
func (s *State) SetCurrentPlace(id types.ID, title string) {
	s.CurrentPlaceID = id
	s.DiscussionDepth[id]++
	s.ShownPlaceIDs[id] = true
	s.Phase = PhaseDiscussingPlace

	for _, m := range s.RecentMentions {
		if m.ID == id {
			return
		}
	}
	mention := PlaceMention{ID: id, Title: title, At: time.Now()}
	s.RecentMentions = append([]PlaceMention{mention}, s.RecentMentions...)
	if len(s.RecentMentions) > recentMentionLimit {
		s.RecentMentions = s.RecentMentions[:recentMentionLimit]
	}
}

// DeepDiscussion reports whether the place has been brought up often
// enough to warrant deep facts instead of an overview.
func (s *State) DeepDiscussion(id types.ID) bool {
	return s.DiscussionDepth[id] > 1
}

// MarkRejected records disinterest in a place. Idempotent; a rejected
// place cannot simultaneously be preferred.
func (s *State) MarkRejected(id types.ID) {
	s.RejectedPlaceIDs[id] = true
	delete(s.PreferredPlaceIDs, id)
}

// MarkPreferred records interest in a place. Inverse of MarkRejected.
func (s *State) MarkPreferred(id types.ID) {
	s.PreferredPlaceIDs[id] = true
	delete(s.RejectedPlaceIDs, id)
}

// CurrentResult returns the front-page entry for id, if present.
func (s *State) CurrentResult(id types.ID) (ranking.Result, bool) {
	for _, r := range s.CurrentResults {
		if r.ID == id {
			return r, true
		}
	}
	for _, r := range s.RemainingResults {
		if r.ID == id {
			return r, true
		}
	}
	return ranking.Result{}, false
}

// AppendTurn adds one record to the append-only audit trail.
func (s *State) AppendTurn(query, response, kind string) {
	s.History = append(s.History, TurnRecord{
		At:       time.Now(),
		Query:    query,
		Response: response,
		Kind:     kind,
	})
}

// IntentContext snapshots the state fields the intent classifier reads.
func (s *State) IntentContext() intent.Context {
	return intent.Context{
		HasResults:      len(s.CurrentResults) > 0 || s.PaginationCursor < len(s.RemainingResults),
		HasRemaining:    s.PaginationCursor < len(s.RemainingResults),
		CurrentPlaceSet: s.CurrentPlaceID != "",
		HasCuisinePref:  len(s.Preferences.Cuisine) > 0,
	}
}

// ExcludedIDs returns the ids retrieval should skip: everything already
// rejected this call.
func (s *State) ExcludedIDs() []types.ID {
	out := make([]types.ID, 0, len(s.RejectedPlaceIDs))
	for id := range s.RejectedPlaceIDs {
		out = append(out, id)
	}
	return out
}
