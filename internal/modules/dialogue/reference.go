// README: Resolves "the first one" / "tell me more" style references to a place id.
package dialogue

import (
	"strings"

	"voxguide/internal/types"
)

// ResolveReference maps a reference utterance onto a concrete place id
// using the front page, the place under discussion, and recent mentions.
// Resolution order: explicit name of the current place, ordinals against
// the front page, names of recently mentioned places, then the current
// topic (falling back to the top front-page result).
func (s *State) ResolveReference(utterance string) (types.ID, bool) {
	lower := strings.ToLower(utterance)

	if s.CurrentPlaceID != "" {
		if title := s.mentionTitle(s.CurrentPlaceID); title != "" && strings.Contains(lower, strings.ToLower(title)) {
			return s.CurrentPlaceID, true
		}
	}

	if id, ok := s.resolveOrdinal(lower); ok {
		return id, true
	}

	for _, m := range s.RecentMentions {
		if m.Title != "" && strings.Contains(lower, strings.ToLower(m.Title)) {
			return m.ID, true
		}
	}

	if s.CurrentPlaceID != "" {
		return s.CurrentPlaceID, true
	}
	if len(s.CurrentResults) > 0 {
		return s.CurrentResults[0].ID, true
	}
	return "", false
}

func (s *State) resolveOrdinal(lower string) (types.ID, bool) {
	if len(s.CurrentResults) == 0 {
		return "", false
	}
	switch {
	case strings.Contains(lower, "first"):
		return s.CurrentResults[0].ID, true
	case strings.Contains(lower, "second"):
		if len(s.CurrentResults) > 1 {
			return s.CurrentResults[1].ID, true
		}
	case strings.Contains(lower, "third"):
		if len(s.CurrentResults) > 2 {
			return s.CurrentResults[2].ID, true
		}
	case strings.Contains(lower, "last"):
		return s.CurrentResults[len(s.CurrentResults)-1].ID, true
	}
	return "", false
}

func (s *State) mentionTitle(id types.ID) string {
	for _, m := range s.RecentMentions {
		if m.ID == id {
			return m.Title
		}
	}
	if r, ok := s.CurrentResult(id); ok {
		return r.Metadata.Title
	}
	return ""
}
