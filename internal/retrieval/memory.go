// README: In-memory retrieval backend for tests and offline development.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"

	"voxguide/internal/modules/extract"
	"voxguide/internal/modules/ranking"
	"voxguide/internal/types"
)

// InMemoryIndex is a keyword-overlap retriever over a fixed candidate set.
// Similarity is the fraction of query tokens found in the candidate's
// title, category, features and description text.
type InMemoryIndex struct {
	mu         sync.RWMutex
	candidates []ranking.Candidate
}

func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{}
}

// Add appends candidates to the index. Similarity values on the input are
// ignored; Retrieve recomputes them per query.
func (ix *InMemoryIndex) Add(candidates ...ranking.Candidate) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.candidates = append(ix.candidates, candidates...)
}

func (ix *InMemoryIndex) Retrieve(ctx context.Context, req Request) ([]ranking.Candidate, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	excluded := make(map[types.ID]bool, len(req.Exclude))
	for _, id := range req.Exclude {
		excluded[id] = true
	}
	tokens := queryTokens(req.Text)

	var out []ranking.Candidate
	for _, c := range ix.candidates {
		if excluded[c.ID] {
			continue
		}
		if req.City != "" && !strings.Contains(strings.ToLower(c.Metadata.Address), strings.ToLower(req.City)) {
			continue
		}
		if req.Category != "" && req.Category != extract.CategoryPlace && c.Metadata.Category != string(req.Category) {
			continue
		}
		c.Similarity = overlapSimilarity(tokens, c.Metadata)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if req.TopK > 0 && len(out) > req.TopK {
		out = out[:req.TopK]
	}
	return out, nil
}

func queryTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?'\"")
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

func overlapSimilarity(tokens []string, m ranking.Metadata) float64 {
	if len(tokens) == 0 {
		return 0.5
	}
	haystack := strings.ToLower(strings.Join([]string{m.Title, m.Category, m.About, m.Features}, " "))
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
