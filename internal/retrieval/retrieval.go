// README: Retrieval port: turns a query into scored place candidates.
package retrieval

import (
	"context"

	"voxguide/internal/modules/extract"
	"voxguide/internal/modules/ranking"
	"voxguide/internal/types"
)

// Request describes one retrieval round. Exclude lists place ids the
// caller has already rejected this call; backends must not return them.
type Request struct {
	Text     string
	City     string
	Category extract.Category
	Exclude  []types.ID
	TopK     int
}

// Retriever finds candidate places for a query. Implementations include
// the Google Places backend and an in-memory index for tests and local
// development.
type Retriever interface {
	Retrieve(ctx context.Context, req Request) ([]ranking.Candidate, error)
}
