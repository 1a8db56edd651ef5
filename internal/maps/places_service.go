package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"voxguide/internal/modules/extract"
	"voxguide/internal/modules/ranking"
	"voxguide/internal/retrieval"
	"voxguide/internal/types"
)

// PlacesService backs retrieval with the Google Places Text Search API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// placeType maps a spoken category to the Places API type filter.
func placeType(c extract.Category) string {
	switch c {
	case extract.CategoryRestaurant:
		return "restaurant"
	case extract.CategoryBar:
		return "bar"
	case extract.CategoryOutdoor:
		return "park"
	case extract.CategoryShopping:
		return "shopping_mall"
	case extract.CategoryActivity:
		return "tourist_attraction"
	case extract.CategoryHotel:
		return "lodging"
	}
	return ""
}

// Retrieve runs a text search and converts the response into candidates.
// The Places API returns results in relevance order but without a score,
// so similarity is synthesized by rank decay: the i-th of n results gets
// 1 - i/(2n), keeping the whole page in the upper half of the scale.
func (s *PlacesService) Retrieve(ctx context.Context, req retrieval.Request) ([]ranking.Candidate, error) {
	query := req.Text
	if req.City != "" {
		query = fmt.Sprintf("%s in %s", query, extract.CityState(req.City))
	}

	r := &maps.TextSearchRequest{
		Query:    query,
		Language: "en",
		Region:   "US",
	}
	if t := placeType(req.Category); t != "" {
		r.Type = maps.PlaceType(t)
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	excluded := make(map[types.ID]bool, len(req.Exclude))
	for _, id := range req.Exclude {
		excluded[id] = true
	}

	total := len(resp.Results)
	candidates := make([]ranking.Candidate, 0, total)
	for i, result := range resp.Results {
		id := types.ID(result.PlaceID)
		if excluded[id] {
			continue
		}

		coords := &types.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		}
		candidates = append(candidates, ranking.Candidate{
			ID: id,
			Metadata: ranking.Metadata{
				Title:       result.Name,
				Category:    string(req.Category),
				Rating:      float64(result.Rating),
				ReviewCount: result.UserRatingsTotal,
				PriceLevel:  priceTier(result.PriceLevel),
				Address:     result.FormattedAddress,
				Coordinates: coords,
				Features:    strings.Join(result.Types, " "),
			},
			Similarity: 1 - float64(i)/float64(2*total),
		})

		if req.TopK > 0 && len(candidates) >= req.TopK {
			break
		}
	}
	return candidates, nil
}

// priceTier converts the API's 0..4 price level to a display tier.
func priceTier(level int) ranking.PriceTier {
	switch level {
	case 2:
		return ranking.TierModerate
	case 3:
		return ranking.TierUpscale
	case 4:
		return ranking.TierLuxury
	case 0:
		return ""
	}
	return ranking.TierCheap
}
