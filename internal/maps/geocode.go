package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"voxguide/internal/types"
)

// GeocodeService resolves spoken city names to coordinates so distance
// scoring and the "near me" sort have an anchor point.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// GeocodeCity returns the coordinates of a city's center.
func (s *GeocodeService) GeocodeCity(ctx context.Context, city string) (types.Point, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: city,
		Region:  "US",
	})
	if err != nil {
		return types.Point{}, fmt.Errorf("geocode api error: %w", err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("no geocode result for %q", city)
	}

	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
