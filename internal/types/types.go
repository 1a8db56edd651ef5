// README: Common value types shared across modules.
package types

// ID identifies a call, caller, or place.
type ID string

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
