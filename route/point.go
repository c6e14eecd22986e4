package route

import (
	"math"

	"github.com/a-bouts/nav-router/latlon"
)

// Point is a position reachable Elapsed hours after departure. Points live
// in the engine arena and reference their parent by id, -1 for the origin.
type Point struct {
	ID       int           `json:"id" msgpack:"id"`
	Parent   int           `json:"parent" msgpack:"parent"`
	Position latlon.LatLon `json:"position" msgpack:"position"`
	Elapsed  float64       `json:"elapsed" msgpack:"elapsed"`
	// Heading sailed on the leg ending here, meaningless for the origin
	Heading  float64 `json:"heading" msgpack:"heading"`
	Distance float64 `json:"distance" msgpack:"distance"`
}

func (p Point) IsOrigin() bool {
	return p.Parent < 0
}

// positionKey identifies a search node, two points rounding to the same key
// are the same node
type positionKey struct {
	lat int64
	lon int64
}

func keyOf(p latlon.LatLon, precision int) positionKey {
	f := math.Pow(10, float64(precision))
	return positionKey{
		lat: int64(math.Round(p.Lat * f)),
		lon: int64(math.Round(p.Lon * f)),
	}
}
