package latlon

import (
	"fmt"
	"math"
)

const π = math.Pi

// R is the mean Earth radius in nautical miles
const R = 3440.065

type LatLonSpherical interface {
	DistanceTo(from, to LatLon) float64
	BearingTo(from, to LatLon) float64
	DistanceAndBearingTo(from, to LatLon) (float64, float64)
	Destination(from LatLon, bearing float64, distance float64) LatLon
}

type LatLon struct {
	Lat float64 `json:"lat" msgpack:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" msgpack:"lon" validate:"gte=-180,lte=180"`
}

func (p LatLon) String() string {
	return fmt.Sprintf("(%.4f,%.4f)", p.Lat, p.Lon)
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	if d >= 360.0 {
		return 0
	}
	return d
}

// Wrap360 normalizes an angle in degrees to [0,360)
func Wrap360(d float64) float64 {
	return wrap360(d)
}

// AngleDiff is the unsigned smallest difference between two bearings, in [0,180]
func AngleDiff(a, b float64) float64 {
	d := math.Abs(wrap360(a) - wrap360(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

var spherical LatLonSpherical = Haversine{}

func Distance(from, to LatLon) float64 {
	return spherical.DistanceTo(from, to)
}

func Bearing(from, to LatLon) float64 {
	return spherical.BearingTo(from, to)
}

func Destination(from LatLon, bearing float64, distance float64) LatLon {
	return spherical.Destination(from, bearing, distance)
}
