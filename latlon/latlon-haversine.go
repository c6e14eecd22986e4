package latlon

import "math"

// Haversine great circle computations, distances are in nautical miles
type Haversine struct{}

func (Haversine) initialBearingTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)

	Δλ := toRadians(to.Lon - from.Lon)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	b := toDegrees(θ)

	return wrap360(b)
}

func (Haversine) DistanceTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * δ
}

func (hav Haversine) BearingTo(from, to LatLon) float64 {
	return hav.initialBearingTo(from, to)
}

func (hav Haversine) DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	return hav.DistanceTo(from, to), hav.initialBearingTo(from, to)
}

func (Haversine) Destination(from LatLon, bearing float64, distance float64) LatLon {
	φ1 := toRadians(from.Lat)
	λ1 := toRadians(from.Lon)
	θ := toRadians(bearing)

	δ := distance / R

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	lon := toDegrees(λ2)
	// back to [-180,180)
	lon = wrap360(lon+180) - 180

	return LatLon{Lat: toDegrees(φ2), Lon: lon}
}
