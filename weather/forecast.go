package weather

import (
	"math"
	"time"

	"github.com/paulmach/orb"

	"github.com/a-bouts/nav-router/latlon"
)

const (
	// RegionPadding in degrees around the start and end points
	RegionPadding = 1.0

	minForecastHours = 12
	maxForecastHours = 336

	maxLocations = 40000
)

// ForecastHours is the forecast horizon needed to sail distance at speed,
// with a 1.5 safety factor
func ForecastHours(distance float64, speed float64) int {
	if speed <= 0 {
		return maxForecastHours
	}
	hours := int(math.Ceil(distance / speed * 1.5))
	if hours < minForecastHours {
		return minForecastHours
	}
	if hours > maxForecastHours {
		return maxForecastHours
	}
	return hours
}

// Region is the padded bounding box of start and end
func Region(start, end latlon.LatLon, pad float64) orb.Bound {
	return orb.MultiPoint{
		orb.Point{start.Lon, start.Lat},
		orb.Point{end.Lon, end.Lat},
	}.Bound().Pad(pad)
}

// Lattice returns sample locations covering region every spacing nm
func Lattice(region orb.Bound, spacing float64) []latlon.LatLon {
	minLat := math.Max(region.Min.Lat(), -89.0)
	maxLat := math.Min(region.Max.Lat(), 89.0)

	Δlat := spacing / 60.0
	Δlon := spacing / (60.0 * math.Cos((minLat+maxLat)/2*math.Pi/180))

	nLat := int(math.Floor((maxLat-minLat)/Δlat)) + 1
	nLon := int(math.Floor((region.Max.Lon()-region.Min.Lon())/Δlon)) + 1
	for nLat*nLon > maxLocations {
		Δlat *= 2
		Δlon *= 2
		nLat = int(math.Floor((maxLat-minLat)/Δlat)) + 1
		nLon = int(math.Floor((region.Max.Lon()-region.Min.Lon())/Δlon)) + 1
	}

	res := make([]latlon.LatLon, 0, nLat*nLon)
	for i := 0; i < nLat; i++ {
		for j := 0; j < nLon; j++ {
			res = append(res, latlon.LatLon{Lat: minLat + float64(i)*Δlat, Lon: region.Min.Lon() + float64(j)*Δlon})
		}
	}
	return res
}

// HourlyTimes starts at the hour of departure and covers hours forecast hours
func HourlyTimes(departure time.Time, hours int) []time.Time {
	t0 := departure.UTC().Truncate(time.Hour)
	if !t0.Equal(departure) {
		hours++
	}
	res := make([]time.Time, 0, hours+1)
	for h := 0; h <= hours; h++ {
		res = append(res, t0.Add(time.Duration(h)*time.Hour))
	}
	return res
}
