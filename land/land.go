package land

import (
	"math"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-router/latlon"
)

// DefaultResolution of the world mask, 43200 columns
const DefaultResolution = 360.0 / 43200.0

// Land contains one bit per cell, 0 if sea and 1 if land, rows from the
// south pole
type Land struct {
	lat0 float64
	latN float64
	lon0 float64
	lonN float64
	step float64
	data []byte
}

// New wraps a world bitmap of the given resolution in degrees
func New(data []byte, step float64) *Land {
	return &Land{
		lat0: -90.0,
		latN: 90.0,
		lon0: -180.0,
		lonN: 180.00 - step,
		step: step,
		data: data,
	}
}

// InitLand load lands file
func InitLand(file string) (*Land, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		log.Errorf("Error reading file '%s'", file)
		return nil, errors.Wrapf(err, "read land file '%s'", file)
	}
	return New(b, DefaultResolution), nil
}

// IsLand check if location is land or sea. Outside the bitmap is sea.
func (l *Land) IsLand(lat float64, lon float64) bool {
	lon = latlon.Wrap360(lon+180) - 180

	i := int(math.Round(lat / l.step))
	j := int(math.Round(lon / l.step))

	i0 := int(math.Round(l.lat0 / l.step))
	j0 := int(math.Round(l.lon0 / l.step))
	jN := int(math.Round(l.lonN / l.step))

	di := i - i0
	dj := j - j0
	nj := jN - j0 + 1
	if dj >= nj {
		dj -= nj
	}

	p := di*nj + dj
	if di < 0 || p < 0 {
		return false
	}

	pB := p / 8
	pb := uint(p % 8)
	if pB >= len(l.data) {
		return false
	}

	return ((l.data[pB] >> (7 - pb)) & 0x01) == 0x01
}

// NearLand checks eight points at buffer nm around the location
func (l *Land) NearLand(lat float64, lon float64, buffer float64) bool {
	if l.IsLand(lat, lon) {
		return true
	}
	if buffer <= 0 {
		return false
	}
	from := latlon.LatLon{Lat: lat, Lon: lon}
	for b := 0.0; b < 360; b += 45 {
		p := latlon.Destination(from, b, buffer)
		if l.IsLand(p.Lat, p.Lon) {
			return true
		}
	}
	return false
}
