package weather

import (
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/a-bouts/nav-router/latlon"
)

const (
	nearestSamples = 4
	idwEpsilon     = 1e-6
)

type key struct {
	loc int
	t   int
}

// Field is a sparse forecast grid, read only once built
type Field struct {
	locations []orb.Point
	times     []time.Time
	samples   map[key]Sample
	index     *bucketIndex
}

// NewField expects strictly ascending forecast times
func NewField(locations []latlon.LatLon, times []time.Time) (*Field, error) {
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, errors.Errorf("forecast times not ascending at %d (%s)", i, times[i].Format(time.RFC3339))
		}
	}

	points := make([]orb.Point, len(locations))
	for i, l := range locations {
		points[i] = orb.Point{l.Lon, l.Lat}
	}

	f := &Field{
		locations: points,
		times:     append([]time.Time(nil), times...),
		samples:   make(map[key]Sample),
	}
	if len(points) > 0 {
		f.index = newBucketIndex(points)
	}
	return f, nil
}

// Set stores the sample of location loc at forecast time t
func (f *Field) Set(loc int, t int, s Sample) {
	if loc < 0 || loc >= len(f.locations) || t < 0 || t >= len(f.times) {
		return
	}
	f.samples[key{loc, t}] = s
}

func (f *Field) Len() int {
	return len(f.samples)
}

func (f *Field) Empty() bool {
	return len(f.samples) == 0
}

func (f *Field) Locations() []latlon.LatLon {
	res := make([]latlon.LatLon, len(f.locations))
	for i, p := range f.locations {
		res[i] = latlon.LatLon{Lat: p.Lat(), Lon: p.Lon()}
	}
	return res
}

func (f *Field) Times() []time.Time {
	return append([]time.Time(nil), f.times...)
}

func (f *Field) bracket(t time.Time) (int, int, float64) {
	n := len(f.times)
	if !t.After(f.times[0]) {
		return 0, 0, 0
	}
	if !t.Before(f.times[n-1]) {
		return n - 1, n - 1, 0
	}

	i := sort.Search(n, func(i int) bool { return f.times[i].After(t) })

	h := float64(t.Sub(f.times[i-1])) / float64(f.times[i].Sub(f.times[i-1]))
	return i - 1, i, h
}

func blend(s0, s1 Sample, h float64) Sample {
	lerp := func(a, b float64) float64 {
		return a*(1-h) + b*h
	}

	r0 := s0.WindDirection * math.Pi / 180
	r1 := s1.WindDirection * math.Pi / 180
	dir := math.Atan2(math.Sin(r0)*(1-h)+math.Sin(r1)*h, math.Cos(r0)*(1-h)+math.Cos(r1)*h)

	return Sample{
		WindSpeed:     lerp(s0.WindSpeed, s1.WindSpeed),
		WindDirection: latlon.Wrap360(dir * 180 / math.Pi),
		WaveHeight:    lerp(s0.WaveHeight, s1.WaveHeight),
		Precipitation: lerp(s0.Precipitation, s1.Precipitation),
		Visibility:    lerp(s0.Visibility, s1.Visibility),
		Temperature:   lerp(s0.Temperature, s1.Temperature),
		WindGusts:     lerp(s0.WindGusts, s1.WindGusts),
		WindSustained: lerp(s0.WindSustained, s1.WindSustained),
		Estimated:     s0.Estimated || s1.Estimated,
	}
}

func (f *Field) at(loc int, t0 int, t1 int, h float64) (Sample, bool) {
	s0, ok0 := f.samples[key{loc, t0}]
	s1, ok1 := f.samples[key{loc, t1}]
	switch {
	case ok0 && ok1:
		if t0 == t1 {
			return s0, true
		}
		return blend(s0, s1, h), true
	case ok0:
		return s0, true
	case ok1:
		return s1, true
	}
	return Sample{}, false
}

// Lookup interpolates the field at p and t. It is false when none of the
// nearest locations has a sample around t.
func (f *Field) Lookup(p latlon.LatLon, t time.Time) (Sample, bool) {
	if f.Empty() || f.index == nil || len(f.times) == 0 {
		return Sample{}, false
	}

	t0, t1, h := f.bracket(t)

	var res Sample
	var sin, cos, total float64
	estimated := false

	for _, n := range f.index.nearest(orb.Point{p.Lon, p.Lat}, nearestSamples) {
		s, ok := f.at(n.i, t0, t1, h)
		if !ok {
			continue
		}
		w := 1 / (n.d + idwEpsilon)
		total += w

		r := s.WindDirection * math.Pi / 180
		sin += w * math.Sin(r)
		cos += w * math.Cos(r)

		res.WindSpeed += w * s.WindSpeed
		res.WaveHeight += w * s.WaveHeight
		res.Precipitation += w * s.Precipitation
		res.Visibility += w * s.Visibility
		res.Temperature += w * s.Temperature
		res.WindGusts += w * s.WindGusts
		res.WindSustained += w * s.WindSustained
		estimated = estimated || s.Estimated
	}

	if total == 0 {
		return Sample{}, false
	}

	res.WindSpeed /= total
	res.WaveHeight /= total
	res.Precipitation /= total
	res.Visibility /= total
	res.Temperature /= total
	res.WindGusts /= total
	res.WindSustained /= total
	res.WindDirection = latlon.Wrap360(math.Atan2(sin, cos) * 180 / math.Pi)
	res.Estimated = estimated

	return res, true
}

// Interpolate never fails, it falls back on DefaultSample
func (f *Field) Interpolate(p latlon.LatLon, t time.Time) Sample {
	if s, ok := f.Lookup(p, t); ok {
		return s
	}
	return DefaultSample()
}
