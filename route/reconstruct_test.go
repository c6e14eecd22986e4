package route

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/nav-router/latlon"
	"github.com/a-bouts/nav-router/polar"
	"github.com/a-bouts/nav-router/weather"
)

// chain builds an arena sailing north from origin, one leg per distance,
// one hour per leg, with headings that do not match the legs
func chain(origin latlon.LatLon, legs ...float64) []Point {
	points := []Point{{ID: 0, Parent: -1, Position: origin}}
	for i, d := range legs {
		prev := points[i]
		points = append(points, Point{
			ID:       i + 1,
			Parent:   i,
			Position: latlon.Destination(prev.Position, 0, d),
			Elapsed:  prev.Elapsed + 1,
			Heading:  float64(37 * (i + 1)),
			Distance: prev.Distance + d,
		})
	}
	return points
}

func TestReconstructPreservesHeadings(t *testing.T) {
	origin := latlon.LatLon{Lat: 50, Lon: -1}
	points := chain(origin, 6, 6)
	end := points[2].Position

	waypoints := reconstruct(points, 2, request(origin, end, polar.Sailboat))
	require.Len(t, waypoints, 3)

	assert.Nil(t, waypoints[0].Heading)
	assert.Equal(t, t0, waypoints[0].Time)
	for i := 1; i < 3; i++ {
		require.NotNil(t, waypoints[i].Heading)
		assert.Equal(t, points[i].Heading, *waypoints[i].Heading)
		assert.Equal(t, t0.Add(time.Duration(i)*time.Hour), waypoints[i].Time)
		assert.Equal(t, points[i].Position, waypoints[i].Position)
	}
}

func TestReconstructFinalLeg(t *testing.T) {
	origin := latlon.LatLon{Lat: 50, Lon: -1}

	// last leg at 6 kt
	points := chain(origin, 6, 6)
	end := latlon.Destination(points[2].Position, 0, 3)
	waypoints := reconstruct(points, 2, request(origin, end, polar.Sailboat))
	require.Len(t, waypoints, 4)
	final := waypoints[3]
	assert.Equal(t, end, final.Position)
	assert.Nil(t, final.Heading)
	assert.WithinDuration(t, t0.Add(150*time.Minute), final.Time, time.Second)

	// last leg at 1 kt, floored at 3 kt
	points = chain(origin, 6, 1)
	end = latlon.Destination(points[2].Position, 0, 3)
	waypoints = reconstruct(points, 2, request(origin, end, polar.Sailboat))
	require.Len(t, waypoints, 4)
	assert.WithinDuration(t, t0.Add(3*time.Hour), waypoints[3].Time, time.Second)

	// arrival at the origin
	end = latlon.Destination(origin, 90, 1.5)
	waypoints = reconstruct(points, 0, request(origin, end, polar.Sailboat))
	require.Len(t, waypoints, 2)
	assert.WithinDuration(t, t0.Add(30*time.Minute), waypoints[1].Time, time.Second)

	// closer than 50 m
	end = latlon.Destination(points[2].Position, 90, 0.02)
	waypoints = reconstruct(points, 2, request(origin, end, polar.Sailboat))
	assert.Len(t, waypoints, 3)
}

func TestAssemble(t *testing.T) {
	origin := latlon.LatLon{Lat: 50, Lon: -1}
	end := latlon.Destination(origin, 0, 15)

	e := NewEngine(DefaultConfig(), nil, nil)
	e.points = chain(origin, 6, 6)
	e.state = newState(3)
	e.state.iterations = 2
	e.state.explored = 40

	r := e.assemble(request(origin, end, polar.Catamaran), 2)
	assert.Equal(t, "test", r.Name)
	assert.Equal(t, polar.Catamaran, r.Vessel)
	assert.Len(t, r.Waypoints, 4)
	assert.InDelta(t, 15, r.TotalDistanceNm, 1e-6)
	assert.InDelta(t, 2.5, r.TotalDurationHours, 1e-6)
	assert.Equal(t, Stats{Iterations: 2, Explored: 40, ClosestApproachNm: 3}, r.Stats)
}

func TestEnrich(t *testing.T) {
	origin := latlon.LatLon{Lat: 50, Lon: -1}
	end := latlon.Destination(origin, 0, 15)

	e := NewEngine(DefaultConfig(), nil, nil)
	e.points = chain(origin, 6, 6)
	e.state = newState(3)
	r := e.assemble(request(origin, end, polar.Sailboat), 2)

	r.Enrich(nil)
	assert.Nil(t, r.Waypoints[0].Weather)

	field := uniformField(t, wind(12, 270), origin, end, 12)
	r.Enrich(field)
	for i, w := range r.Waypoints {
		require.NotNil(t, w.Weather)
		assert.InDelta(t, 12, w.Weather.WindSpeed, 1e-9)
		if i > 0 && i < 3 {
			assert.Equal(t, e.points[i].Heading, *w.Heading)
		}
	}

	// outside the field the default sample is used
	empty, err := weather.NewField(nil, nil)
	require.NoError(t, err)
	r.Enrich(empty)
	assert.True(t, r.Waypoints[0].Weather.Estimated)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0.5, "30 minutes"},
		{0.25, "15 minutes"},
		{1, "1 hour"},
		{3, "3 hours"},
		{2.5, "2h 30m"},
		{12.25, "12h 15m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.hours), "%.2f", tt.hours)
	}
}
