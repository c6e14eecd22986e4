package weather

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/nav-router/latlon"
)

// constGrid covers lat 55 to 45 and lon -4 to 5.5 every 0.5°
func constGrid(value float64) grid {
	g := grid{Lat0: 55, Lon0: 356, ΔLat: 0.5, ΔLon: 0.5, NLat: 21, NLon: 20}
	data := make([]float64, g.NLat*g.NLon)
	for i := range data {
		data[i] = value
	}
	g.Data = g.build(data)
	return g
}

func addGrib(g *Gribs, gr *Grib) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.gribs[gr.Date.Format(stampLayout)] = gr
}

func TestVectorToDegrees(t *testing.T) {
	// blowing toward the north, so from the south
	assert.InDelta(t, 180, vectorToDegrees(0, 1), 1e-9)
	assert.InDelta(t, 270, vectorToDegrees(1, 0), 1e-9)
	assert.InDelta(t, 0, vectorToDegrees(0, -1), 1e-9)
	assert.InDelta(t, 90, vectorToDegrees(-1, 0), 1e-9)
}

func TestGridInterpolate(t *testing.T) {
	g := grid{Lat0: 50, Lon0: 0, ΔLat: 1, ΔLon: 1, NLat: 2, NLon: 2}
	g.Data = g.build([]float64{0, 1, 2, 3})

	v, ok := g.interpolate(49.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)

	v, ok = g.interpolate(50, 0)
	require.True(t, ok)
	assert.InDelta(t, 0, v, 1e-9)

	v, _ = g.interpolate(50, 0.25)
	assert.InDelta(t, 0.25, v, 1e-9)

	_, ok = g.interpolate(40, 0.5)
	assert.False(t, ok)

	_, ok = grid{}.interpolate(50, 0)
	assert.False(t, ok)

	// north of the first row
	_, ok = g.interpolate(50.5, 0.5)
	assert.False(t, ok)
}

func TestGridInterpolateNorthward(t *testing.T) {
	g := grid{Lat0: 45, Lon0: 0, ΔLat: 1, ΔLon: 1, NLat: 2, NLon: 2, Northward: true}
	g.Data = g.build([]float64{0, 1, 2, 3})

	v, ok := g.interpolate(45.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)

	v, ok = g.interpolate(45.25, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)

	// south of the first row
	_, ok = g.interpolate(44.5, 0.5)
	assert.False(t, ok)
}

func TestGridContinuous(t *testing.T) {
	g := grid{Lat0: 90, Lon0: 0, ΔLat: 90, ΔLon: 90, NLat: 3, NLon: 4}
	g.Data = g.build([]float64{0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0})
	assert.Len(t, g.Data[1], 5)

	// between 270 and 360, wrapping to the first column
	v, ok := g.interpolate(0, -45)
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)
}

func TestSample(t *testing.T) {
	g0 := &Grib{U: constGrid(0), V: constGrid(-5)}
	g1 := &Grib{U: constGrid(0), V: constGrid(-10)}

	s, ok := sample(g0, nil, 0, 50, -1)
	require.True(t, ok)
	assert.InDelta(t, 5*msToKnots, s.WindSpeed, 1e-9)
	assert.InDelta(t, 0, latlon.AngleDiff(s.WindDirection, 0), 1e-9)
	assert.False(t, s.Estimated)
	assert.Equal(t, DefaultSample().WaveHeight, s.WaveHeight)

	s, ok = sample(g0, g1, 0.5, 50, -1)
	require.True(t, ok)
	assert.InDelta(t, 7.5*msToKnots, s.WindSpeed, 1e-9)

	g0.Waves = constGrid(2.5)
	s, _ = sample(g0, nil, 0, 50, -1)
	assert.InDelta(t, 2.5, s.WaveHeight, 1e-9)

	_, ok = sample(g0, nil, 0, 20, -1)
	assert.False(t, ok)
}

func TestParseGribName(t *testing.T) {
	run, date, err := parseGribName("2024011506.f012")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC), run)
	assert.Equal(t, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC), date)

	for _, name := range []string{"README", "2024011506", "2024011506.fxx", "nodate.f003"} {
		_, _, err = parseGribName(name)
		assert.Error(t, err, name)
	}
}

func TestGribsField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a grib"), 0644))

	g := NewGribs(dir, 10)
	assert.Equal(t, 0, g.Len())

	start := latlon.LatLon{Lat: 50, Lon: -1}
	end := latlon.LatLon{Lat: 50.5, Lon: -1}

	_, err := g.Field(context.Background(), start, end, t0, 12)
	assert.Error(t, err)

	addGrib(g, &Grib{Date: t0, File: "2024011508.f000", U: constGrid(0), V: constGrid(-5)})
	addGrib(g, &Grib{Date: t0.Add(6 * time.Hour), File: "2024011508.f006", U: constGrid(0), V: constGrid(-10)})
	assert.Equal(t, 2, g.Len())

	f, err := g.Field(context.Background(), start, end, t0, 12)
	require.NoError(t, err)
	assert.Equal(t, len(f.Locations())*13, f.Len())

	s, ok := f.Lookup(start, t0.Add(3*time.Hour))
	require.True(t, ok)
	assert.InDelta(t, 7.5*msToKnots, s.WindSpeed, 1e-6)

	// after the last forecast
	s, _ = f.Lookup(start, t0.Add(12*time.Hour))
	assert.InDelta(t, 10*msToKnots, s.WindSpeed, 1e-6)

	// files gone from the directory are dropped
	require.NoError(t, g.Merge())
	assert.Equal(t, 0, g.Len())
}

func TestMergeDoesNotBlockReaders(t *testing.T) {
	dir := t.TempDir()
	g := NewGribs(dir, 10)
	addGrib(g, &Grib{Date: t0, File: "2024011508.f000", U: constGrid(0), V: constGrid(-5)})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024011508.f000"), []byte("kept"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024011508.f006"), []byte("not a grib"), 0644))

	// a reader holds the lock during the whole merge
	g.lock.RLock()
	done := make(chan error)
	go func() { done <- g.Merge() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("merge waited for the reader")
	}
	g.lock.RUnlock()

	assert.Equal(t, 1, g.Len())
}

func TestMergeReplacesVanishedFile(t *testing.T) {
	dir := t.TempDir()
	g := NewGribs(dir, 10)
	addGrib(g, &Grib{Date: t0, File: "2024011508.f000", U: constGrid(0), V: constGrid(-5)})
	addGrib(g, &Grib{Date: t0.Add(6 * time.Hour), File: "2024011508.f006", U: constGrid(0), V: constGrid(-10)})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024011508.f006"), []byte("kept"), 0644))

	require.NoError(t, g.Merge())
	assert.Equal(t, 1, g.Len())

	g.lock.RLock()
	defer g.lock.RUnlock()
	assert.Equal(t, "2024011508.f006", g.gribs["2024011514"].File)
}
