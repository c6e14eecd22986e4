package weather

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nilsmagnus/grib/griblib"
	"github.com/pkg/errors"
)

const msToKnots = 1.9438444924406

// grid is one GRIB scalar field on a regular lat/lon grid, rows from Lat0
type grid struct {
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	// Northward rows, southward otherwise
	Northward bool
	Data      [][]float64
}

// Grib holds the fields of one forecast file
type Grib struct {
	Date  time.Time
	File  string
	U     grid
	V     grid
	Waves grid
}

func newGrid(g *griblib.Grid0) grid {
	return grid{
		Lat0: float64(g.La1) / 1e6,
		Lon0: float64(g.Lo1) / 1e6,
		ΔLat: float64(g.Dj) / 1e6,
		ΔLon: float64(g.Di) / 1e6,
		NLat: g.Nj,
		NLon: g.Ni,
		// scanning mode bit 2, points scan in the +j direction
		Northward: g.ScanningMode&0x40 != 0,
	}
}

func (g grid) build(data []float64) [][]float64 {

	isContinuous := math.Floor(float64(g.NLon)*g.ΔLon) >= 360

	nLon := g.NLon
	if isContinuous {
		nLon++
	}

	rows := make([][]float64, g.NLat)

	p := 0
	for j := uint32(0); j < g.NLat; j++ {
		rows[j] = make([]float64, nLon)
		for i := uint32(0); i < g.NLon && p < len(data); i++ {
			rows[j][i] = data[p]
			p++
		}
		if isContinuous {
			rows[j][g.NLon] = rows[j][0]
		}
	}
	return rows
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

func bilinearInterpolate(x float64, y float64, g00 float64, g10 float64, g01 float64, g11 float64) float64 {

	rx := (1 - x)
	ry := (1 - y)

	return g00*rx*ry + g10*x*ry + g01*rx*y + g11*x*y
}

func (g grid) interpolate(lat float64, lon float64) (float64, bool) {
	if g.Data == nil || g.ΔLat <= 0 || g.ΔLon <= 0 {
		return 0, false
	}

	i := (g.Lat0 - lat) / g.ΔLat
	if g.Northward {
		i = -i
	}
	if i < 0 {
		return 0, false
	}
	j := floorMod(lon-g.Lon0, 360.0) / g.ΔLon

	fi := uint32(i)
	fj := uint32(j)
	if int(fi)+1 >= len(g.Data) || int(fj)+1 >= len(g.Data[fi]) {
		return 0, false
	}

	v00 := g.Data[fi][fj]
	v01 := g.Data[fi+1][fj]
	v10 := g.Data[fi][fj+1]
	v11 := g.Data[fi+1][fj+1]

	return bilinearInterpolate(j-float64(fj), i-float64(fi), v00, v10, v01, v11), true
}

// vectorToDegrees gives the direction the wind comes from
func vectorToDegrees(u float64, v float64) float64 {
	d := math.Atan2(u, v)*180/math.Pi + 180
	if d >= 360 {
		d -= 360
	}
	return d
}

func isWind(m *griblib.Message) bool {
	p := m.Section4.ProductDefinitionTemplate
	return m.Section0.Discipline == uint8(0) && p.ParameterCategory == uint8(2) && p.FirstSurface.Type == 103 && p.FirstSurface.Value == 10
}

func isWaveHeight(m *griblib.Message) bool {
	p := m.Section4.ProductDefinitionTemplate
	return m.Section0.Discipline == uint8(10) && p.ParameterCategory == uint8(0) && p.ParameterNumber == 3
}

// ReadGrib loads the 10 m wind, and the significant wave height when the
// file has it
func ReadGrib(dir string, date time.Time, file string) (*Grib, error) {
	g := &Grib{Date: date, File: file}

	f, err := os.Open(filepath.Join(dir, file))
	if err != nil {
		return nil, errors.Wrapf(err, "open grib '%s'", file)
	}
	defer f.Close()

	messages, err := griblib.ReadMessages(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read grib '%s'", file)
	}
	for _, message := range messages {
		grid0, ok := message.Section3.Definition.(*griblib.Grid0)
		if !ok {
			continue
		}
		if isWind(message) {
			if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
				g.U = newGrid(grid0)
				g.U.Data = g.U.build(message.Section7.Data)
			} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
				g.V = newGrid(grid0)
				g.V.Data = g.V.build(message.Section7.Data)
			}
		} else if isWaveHeight(message) {
			g.Waves = newGrid(grid0)
			g.Waves.Data = g.Waves.build(message.Section7.Data)
		}
	}
	if g.U.Data == nil || g.V.Data == nil {
		return nil, errors.Errorf("no 10 m wind in grib '%s'", file)
	}
	return g, nil
}

// wind returns u and v in m/s
func (g *Grib) wind(lat float64, lon float64) (float64, float64, bool) {
	u, ok := g.U.interpolate(lat, lon)
	if !ok {
		return 0, 0, false
	}
	v, ok := g.V.interpolate(lat, lon)
	if !ok {
		return 0, 0, false
	}
	return u, v, true
}

// sample blends g0 and g1 by h, g1 may be nil
func sample(g0 *Grib, g1 *Grib, h float64, lat float64, lon float64) (Sample, bool) {
	u, v, ok := g0.wind(lat, lon)
	if !ok {
		return Sample{}, false
	}
	waves, hasWaves := g0.Waves.interpolate(lat, lon)

	if g1 != nil {
		u1, v1, ok := g1.wind(lat, lon)
		if ok {
			u = u1*h + u*(1-h)
			v = v1*h + v*(1-h)
		}
		if w1, ok := g1.Waves.interpolate(lat, lon); ok && hasWaves {
			waves = w1*h + waves*(1-h)
		}
	}

	s := DefaultSample()
	s.Estimated = false
	s.WindSpeed = math.Sqrt(u*u+v*v) * msToKnots
	s.WindDirection = vectorToDegrees(u, v)
	s.WindSustained = s.WindSpeed
	s.WindGusts = s.WindSpeed
	if hasWaves {
		s.WaveHeight = waves
	}
	return s, true
}
