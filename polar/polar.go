package polar

import (
	"fmt"
	"math"
	"strings"
)

// VesselClass is the closed set of vessel families with a polar table
type VesselClass int

const (
	Sailboat VesselClass = iota
	Catamaran
	Motorboat
)

var vesselNames = map[VesselClass]string{
	Sailboat:  "sailboat",
	Catamaran: "catamaran",
	Motorboat: "motorboat",
}

func (c VesselClass) String() string {
	if n, ok := vesselNames[c]; ok {
		return n
	}
	return fmt.Sprintf("VesselClass(%d)", int(c))
}

// Sails is true for the classes subject to the no-go zone
func (c VesselClass) Sails() bool {
	return c == Sailboat || c == Catamaran
}

func (c VesselClass) Valid() bool {
	_, ok := vesselNames[c]
	return ok
}

func (c VesselClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown vessel class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *VesselClass) UnmarshalText(text []byte) error {
	v, err := ParseVesselClass(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseVesselClass never falls back to a default class
func ParseVesselClass(s string) (VesselClass, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range vesselNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown vessel class '%s'", s)
}

// Table gives the boat speed in knots, Speed[i][j] for Winds[i] and Angles[j]
type Table struct {
	Winds  []float64
	Angles []float64
	Speed  [][]float64
}

func (c VesselClass) Table() Table {
	switch c {
	case Catamaran:
		return catamaran
	case Motorboat:
		return motorboat
	default:
		return sailboat
	}
}

func interpolationIndex(values []float64, value float64) (int, int, float64) {

	i := 0
	for values[i] < value {
		i++
		if i == len(values) {
			return i - 1, 0, 1
		}
	}

	if i > 0 {
		return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
	}

	return 0, 0, 0
}

func foldAngle(a float64) float64 {
	a = math.Mod(math.Abs(a), 360)
	if a > 180 {
		a = 360 - a
	}
	return a
}

func (t Table) speed(ws float64, twa float64) float64 {
	w0, w1, wf := interpolationIndex(t.Winds, ws)
	a0, a1, af := interpolationIndex(t.Angles, twa)

	s0 := t.Speed[w0][a0]*af + t.Speed[w0][a1]*(1-af)
	s1 := t.Speed[w1][a0]*af + t.Speed[w1][a1]*(1-af)

	return s0*wf + s1*(1-wf)
}

// BoatSpeed returns the speed in knots for a true wind speed in knots and a
// wind angle in degrees. Values outside the table are clamped to its edges.
func BoatSpeed(ws float64, twa float64, class VesselClass) float64 {
	if ws < 0 || math.IsNaN(ws) || math.IsNaN(twa) {
		return 0
	}

	twa = foldAngle(twa)
	if IsInNoGoZone(twa, class) {
		return 0
	}

	return class.Table().speed(ws, twa)
}
