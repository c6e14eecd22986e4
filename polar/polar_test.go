package polar

import (
	"math"
	"testing"
)

func TestInterpolationIndex(t *testing.T) {

	array := []float64{0, 4, 8}

	i0, i1, d := interpolationIndex(array, 0)
	if i0 != 0 || i1 != 0 || d != 0.0 {
		t.Errorf("interpolationIndex(0) = (%d, %d, %f); want (0, 0, 0.0)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, -3)
	if i0 != 0 || i1 != 0 || d != 0.0 {
		t.Errorf("interpolationIndex(-3) = (%d, %d, %f); want (0, 0, 0.0)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 1)
	if i0 != 0 || i1 != 1 || d != 0.75 {
		t.Errorf("interpolationIndex(1) = (%d, %d, %f); want (0, 1, 0.75)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 4)
	if i0 != 0 || i1 != 1 || d != 0.0 {
		t.Errorf("interpolationIndex(4) = (%d, %d, %f); want (0, 1, 0.0)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 5)
	if i0 != 1 || i1 != 2 || d != 0.75 {
		t.Errorf("interpolationIndex(5) = (%d, %d, %f); want (1, 2, 0.75)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 8)
	if i0 != 1 || i1 != 2 || d != 0.0 {
		t.Errorf("interpolationIndex(8) = (%d, %d, %f); want (1, 2, 0.0)", i0, i1, d)
	}

	i0, i1, d = interpolationIndex(array, 9)
	if i0 != 2 || i1 != 0 || d != 1.0 {
		t.Errorf("interpolationIndex(9) = (%d, %d, %f); want (2, 0, 1.0)", i0, i1, d)
	}
}

func TestBoatSpeed(t *testing.T) {
	tests := []struct {
		ws, twa float64
		class   VesselClass
		want    float64
	}{
		{10, 90, Sailboat, 7.2},
		{10, -90, Sailboat, 7.2},
		{10, 270, Sailboat, 7.2},
		{12, 95, Sailboat, 8.28},
		{15, 110, Catamaran, 16.0},
		// clamped
		{2, 90, Sailboat, 4.3},
		{0, 90, Sailboat, 4.3},
		{50, 90, Sailboat, 10.5},
		{50, 180, Catamaran, 17.0},
		// no-go
		{15, 30, Sailboat, 0},
		{15, 44.9, Catamaran, 0},
		{15, 0, Motorboat, 17.0},
		{0, 0, Motorboat, 18.0},
		{-1, 90, Sailboat, 0},
	}
	for _, tt := range tests {
		s := BoatSpeed(tt.ws, tt.twa, tt.class)
		if math.Abs(s-tt.want) > 1e-9 {
			t.Errorf("BoatSpeed(%.1f, %.1f, %s) = %f; want %f", tt.ws, tt.twa, tt.class, s, tt.want)
		}
	}
}

func TestBoatSpeedMonotonicWithWind(t *testing.T) {
	for _, class := range []VesselClass{Sailboat, Catamaran} {
		table := class.Table()
		for a, twa := range table.Angles {
			if twa < NoGoAngle {
				continue
			}
			previous := 0.0
			// up to 30 kt, the sailing tables are reefed above
			for w := 0; w < len(table.Winds) && table.Winds[w] <= 30; w++ {
				s := BoatSpeed(table.Winds[w], twa, class)
				if s != table.Speed[w][a] {
					t.Errorf("BoatSpeed(%.0f, %.0f, %s) = %f; want tabulated %f", table.Winds[w], twa, class, s, table.Speed[w][a])
				}
				if s < previous {
					t.Errorf("BoatSpeed(%.0f, %.0f, %s) = %f; want >= %f", table.Winds[w], twa, class, s, previous)
				}
				previous = s
			}
		}
	}
}

func TestIsInNoGoZone(t *testing.T) {
	if !IsInNoGoZone(44.9, Sailboat) {
		t.Errorf("IsInNoGoZone(44.9, sailboat) = false; want true")
	}
	if IsInNoGoZone(45.1, Sailboat) {
		t.Errorf("IsInNoGoZone(45.1, sailboat) = true; want false")
	}
	if !IsInNoGoZone(10, Catamaran) {
		t.Errorf("IsInNoGoZone(10, catamaran) = false; want true")
	}
	for a := 0.0; a <= 180; a += 0.5 {
		if IsInNoGoZone(a, Motorboat) {
			t.Errorf("IsInNoGoZone(%.1f, motorboat) = true; want false", a)
		}
	}
}

func TestWindAngle(t *testing.T) {
	tests := []struct {
		heading, wind, want float64
	}{
		{180, 0, 0},
		{0, 0, 180},
		{0, 90, 90},
		{90, 90, 180},
		{300, 90, 30},
		{0, 270, 90},
	}
	for _, tt := range tests {
		a := WindAngle(tt.heading, tt.wind)
		if math.Abs(a-tt.want) > 1e-9 {
			t.Errorf("WindAngle(%.0f, %.0f) = %f; want %f", tt.heading, tt.wind, a, tt.want)
		}
	}
}

func TestWindAngleSymmetry(t *testing.T) {
	for w := 0.0; w < 360; w += 17 {
		for h := 0.0; h < 360; h += 7 {
			a := WindAngle(h, w)
			if a < 0 || a > 180 {
				t.Errorf("WindAngle(%.0f, %.0f) = %f; want in [0,180]", h, w, a)
			}
			mirror := math.Mod(2*w-h+720, 360)
			b := WindAngle(mirror, w)
			if math.Abs(a-b) > 1e-9 {
				t.Errorf("WindAngle(%.0f, %.0f) = %f; WindAngle(%.0f, %.0f) = %f; want equal", h, w, a, mirror, w, b)
			}
		}
	}
}

func TestOptimalVMGHeading(t *testing.T) {
	h, vmg := OptimalVMGHeading(15, Sailboat, 180, 0)
	if h != 125 && h != 235 {
		t.Errorf("OptimalVMGHeading(15, sailboat, 180, 0) heading = %.0f; want 125 or 235", h)
	}
	if math.Abs(vmg-4.452) > 0.01 {
		t.Errorf("OptimalVMGHeading(15, sailboat, 180, 0) vmg = %f; want 4.452", vmg)
	}
	if IsInNoGoZone(WindAngle(h, 0), Sailboat) {
		t.Errorf("OptimalVMGHeading(15, sailboat, 180, 0) heading = %.0f in no-go zone", h)
	}

	h, vmg = OptimalVMGHeading(15, Motorboat, 180, 0)
	if h != 180 || vmg != 17.0 {
		t.Errorf("OptimalVMGHeading(15, motorboat, 180, 0) = (%.0f, %f); want (180, 17)", h, vmg)
	}

	// beam reach, bearing away a little pays
	h, vmg = OptimalVMGHeading(15, Sailboat, 0, 90)
	if h != 10 || math.Abs(vmg-9.700) > 0.01 {
		t.Errorf("OptimalVMGHeading(15, sailboat, 0, 90) = (%.0f, %f); want (10, 9.700)", h, vmg)
	}

	// no speed on any heading
	h, vmg = OptimalVMGHeading(-1, Sailboat, 137, 0)
	if h != 137 || vmg != 0 {
		t.Errorf("OptimalVMGHeading(-1, sailboat, 137, 0) = (%.0f, %f); want (137, 0)", h, vmg)
	}
	h, vmg = OptimalVMGHeading(math.NaN(), Motorboat, 42, 0)
	if h != 42 || vmg != 0 {
		t.Errorf("OptimalVMGHeading(NaN, motorboat, 42, 0) = (%.0f, %f); want (42, 0)", h, vmg)
	}
}

func TestParseVesselClass(t *testing.T) {
	for _, name := range []string{"sailboat", "Catamaran", " MOTORBOAT "} {
		c, err := ParseVesselClass(name)
		if err != nil {
			t.Errorf("ParseVesselClass(%q) error %v", name, err)
		}
		if !c.Valid() {
			t.Errorf("ParseVesselClass(%q) = %d; want a valid class", name, c)
		}
	}
	if _, err := ParseVesselClass("kayak"); err == nil {
		t.Errorf("ParseVesselClass(kayak) want an error")
	}

	var c VesselClass
	if err := c.UnmarshalText([]byte("catamaran")); err != nil || c != Catamaran {
		t.Errorf("UnmarshalText(catamaran) = (%s, %v); want catamaran", c, err)
	}
	if b, _ := Motorboat.MarshalText(); string(b) != "motorboat" {
		t.Errorf("MarshalText(motorboat) = %s; want motorboat", b)
	}
}
