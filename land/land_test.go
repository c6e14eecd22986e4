package land

import (
	"os"
	"path/filepath"
	"testing"
)

func testLand(lands ...[2]float64) *Land {
	l := New(make([]byte, 181*360/8+1), 1.0)
	for _, c := range lands {
		di := int(c[0]) + 90
		dj := int(c[1]) + 180
		p := di*360 + dj
		l.data[p/8] |= 0x01 << (7 - uint(p%8))
	}
	return l
}

func TestIsLand(t *testing.T) {
	l := testLand([2]float64{50, -1}, [2]float64{-33, 18})

	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{50, -1, true},
		{50.3, -1.2, true},
		{50, 359, true},
		{50, -3, false},
		{51, -1, false},
		{-33, 18, true},
		{-33, 17, false},
		{0, 0, false},
		{90, 179.9, false},
	}
	for _, tt := range tests {
		if got := l.IsLand(tt.lat, tt.lon); got != tt.want {
			t.Errorf("IsLand(%f, %f) = %t; want %t", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestNearLand(t *testing.T) {
	l := testLand([2]float64{50, -1})

	if !l.NearLand(50, -3, 80) {
		t.Errorf("NearLand(50, -3, 80) = false; want true")
	}
	if l.NearLand(50, -3, 10) {
		t.Errorf("NearLand(50, -3, 10) = true; want false")
	}
	if !l.NearLand(50, -1, 0) {
		t.Errorf("NearLand(50, -1, 0) = false; want true")
	}
}

func TestInitLand(t *testing.T) {
	if _, err := InitLand(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("InitLand(missing) want an error")
	}

	file := filepath.Join(t.TempDir(), "output")
	if err := os.WriteFile(file, []byte{0x80}, 0644); err != nil {
		t.Fatal(err)
	}
	l, err := InitLand(file)
	if err != nil {
		t.Fatalf("InitLand() error %v", err)
	}
	// first bit is the south pole at -180
	if !l.IsLand(-90, -180) {
		t.Errorf("IsLand(-90, -180) = false; want true")
	}
	if l.IsLand(50, -1) {
		t.Errorf("IsLand(50, -1) = true; want false")
	}
}
