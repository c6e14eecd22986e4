package polar

import (
	"math"

	"github.com/a-bouts/nav-router/latlon"
)

// NoGoAngle is the smallest wind angle a sailing vessel can hold
const NoGoAngle = 45.0

const vmgStep = 5.0

// WindAngle is the true wind angle in [0,180] between heading and the
// direction the wind blows toward. Every wind angle in the router comes
// from here.
func WindAngle(heading float64, windFrom float64) float64 {
	return latlon.AngleDiff(heading, windFrom+180)
}

func IsInNoGoZone(twa float64, class VesselClass) bool {
	if !class.Sails() {
		return false
	}
	return foldAngle(twa) < NoGoAngle
}

// VMG is the component of the boat speed toward bearing
func VMG(ws float64, heading float64, windFrom float64, bearing float64, class VesselClass) float64 {
	bs := BoatSpeed(ws, WindAngle(heading, windFrom), class)
	return bs * math.Cos(latlon.AngleDiff(heading, bearing)*math.Pi/180)
}

// OptimalVMGHeading scans headings every 5° and keeps the best positive VMG
// toward bearing. Without any, it returns bearing and 0.
func OptimalVMGHeading(ws float64, class VesselClass, bearing float64, windFrom float64) (float64, float64) {
	bestHeading, bestVmg := bearing, 0.0
	for h := 0.0; h < 360; h += vmgStep {
		bs := BoatSpeed(ws, WindAngle(h, windFrom), class)
		if bs == 0 {
			continue
		}
		vmg := bs * math.Cos(latlon.AngleDiff(h, bearing)*math.Pi/180)
		if vmg > bestVmg {
			bestHeading, bestVmg = h, vmg
		}
	}
	return bestHeading, bestVmg
}
