package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/a-bouts/nav-router/latlon"
	"github.com/a-bouts/nav-router/polar"
	"github.com/a-bouts/nav-router/route"
	"github.com/a-bouts/nav-router/weather"
)

// weights in percent
const (
	windWeight       = 35
	wavesWeight      = 25
	visibilityWeight = 15
	distanceWeight   = 25

	// sub score without any weather
	neutral = 50.0
)

type Result struct {
	Score      int      `json:"score"`
	Wind       float64  `json:"wind"`
	Waves      float64  `json:"waves"`
	Visibility float64  `json:"visibility"`
	Distance   float64  `json:"distance"`
	Warnings   []string `json:"warnings"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
}

type Summary struct {
	AvgWind       float64 `json:"avgWind"`
	MaxWind       float64 `json:"maxWind"`
	MaxGusts      float64 `json:"maxGusts"`
	AvgWaves      float64 `json:"avgWaves"`
	MaxWaves      float64 `json:"maxWaves"`
	AvgVisibility float64 `json:"avgVisibility"`
	Rain          bool    `json:"rain"`
}

func clamp(s float64) float64 {
	return math.Max(0, math.Min(100, s))
}

// Summarize the weather attached to the waypoints
func Summarize(waypoints []route.Waypoint) Summary {
	var s Summary
	n := 0
	for _, w := range waypoints {
		if w.Weather == nil {
			continue
		}
		n++
		wind := w.Weather.EffectiveWind()
		s.AvgWind += wind
		s.MaxWind = math.Max(s.MaxWind, wind)
		s.MaxGusts = math.Max(s.MaxGusts, w.Weather.WindGusts)
		s.AvgWaves += w.Weather.WaveHeight
		s.MaxWaves = math.Max(s.MaxWaves, w.Weather.WaveHeight)
		s.AvgVisibility += w.Weather.Visibility
		s.Rain = s.Rain || w.Weather.Precipitation > 0.5
	}
	if n == 0 {
		s.AvgVisibility = 10
		return s
	}
	s.AvgWind /= float64(n)
	s.AvgWaves /= float64(n)
	s.AvgVisibility /= float64(n)
	return s
}

// windScore uses the heading validated by the router for the leg, there is
// no wind angle scoring for a leg without heading
func windScore(s weather.Sample, heading *float64, class polar.VesselClass) (float64, []string) {
	p := class.Profile()
	score := 100.0
	var notes []string

	if class.Sails() {
		if s.WindSpeed < p.MinWind {
			score -= 30
			notes = append(notes, fmt.Sprintf("Low wind (%.0fkt) - may need motor", s.WindSpeed))
		}
		if heading != nil {
			twa := polar.WindAngle(*heading, s.WindDirection)
			if polar.IsInNoGoZone(twa, class) {
				score -= 25
				notes = append(notes, fmt.Sprintf("Leg in the no-go zone (wind angle %.0f°)", twa))
			} else if twa >= 90 && twa <= 150 {
				score += 10
			}
		}
	}

	if s.WindSpeed > p.MaxSafeWind {
		score -= 40
		notes = append(notes, fmt.Sprintf("Dangerous wind: %.0fkt exceeds safe limit", s.WindSpeed))
	} else if s.WindSpeed > p.MaxSafeWind*0.8 {
		score -= 20
		notes = append(notes, fmt.Sprintf("Strong wind: %.0fkt - challenging conditions", s.WindSpeed))
	}

	return clamp(score), notes
}

func wavesScore(h float64, class polar.VesselClass) (float64, []string) {
	p := class.Profile()
	score := 100.0
	var notes []string

	switch {
	case h > p.MaxSafeWaves:
		score -= 40
		notes = append(notes, fmt.Sprintf("Dangerous waves: %.1fm exceeds safe limit", h))
	case h > p.MaxSafeWaves*0.7:
		score -= 20
		notes = append(notes, fmt.Sprintf("Rough seas: %.1fm waves", h))
	case h < 0.5:
		score += 5
		notes = append(notes, "Calm seas")
	}

	return clamp(score), notes
}

func visibilityScore(s weather.Sample) (float64, []string) {
	score := 100.0
	var notes []string

	switch {
	case s.Visibility < 1:
		score -= 45
		notes = append(notes, fmt.Sprintf("Dangerous visibility: %.1fkm, fog expected", s.Visibility))
	case s.Visibility < 2:
		score -= 30
		notes = append(notes, "Poor visibility - fog or heavy precipitation")
	case s.Visibility < 5:
		score -= 15
		notes = append(notes, "Reduced visibility")
	}

	switch {
	case s.Precipitation > 5:
		score -= 20
		notes = append(notes, "Heavy rain expected")
	case s.Precipitation > 1:
		score -= 10
		notes = append(notes, "Rain expected")
	}

	return clamp(score), notes
}

func distanceScore(distance float64, direct float64) (float64, []string) {
	if direct <= 0 {
		return 100, nil
	}

	ratio := distance / direct
	switch {
	case ratio > 1.2:
		return 80, []string{fmt.Sprintf("%d%% longer than direct route", int((ratio-1)*100))}
	case ratio > 1.1:
		return 90, []string{fmt.Sprintf("%d%% longer than direct route", int((ratio-1)*100))}
	case ratio <= 1.02:
		return 100, []string{"Most direct path"}
	}
	return 100, nil
}

// warning notes are the dangerous ones
func isWarning(note string) bool {
	return strings.Contains(note, "Dangerous") || strings.Contains(note, "exceeds") || strings.Contains(note, "no-go")
}

// outgoing is the heading of the leg leaving waypoint i, that is the
// heading recorded on the next waypoint
func outgoing(waypoints []route.Waypoint, i int) *float64 {
	if i+1 < len(waypoints) {
		return waypoints[i+1].Heading
	}
	return waypoints[i].Heading
}

// Score rates a route from 0 to 100 for the vessel class
func Score(r *route.Route, class polar.VesselClass) Result {
	res := Result{
		Warnings: []string{},
	}

	var wind, waves, vis float64
	scored, estimated := 0, 0
	seen := make(map[string]bool)

	for i, w := range r.Waypoints {
		if w.Weather == nil {
			continue
		}
		if w.Weather.Estimated {
			estimated++
		}

		ws, windNotes := windScore(*w.Weather, outgoing(r.Waypoints, i), class)
		wv, wavesNotes := wavesScore(w.Weather.WaveHeight, class)
		vs, visNotes := visibilityScore(*w.Weather)
		wind += ws
		waves += wv
		vis += vs

		for _, notes := range [][]string{windNotes, wavesNotes, visNotes} {
			for _, n := range notes {
				if isWarning(n) && !seen[n] {
					seen[n] = true
					res.Warnings = append(res.Warnings, n)
				}
			}
		}
		scored++
	}

	res.Wind, res.Waves, res.Visibility = neutral, neutral, neutral
	if scored > 0 {
		res.Wind = wind / float64(scored)
		res.Waves = waves / float64(scored)
		res.Visibility = vis / float64(scored)
	}

	direct := 0.0
	if n := len(r.Waypoints); n > 1 {
		direct = latlon.Distance(r.Waypoints[0].Position, r.Waypoints[n-1].Position)
	}
	res.Distance, _ = distanceScore(r.TotalDistanceNm, direct)

	total := (res.Wind*windWeight + res.Waves*wavesWeight + res.Visibility*visibilityWeight + res.Distance*distanceWeight) / 100
	res.Score = int(clamp(total))

	sum := Summarize(r.Waypoints)
	if sum.AvgWind >= 8 && sum.AvgWind <= 20 {
		res.Pros = append(res.Pros, "Good sailing wind")
	}
	if sum.AvgWaves < 1 {
		res.Pros = append(res.Pros, "Calm seas")
	}
	if !sum.Rain {
		res.Pros = append(res.Pros, "No rain expected")
	}
	if direct > 0 && r.TotalDistanceNm <= direct*1.02 {
		res.Pros = append(res.Pros, "Shortest distance")
	}
	if sum.AvgVisibility > 15 {
		res.Pros = append(res.Pros, "Excellent visibility")
	}

	if sum.AvgWind < 5 && class == polar.Sailboat {
		res.Cons = append(res.Cons, "May need motor - low wind")
	}
	if sum.MaxWaves > 2 {
		res.Cons = append(res.Cons, "Rough sections expected")
	}
	if sum.Rain {
		res.Cons = append(res.Cons, "Rain expected on route")
	}
	if r.TotalDistanceNm > direct*1.1 {
		res.Cons = append(res.Cons, "Longer route")
	}

	if estimated > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Weather data unavailable for %d waypoint(s) - using estimates", estimated))
	}

	if len(res.Pros) == 0 {
		res.Pros = []string{"Standard conditions"}
	}
	if len(res.Cons) == 0 {
		res.Cons = []string{"No significant concerns"}
	}
	return res
}
