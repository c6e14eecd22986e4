package route

import (
	"fmt"
	"math"
	"time"

	"github.com/a-bouts/nav-router/latlon"
	"github.com/a-bouts/nav-router/polar"
	"github.com/a-bouts/nav-router/weather"
)

const (
	// finalLegThreshold is 50 m in nm
	finalLegThreshold = 0.05 / 1.852
	minFinalLegSpeed  = 3.0
)

type Waypoint struct {
	Position latlon.LatLon `json:"position"`
	Time     time.Time     `json:"estimatedArrival"`
	// Heading of the incoming leg as validated during the search, nil for
	// the departure and for a synthetic final leg
	Heading *float64        `json:"heading,omitempty"`
	Weather *weather.Sample `json:"weather,omitempty"`
}

type Stats struct {
	Iterations        int     `json:"iterations"`
	Explored          int     `json:"explored"`
	MaxFrontier       int     `json:"maxFrontier"`
	ClosestApproachNm float64 `json:"closestApproachNm"`
}

type Route struct {
	Name               string            `json:"name,omitempty"`
	Vessel             polar.VesselClass `json:"vesselClass"`
	Departure          time.Time         `json:"departureTime"`
	Waypoints          []Waypoint        `json:"waypoints"`
	TotalDistanceNm    float64           `json:"distance"`
	TotalDurationHours float64           `json:"estimatedHours"`
	Stats              Stats             `json:"stats"`
}

// reconstruct walks the parents of the arrival point back to the origin
func reconstruct(points []Point, id int, req Request) []Waypoint {
	var chain []Point
	for i := id; i >= 0; i = points[i].Parent {
		chain = append(chain, points[i])
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	waypoints := make([]Waypoint, 0, len(chain)+1)
	for _, p := range chain {
		w := Waypoint{
			Position: p.Position,
			Time:     req.Departure.Add(hours(p.Elapsed)),
		}
		if !p.IsOrigin() {
			h := p.Heading
			w.Heading = &h
		}
		waypoints = append(waypoints, w)
	}

	last := chain[len(chain)-1]
	remaining := latlon.Distance(last.Position, req.End)
	if remaining <= finalLegThreshold {
		return waypoints
	}

	speed := minFinalLegSpeed
	if len(chain) > 1 {
		prev := chain[len(chain)-2]
		if dt := last.Elapsed - prev.Elapsed; dt > 0 {
			speed = math.Max(speed, latlon.Distance(prev.Position, last.Position)/dt)
		}
	}

	return append(waypoints, Waypoint{
		Position: req.End,
		Time:     req.Departure.Add(hours(last.Elapsed + remaining/speed)),
	})
}

func (e *Engine) assemble(req Request, id int) *Route {
	waypoints := reconstruct(e.points, id, req)

	r := &Route{
		Name:      req.Name,
		Vessel:    req.Vessel,
		Departure: req.Departure,
		Waypoints: waypoints,
		Stats: Stats{
			Iterations:        e.state.iterations,
			Explored:          e.state.explored,
			MaxFrontier:       e.state.maxFrontier,
			ClosestApproachNm: e.state.closest,
		},
	}
	for i := 1; i < len(waypoints); i++ {
		r.TotalDistanceNm += latlon.Distance(waypoints[i-1].Position, waypoints[i].Position)
	}
	r.TotalDurationHours = waypoints[len(waypoints)-1].Time.Sub(req.Departure).Hours()
	return r
}

// Enrich attaches the interpolated weather to every waypoint, headings are
// left untouched
func (r *Route) Enrich(field *weather.Field) {
	if field == nil {
		return
	}
	for i := range r.Waypoints {
		s := field.Interpolate(r.Waypoints[i].Position, r.Waypoints[i].Time)
		r.Waypoints[i].Weather = &s
	}
}

// FormatDuration gives a human readable duration like "12h 30m"
func FormatDuration(h float64) string {
	if h < 1 {
		return fmt.Sprintf("%d minutes", int(h*60))
	}

	hh := int(h)
	m := int((h - float64(hh)) * 60)
	if m == 0 {
		if hh == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hh)
	}
	return fmt.Sprintf("%dh %dm", hh, m)
}
