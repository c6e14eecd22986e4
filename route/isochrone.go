package route

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-router/latlon"
	"github.com/a-bouts/nav-router/polar"
	"github.com/a-bouts/nav-router/weather"
)

var validate = validator.New()

type Request struct {
	Name      string            `json:"name,omitempty"`
	Start     latlon.LatLon     `json:"start"`
	End       latlon.LatLon     `json:"end"`
	Vessel    polar.VesselClass `json:"vesselClass"`
	Departure time.Time         `json:"departureTime"`
}

func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if !r.Vessel.Valid() {
		return errors.Wrapf(ErrInvalidRequest, "unknown vessel class %d", int(r.Vessel))
	}
	if r.Departure.IsZero() {
		return errors.Wrap(ErrInvalidRequest, "departure time is required")
	}
	return nil
}

// LandChecker tells whether a position is on land or closer than buffer nm
type LandChecker interface {
	NearLand(lat float64, lon float64, buffer float64) bool
}

// Engine computes one route at a time over a read only weather field.
// An engine must not run concurrently with itself.
type Engine struct {
	cfg   Config
	field *weather.Field
	land  LandChecker

	points []Point
	state  *state
}

// NewEngine returns an engine, land may be nil
func NewEngine(cfg Config, field *weather.Field, land LandChecker) *Engine {
	return &Engine{
		cfg:   cfg,
		field: field,
		land:  land,
	}
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func (e *Engine) Run(ctx context.Context, req Request) (*Route, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidRequest, "engine config: %s", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if e.field == nil || e.field.Empty() {
		return nil, ErrNoWeatherData
	}

	started := time.Now()
	logger := log.WithFields(log.Fields{
		"name":   req.Name,
		"vessel": req.Vessel,
		"from":   req.Start,
		"to":     req.End,
	})

	e.points = []Point{{ID: 0, Parent: -1, Position: req.Start}}
	s := newState(latlon.Distance(req.Start, req.End))
	s.frontier = []int{0}
	s.maxFrontier = 1
	e.state = s

	elapsed := 0.0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if id, ok := e.arrival(s, req); ok {
			r := e.assemble(req, id)
			logger.WithFields(log.Fields{
				"iterations": s.iterations,
				"explored":   s.explored,
				"hours":      r.TotalDurationHours,
				"distance":   r.TotalDistanceNm,
				"took":       time.Since(started),
			}).Info("Route found")
			return r, nil
		}

		if elapsed >= e.cfg.MaxHours {
			return nil, e.noRoute(logger, Unreachable, started)
		}

		step := e.cfg.TimeStep.Step(s.closest)
		next := e.propagate(s, req, step)
		if len(next) == 0 {
			return nil, e.noRoute(logger, FrontierCollapse, started)
		}
		if len(next) > s.maxFrontier {
			s.maxFrontier = len(next)
		}
		s.frontier = e.capFrontier(next, req.End)
		s.iterations++
		elapsed += step

		logger.WithFields(log.Fields{
			"iteration": s.iterations,
			"elapsed":   elapsed,
			"step":      step,
			"frontier":  len(s.frontier),
			"cells":     len(s.cells),
			"closest":   s.closest,
		}).Debug("Isochrone")
	}
}

func (e *Engine) noRoute(logger *log.Entry, reason Reason, started time.Time) error {
	logger.WithFields(log.Fields{
		"reason":     reason,
		"iterations": e.state.iterations,
		"closest":    e.state.closest,
		"took":       time.Since(started),
	}).Info("No route")
	return &NoRouteError{
		Reason:     reason,
		ClosestNm:  e.state.closest,
		Iterations: e.state.iterations,
	}
}

// arrival returns the frontier point closest to the destination within the
// arrival threshold from which the straight final leg can be sailed
func (e *Engine) arrival(s *state, req Request) (int, bool) {
	best, closest := -1, math.Inf(1)
	for _, id := range s.frontier {
		p := e.points[id]
		d := latlon.Distance(p.Position, req.End)
		if d > e.cfg.ArrivalThreshold || d >= closest {
			continue
		}
		if d > finalLegThreshold && !e.sailable(p, req) {
			continue
		}
		best, closest = id, d
	}
	return best, best >= 0
}

// sailable checks the bearing from p to the destination against the wind at p
func (e *Engine) sailable(p Point, req Request) bool {
	if !req.Vessel.Sails() {
		return true
	}
	w, ok := e.field.Lookup(p.Position, req.Departure.Add(hours(p.Elapsed)))
	if !ok {
		return false
	}
	twa := polar.WindAngle(latlon.Bearing(p.Position, req.End), w.WindDirection)
	return !polar.IsInNoGoZone(twa, req.Vessel)
}

// propagate expands every frontier point along the sampled headings for one
// time step and returns the ids of the points of the next frontier
func (e *Engine) propagate(s *state, req Request, step float64) []int {
	next := make([]int, 0, len(s.frontier)*8)
	seen := make(map[positionKey]bool)

	for _, id := range s.frontier {
		src := e.points[id]

		dist := latlon.Distance(src.Position, req.End)
		bearing := latlon.Bearing(src.Position, req.End)

		angular, cone := e.cfg.AngularStep, e.cfg.ConeHalfAngle
		if dist <= e.cfg.NearGoalRadius {
			angular, cone = e.cfg.NearGoalAngularStep, e.cfg.NearGoalConeHalfAngle
		}

		w, ok := e.field.Lookup(src.Position, req.Departure.Add(hours(src.Elapsed)))
		if !ok {
			continue
		}

		elapsed := src.Elapsed + step
		arrival := req.Departure.Add(hours(elapsed))

		for h := 0.0; h < 360; h += angular {
			if latlon.AngleDiff(h, bearing) > cone {
				continue
			}
			s.explored++

			speed := polar.BoatSpeed(w.WindSpeed, polar.WindAngle(h, w.WindDirection), req.Vessel)
			if speed <= 0 {
				continue
			}

			leg := speed * step
			to := latlon.Destination(src.Position, h, leg)

			wa, ok := e.field.Lookup(to, arrival)
			if !ok {
				continue
			}
			// the wind may have shifted along the leg
			if polar.IsInNoGoZone(polar.WindAngle(h, wa.WindDirection), req.Vessel) {
				continue
			}

			if e.land != nil && e.land.NearLand(to.Lat, to.Lon, e.cfg.LandBuffer) {
				continue
			}

			k := keyOf(to, e.cfg.Precision)
			if seen[k] {
				continue
			}

			if e.shouldPrune(s, to, elapsed, latlon.Distance(to, req.End)) {
				continue
			}

			seen[k] = true
			e.points = append(e.points, Point{
				ID:       len(e.points),
				Parent:   id,
				Position: to,
				Elapsed:  elapsed,
				Heading:  h,
				Distance: src.Distance + leg,
			})
			next = append(next, len(e.points)-1)
		}
	}

	return next
}

func normalize(v float64, lo float64, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// capFrontier keeps the MaxFrontier points with the best blend of distance
// to the destination and elapsed time, ties keep the propagation order
func (e *Engine) capFrontier(next []int, end latlon.LatLon) []int {
	if len(next) <= e.cfg.MaxFrontier {
		return next
	}

	dist := make(map[int]float64, len(next))
	minD, maxD := math.Inf(1), math.Inf(-1)
	minT, maxT := math.Inf(1), math.Inf(-1)
	for _, id := range next {
		d := latlon.Distance(e.points[id].Position, end)
		dist[id] = d
		minD, maxD = math.Min(minD, d), math.Max(maxD, d)
		t := e.points[id].Elapsed
		minT, maxT = math.Min(minT, t), math.Max(maxT, t)
	}

	w := e.cfg.FrontierDistanceWeight
	score := make(map[int]float64, len(next))
	for _, id := range next {
		score[id] = w*normalize(dist[id], minD, maxD) + (1-w)*normalize(e.points[id].Elapsed, minT, maxT)
	}

	capped := make([]int, len(next))
	copy(capped, next)
	sort.SliceStable(capped, func(i, j int) bool {
		return score[capped[i]] < score[capped[j]]
	})
	return capped[:e.cfg.MaxFrontier]
}

// FieldFor asks the provider for a field covering the request, long enough
// for the vessel average speed
func FieldFor(ctx context.Context, provider weather.Provider, req Request) (*weather.Field, error) {
	h := weather.ForecastHours(latlon.Distance(req.Start, req.End), req.Vessel.Profile().AvgSpeed)
	f, err := provider.Field(ctx, req.Start, req.End, req.Departure, h)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(ErrNoWeatherData, err.Error())
	}
	return f, nil
}
