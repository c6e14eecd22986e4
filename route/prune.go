package route

import (
	"math"

	"github.com/a-bouts/nav-router/latlon"
)

type cell struct {
	lat  int
	lon  int
	near bool
}

func cellOf(p latlon.LatLon, size float64, near bool) cell {
	return cell{
		lat:  int(math.Floor(p.Lat / size)),
		lon:  int(math.Floor(p.Lon / size)),
		near: near,
	}
}

// state of one run, never shared between runs
type state struct {
	frontier []int
	// best elapsed time per visited cell
	cells  map[cell]float64
	coarse map[cell]float64

	closest     float64
	iterations  int
	explored    int
	maxFrontier int
}

func newState(closest float64) *state {
	return &state{
		cells:   make(map[cell]float64),
		coarse:  make(map[cell]float64),
		closest: closest,
	}
}

// shouldPrune records the candidate in the visited cells and tells whether
// it is dominated by a faster point or lags too far behind the closest one
func (e *Engine) shouldPrune(s *state, p latlon.LatLon, elapsed float64, dist float64) bool {
	tol := e.cfg.Tolerance.At(len(s.cells))

	if dist < s.closest {
		s.closest = dist
	}

	near := dist <= e.cfg.NearGoalRadius
	size := e.cfg.CellSize
	if near {
		size = e.cfg.NearGoalCellSize
	}

	c := cellOf(p, size, near)
	if best, found := s.cells[c]; found {
		if elapsed > best*(1+tol.Time)+tol.Slack {
			return true
		}
		if elapsed < best {
			s.cells[c] = elapsed
		}
	} else if e.cfg.CoarseCellFactor > 0 {
		cc := cellOf(p, e.cfg.CellSize*e.cfg.CoarseCellFactor, false)
		if best, found := s.coarse[cc]; found {
			if elapsed > best*(1+tol.Time+tol.Coarse)+tol.Slack {
				return true
			}
			if elapsed < best {
				s.coarse[cc] = elapsed
			}
		} else {
			s.coarse[cc] = elapsed
		}
		s.cells[c] = elapsed
	} else {
		s.cells[c] = elapsed
	}

	if e.cfg.DistancePruning && !near && dist > s.closest*tol.Distance {
		return true
	}
	return false
}
