package model

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/a-bouts/nav-router/latlon"
	"github.com/a-bouts/nav-router/polar"
	"github.com/a-bouts/nav-router/route"
	"github.com/a-bouts/nav-router/score"
)

var validate = validator.New()

type Route struct {
	Name          string        `json:"name"`
	Start         latlon.LatLon `json:"start"`
	End           latlon.LatLon `json:"end"`
	VesselClass   string        `json:"vesselClass" validate:"required"`
	DepartureTime time.Time     `json:"departureTime" validate:"required"`
}

// Request validates the body and converts it for the router
func (r Route) Request() (route.Request, error) {
	if err := validate.Struct(r); err != nil {
		return route.Request{}, errors.Wrap(route.ErrInvalidRequest, err.Error())
	}
	vessel, err := polar.ParseVesselClass(r.VesselClass)
	if err != nil {
		return route.Request{}, errors.Wrap(route.ErrInvalidRequest, err.Error())
	}
	return route.Request{
		Name:      r.Name,
		Start:     r.Start,
		End:       r.End,
		Vessel:    vessel,
		Departure: r.DepartureTime,
	}, nil
}

type Window struct {
	Route
	Departures []time.Time `json:"departures" validate:"required,min=1,max=48"`
}

func (w Window) Request() (route.Request, error) {
	if err := validate.Var(w.Departures, "required,min=1,max=48"); err != nil {
		return route.Request{}, errors.Wrap(route.ErrInvalidRequest, "departures: "+err.Error())
	}
	r := w.Route
	if r.DepartureTime.IsZero() {
		r.DepartureTime = w.Departures[0]
	}
	return r.Request()
}

type Result struct {
	*route.Route
	Score         score.Result `json:"score"`
	EstimatedTime string       `json:"estimatedTime"`
}

func NewResult(r *route.Route) Result {
	return Result{
		Route:         r,
		Score:         score.Score(r, r.Vessel),
		EstimatedTime: route.FormatDuration(r.TotalDurationHours),
	}
}

type Error struct {
	Error             string   `json:"error"`
	ClosestApproachNm *float64 `json:"closestApproachNm,omitempty"`
}

func NewError(err error) Error {
	var noRoute *route.NoRouteError
	if errors.As(err, &noRoute) {
		closest := noRoute.ClosestNm
		return Error{Error: route.ErrNoRoute.Error(), ClosestApproachNm: &closest}
	}
	return Error{Error: err.Error()}
}

type Slot struct {
	Departure time.Time `json:"departureTime"`
	Result    *Result   `json:"result,omitempty"`
	Error     *Error    `json:"error,omitempty"`
}

type VMG struct {
	Heading float64 `json:"heading"`
	VMG     float64 `json:"vmg"`
}

type Polar struct {
	VesselClass polar.VesselClass `json:"vesselClass"`
	WindSpeed   float64           `json:"windSpeed"`
	WindAngle   float64           `json:"windAngle"`
	BoatSpeed   float64           `json:"boatSpeed"`
	NoGo        bool              `json:"noGo"`
}
