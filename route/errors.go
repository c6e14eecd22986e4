package route

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoWeatherData is returned when the weather field holds no sample
	ErrNoWeatherData = errors.New("no weather data available")
	// ErrNoRoute matches every NoRouteError
	ErrNoRoute = errors.New("no route found")
	// ErrInvalidRequest wraps request validation failures
	ErrInvalidRequest = errors.New("invalid route request")
)

type Reason int

const (
	// Unreachable means the time budget was spent before arrival
	Unreachable Reason = iota
	// FrontierCollapse means every candidate of an iteration was discarded
	FrontierCollapse
)

func (r Reason) String() string {
	switch r {
	case Unreachable:
		return "unreachable"
	case FrontierCollapse:
		return "frontier collapse"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

type NoRouteError struct {
	Reason     Reason
	ClosestNm  float64
	Iterations int
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route found, closest approach was %.1f nm", e.ClosestNm)
}

func (e *NoRouteError) Is(target error) bool {
	return target == ErrNoRoute
}
