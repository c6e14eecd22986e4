package route

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a-bouts/nav-router/weather"
)

// WindowResult is the outcome for one departure, either Route or Err is set
type WindowResult struct {
	Departure time.Time
	Route     *Route
	Err       error
}

// RunWindow computes one route per departure time, at most limit at once.
// Missing weather or no route only fail their own slot, anything else
// cancels the window.
func RunWindow(ctx context.Context, cfg Config, provider weather.Provider, land LandChecker, req Request, departures []time.Time, limit int) ([]WindowResult, error) {
	results := make([]WindowResult, len(departures))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, d := range departures {
		g.Go(func() error {
			r := req
			r.Departure = d
			results[i].Departure = d

			if err := r.Validate(); err != nil {
				return err
			}

			field, err := FieldFor(ctx, provider, r)
			if err != nil {
				if errors.Is(err, ErrNoWeatherData) {
					results[i].Err = err
					return nil
				}
				return err
			}

			found, err := NewEngine(cfg, field, land).Run(ctx, r)
			switch {
			case err == nil:
				found.Enrich(field)
				results[i].Route = found
			case errors.Is(err, ErrNoRoute), errors.Is(err, ErrNoWeatherData):
				results[i].Err = err
			default:
				return err
			}

			log.WithFields(log.Fields{
				"departure": d,
				"found":     found != nil,
			}).Debug("Window slot done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
