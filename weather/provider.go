package weather

import (
	"context"
	"time"

	"github.com/a-bouts/nav-router/latlon"
)

// DefaultSpacing between sample locations, in nm
const DefaultSpacing = 10.0

// Provider builds the weather field of one route request
type Provider interface {
	Field(ctx context.Context, start, end latlon.LatLon, departure time.Time, hours int) (*Field, error)
}

type ProviderFunc func(ctx context.Context, start, end latlon.LatLon, departure time.Time, hours int) (*Field, error)

func (f ProviderFunc) Field(ctx context.Context, start, end latlon.LatLon, departure time.Time, hours int) (*Field, error) {
	return f(ctx, start, end, departure, hours)
}

// Uniform is the same sample everywhere, all the time
type Uniform struct {
	Sample  Sample
	Spacing float64
}

func (u Uniform) Field(ctx context.Context, start, end latlon.LatLon, departure time.Time, hours int) (*Field, error) {
	spacing := u.Spacing
	if spacing <= 0 {
		spacing = DefaultSpacing
	}

	locations := Lattice(Region(start, end, RegionPadding), spacing)
	times := HourlyTimes(departure, hours)

	f, err := NewField(locations, times)
	if err != nil {
		return nil, err
	}
	for t := range times {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for l := range locations {
			f.Set(l, t, u.Sample)
		}
	}
	return f, nil
}
