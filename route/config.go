package route

import (
	"math"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// TimeStepPolicy gives the duration in hours of the next isochrone from the
// closest distance to the goal reached so far
type TimeStepPolicy interface {
	Step(closest float64) float64
}

type FixedTimeStep float64

func (s FixedTimeStep) Step(float64) float64 {
	return float64(s)
}

type StepTier struct {
	Above float64 `koanf:"above"`
	Hours float64 `koanf:"hours"`
}

// AdaptiveTimeStep tiers are sorted by decreasing distance, the last one
// applies below every threshold
type AdaptiveTimeStep []StepTier

func (s AdaptiveTimeStep) Step(closest float64) float64 {
	for _, t := range s {
		if closest > t.Above {
			return t.Hours
		}
	}
	return s[len(s)-1].Hours
}

// Tolerances in force for the next pruning decision
type Tolerances struct {
	// Time is the relative extra time allowed in an already visited cell
	Time float64
	// Slack is an absolute extra time in hours
	Slack float64
	// Coarse is added to Time on coarse cells
	Coarse float64
	// Distance multiplies the closest distance to the goal
	Distance float64
}

// TolerancePolicy shrinks the tolerances as cells get explored
type TolerancePolicy interface {
	At(visited int) Tolerances
}

// LinearTolerance goes from the start values to the end ones over Cells
// visited cells
type LinearTolerance struct {
	TimeStart      float64 `koanf:"timeStart"`
	TimeEnd        float64 `koanf:"timeEnd"`
	DistanceStart  float64 `koanf:"distanceStart"`
	DistanceEnd    float64 `koanf:"distanceEnd"`
	Cells          int     `koanf:"cells"`
	Slack          float64 `koanf:"slack"`
	CoarseLeniency float64 `koanf:"coarseLeniency"`
}

func (l LinearTolerance) At(visited int) Tolerances {
	f := 1.0
	if l.Cells > 0 {
		f = math.Min(1, float64(visited)/float64(l.Cells))
	}
	return Tolerances{
		Time:     l.TimeStart + (l.TimeEnd-l.TimeStart)*f,
		Slack:    l.Slack,
		Coarse:   l.CoarseLeniency,
		Distance: l.DistanceStart + (l.DistanceEnd-l.DistanceStart)*f,
	}
}

// Config holds every tuning parameter of the engine
type Config struct {
	AngularStep         float64
	NearGoalAngularStep float64
	// NearGoalRadius in nm
	NearGoalRadius        float64
	ConeHalfAngle         float64
	NearGoalConeHalfAngle float64

	// cell sizes in degrees
	CellSize         float64
	NearGoalCellSize float64
	// CoarseCellFactor enables the coarse cell cross check of new cells
	// when not 0
	CoarseCellFactor float64

	MaxFrontier            int
	FrontierDistanceWeight float64

	TimeStep TimeStepPolicy

	ArrivalThreshold float64
	MaxHours         float64

	Tolerance       TolerancePolicy
	DistancePruning bool

	// LandBuffer in nm, only used with a land mask
	LandBuffer float64
	// Precision is the number of decimals identifying a position
	Precision int
}

func DefaultConfig() Config {
	return Config{
		AngularStep:            20,
		NearGoalAngularStep:    15,
		NearGoalRadius:         10,
		ConeHalfAngle:          140,
		NearGoalConeHalfAngle:  180,
		CellSize:               0.05,
		NearGoalCellSize:       0.02,
		CoarseCellFactor:       0,
		MaxFrontier:            100,
		FrontierDistanceWeight: 0.6,
		TimeStep: AdaptiveTimeStep{
			{Above: 50, Hours: 2},
			{Above: 20, Hours: 1},
			{Above: 8, Hours: 0.5},
			{Above: 0, Hours: 0.25},
		},
		ArrivalThreshold: 2,
		MaxHours:         120,
		Tolerance: LinearTolerance{
			TimeStart:      0.15,
			TimeEnd:        0.05,
			DistanceStart:  1.3,
			DistanceEnd:    1.1,
			Cells:          400,
			Slack:          0.25,
			CoarseLeniency: 0.05,
		},
		DistancePruning: true,
		LandBuffer:      0,
		Precision:       4,
	}
}

func (c Config) Validate() error {
	switch {
	case c.AngularStep <= 0 || c.AngularStep > 180:
		return errors.Errorf("angular step %.1f out of (0,180]", c.AngularStep)
	case c.NearGoalAngularStep <= 0 || c.NearGoalAngularStep > 180:
		return errors.Errorf("near goal angular step %.1f out of (0,180]", c.NearGoalAngularStep)
	case c.ConeHalfAngle <= 0 || c.NearGoalConeHalfAngle <= 0:
		return errors.New("cone half angles must be positive")
	case c.CellSize <= 0 || c.NearGoalCellSize <= 0:
		return errors.New("cell sizes must be positive")
	case c.CoarseCellFactor != 0 && c.CoarseCellFactor < 1:
		return errors.Errorf("coarse cell factor %.2f must be 0 or at least 1", c.CoarseCellFactor)
	case c.MaxFrontier <= 0:
		return errors.Errorf("frontier cap %d must be positive", c.MaxFrontier)
	case c.FrontierDistanceWeight < 0 || c.FrontierDistanceWeight > 1:
		return errors.Errorf("frontier distance weight %.2f out of [0,1]", c.FrontierDistanceWeight)
	case c.TimeStep == nil || c.Tolerance == nil:
		return errors.New("time step and tolerance policies are required")
	case c.ArrivalThreshold <= 0 || c.MaxHours <= 0:
		return errors.New("arrival threshold and time budget must be positive")
	case c.Precision < 0:
		return errors.Errorf("precision %d must not be negative", c.Precision)
	}
	if s, ok := c.TimeStep.(AdaptiveTimeStep); ok && len(s) == 0 {
		return errors.New("adaptive time step needs at least one tier")
	}
	// one step of the policy at the start must be positive
	for _, d := range []float64{1000, 50, 20, 8, 1, 0} {
		if c.TimeStep.Step(d) <= 0 {
			return errors.Errorf("time step at %.0f nm must be positive", d)
		}
	}
	return nil
}

type profile struct {
	AngularStep            float64         `koanf:"angularStep"`
	NearGoalAngularStep    float64         `koanf:"nearGoalAngularStep"`
	NearGoalRadius         float64         `koanf:"nearGoalRadius"`
	ConeHalfAngle          float64         `koanf:"coneHalfAngle"`
	NearGoalConeHalfAngle  float64         `koanf:"nearGoalConeHalfAngle"`
	CellSize               float64         `koanf:"cellSize"`
	NearGoalCellSize       float64         `koanf:"nearGoalCellSize"`
	CoarseCellFactor       float64         `koanf:"coarseCellFactor"`
	MaxFrontier            int             `koanf:"maxFrontier"`
	FrontierDistanceWeight float64         `koanf:"frontierDistanceWeight"`
	FixedTimeStep          float64         `koanf:"fixedTimeStep"`
	TimeSteps              []StepTier      `koanf:"timeSteps"`
	ArrivalThreshold       float64         `koanf:"arrivalThreshold"`
	MaxHours               float64         `koanf:"maxHours"`
	Tolerance              LinearTolerance `koanf:"tolerance"`
	DistancePruning        bool            `koanf:"distancePruning"`
	LandBuffer             float64         `koanf:"landBuffer"`
	Precision              int             `koanf:"precision"`
}

// LoadConfig overrides the default configuration with a YAML tuning profile
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return c, errors.Wrapf(err, "load tuning profile '%s'", path)
	}

	p := profile{
		AngularStep:            c.AngularStep,
		NearGoalAngularStep:    c.NearGoalAngularStep,
		NearGoalRadius:         c.NearGoalRadius,
		ConeHalfAngle:          c.ConeHalfAngle,
		NearGoalConeHalfAngle:  c.NearGoalConeHalfAngle,
		CellSize:               c.CellSize,
		NearGoalCellSize:       c.NearGoalCellSize,
		CoarseCellFactor:       c.CoarseCellFactor,
		MaxFrontier:            c.MaxFrontier,
		FrontierDistanceWeight: c.FrontierDistanceWeight,
		ArrivalThreshold:       c.ArrivalThreshold,
		MaxHours:               c.MaxHours,
		Tolerance:              c.Tolerance.(LinearTolerance),
		DistancePruning:        c.DistancePruning,
		LandBuffer:             c.LandBuffer,
		Precision:              c.Precision,
	}
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return c, errors.Wrapf(err, "decode tuning profile '%s'", path)
	}

	c.AngularStep = p.AngularStep
	c.NearGoalAngularStep = p.NearGoalAngularStep
	c.NearGoalRadius = p.NearGoalRadius
	c.ConeHalfAngle = p.ConeHalfAngle
	c.NearGoalConeHalfAngle = p.NearGoalConeHalfAngle
	c.CellSize = p.CellSize
	c.NearGoalCellSize = p.NearGoalCellSize
	c.CoarseCellFactor = p.CoarseCellFactor
	c.MaxFrontier = p.MaxFrontier
	c.FrontierDistanceWeight = p.FrontierDistanceWeight
	if len(p.TimeSteps) > 0 {
		c.TimeStep = AdaptiveTimeStep(p.TimeSteps)
	}
	if p.FixedTimeStep > 0 {
		c.TimeStep = FixedTimeStep(p.FixedTimeStep)
	}
	c.ArrivalThreshold = p.ArrivalThreshold
	c.MaxHours = p.MaxHours
	c.Tolerance = p.Tolerance
	c.DistancePruning = p.DistancePruning
	c.LandBuffer = p.LandBuffer
	c.Precision = p.Precision

	if err := c.Validate(); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "invalid tuning profile '%s'", path)
	}
	return c, nil
}
