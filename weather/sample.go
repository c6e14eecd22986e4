package weather

// Sample is the forecast at one location and time. Speeds are in knots,
// WindDirection is where the wind comes from.
type Sample struct {
	WindSpeed     float64 `json:"windSpeed" msgpack:"windSpeed"`
	WindDirection float64 `json:"windDirection" msgpack:"windDirection"`
	WaveHeight    float64 `json:"waveHeight" msgpack:"waveHeight"`
	Precipitation float64 `json:"precipitation" msgpack:"precipitation"`
	Visibility    float64 `json:"visibility" msgpack:"visibility"`
	Temperature   float64 `json:"temperature" msgpack:"temperature"`
	WindGusts     float64 `json:"windGusts" msgpack:"windGusts"`
	WindSustained float64 `json:"windSustained" msgpack:"windSustained"`
	Estimated     bool    `json:"isEstimated" msgpack:"isEstimated"`
}

// DefaultSample is returned when nothing is known about the weather
func DefaultSample() Sample {
	return Sample{
		WindSpeed:     12.0,
		WindDirection: 180.0,
		WaveHeight:    1.2,
		Precipitation: 0.0,
		Visibility:    15.0,
		Temperature:   18.0,
		WindGusts:     15.0,
		WindSustained: 10.0,
		Estimated:     true,
	}
}

// EffectiveWind weights gusts in, as felt on board
func (s Sample) EffectiveWind() float64 {
	if s.WindSustained == 0 && s.WindGusts == 0 {
		return s.WindSpeed
	}
	return 0.7*s.WindSustained + 0.3*s.WindGusts
}
