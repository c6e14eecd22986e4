package polar

// Profile holds the operating limits of a vessel class
type Profile struct {
	AvgSpeed       float64 `json:"avgSpeed"`
	MaxSpeed       float64 `json:"maxSpeed"`
	MinWind        float64 `json:"minWind"`
	MaxSafeWind    float64 `json:"maxSafeWind"`
	MaxSafeWaves   float64 `json:"maxSafeWaves"`
	PreferredAngle float64 `json:"preferredAngle"`
}

var profiles = map[VesselClass]Profile{
	Sailboat:  {AvgSpeed: 6, MaxSpeed: 12, MinWind: 5, MaxSafeWind: 30, MaxSafeWaves: 3, PreferredAngle: 110},
	Catamaran: {AvgSpeed: 8, MaxSpeed: 15, MinWind: 6, MaxSafeWind: 28, MaxSafeWaves: 2, PreferredAngle: 110},
	Motorboat: {AvgSpeed: 15, MaxSpeed: 30, MinWind: 0, MaxSafeWind: 35, MaxSafeWaves: 2.5},
}

func (c VesselClass) Profile() Profile {
	return profiles[c]
}
