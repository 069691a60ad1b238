package speedtest

import "github.com/mdmfern/WifiThreatAssessorProject/pkg/types"

// Cut is one rung of a classification ladder: values strictly below Below
// classify as Quality, otherwise the scan moves to the next rung.
type Cut struct {
	Below   float64       `yaml:"below"`
	Quality types.Quality `yaml:"quality"`
}

// Ladder classifies a value against ordered cuts; values at or above every
// cut get Else. Cuts must be ascending in Below.
type Ladder struct {
	Cuts []Cut         `yaml:"cuts"`
	Else types.Quality `yaml:"else"`
}

// Classify returns the quality band for v.
func (l Ladder) Classify(v float64) types.Quality {
	for _, c := range l.Cuts {
		if v < c.Below {
			return c.Quality
		}
	}
	return l.Else
}

// valid reports whether the ladder is usable: a terminal quality and
// strictly ascending cuts.
func (l Ladder) valid() bool {
	if l.Else == "" {
		return false
	}
	prev := 0.0
	for i, c := range l.Cuts {
		if c.Quality == "" {
			return false
		}
		if i > 0 && c.Below <= prev {
			return false
		}
		prev = c.Below
	}
	return true
}

// Thresholds is the injected classification policy for the three report
// metrics. Ping is graded lower-is-better; throughput higher-is-better.
type Thresholds struct {
	Ping     Ladder `yaml:"ping"`     // milliseconds
	Download Ladder `yaml:"download"` // Mbps
	Upload   Ladder `yaml:"upload"`   // Mbps
}

// DefaultThresholds returns the default policy table: ping <30 ms excellent,
// <60 good, <100 fair, else poor; throughput <5 Mbps poor, <25 fair,
// <100 good, else excellent.
func DefaultThresholds() Thresholds {
	rate := Ladder{
		Cuts: []Cut{
			{Below: 5, Quality: types.QualityPoor},
			{Below: 25, Quality: types.QualityFair},
			{Below: 100, Quality: types.QualityGood},
		},
		Else: types.QualityExcellent,
	}
	return Thresholds{
		Ping: Ladder{
			Cuts: []Cut{
				{Below: 30, Quality: types.QualityExcellent},
				{Below: 60, Quality: types.QualityGood},
				{Below: 100, Quality: types.QualityFair},
			},
			Else: types.QualityPoor,
		},
		Download: rate,
		Upload:   rate,
	}
}
