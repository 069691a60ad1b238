package secscore

import (
	"log/slog"
	"math"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Assess scores attrs against the default policy. Pure, deterministic and
// total: it never fails, for any input. Unrecognized or missing attribute
// values resolve to the lowest-scoring category for their dimension — the
// engine fails toward showing more risk, never less.
func Assess(attrs types.NetworkAttributes) types.SecurityAssessment {
	return DefaultPolicy().Assess(attrs)
}

// Assess scores attrs against p. See the package-level Assess.
func (p Policy) Assess(attrs types.NetworkAttributes) types.SecurityAssessment {
	var coerced bool

	protoPts, ok := p.ProtoPoints[attrs.Proto]
	if !ok {
		// Unknown protocol → treated as Open. Missing ("") is the expected
		// zero value and is not flagged; anything else is a parse failure
		// upstream worth surfacing.
		protoPts = 0
		if attrs.Proto != "" {
			coerced = true
			slog.Debug("secscore: unknown auth protocol coerced to open", "proto", attrs.Proto)
		}
	}

	var modePts int
	switch attrs.Mode {
	case types.AuthModeEnterprise:
		modePts = p.EnterpriseBonus
	case types.AuthModePersonal, "":
		// Personal and unspecified contribute nothing.
	default:
		coerced = true
		slog.Debug("secscore: unknown auth mode coerced to personal", "mode", attrs.Mode)
	}

	bandPts := p.BandBonus[attrs.Band]

	signal := clampInt(attrs.Signal, 0, 100)
	signalPts := int(math.Round(float64(signal) / 100 * float64(p.SignalWeight)))

	score := clampInt(protoPts+modePts+bandPts+signalPts, 0, 100)
	tier, color := p.tierFor(score)

	return types.SecurityAssessment{
		Score:   score,
		Tier:    tier,
		Color:   color,
		Coerced: coerced,
	}
}

// tierFor maps a score to its band. Linear scan from the highest floor down;
// the bottom band catches everything else.
func (p Policy) tierFor(score int) (types.RiskTier, string) {
	for i := len(p.Tiers) - 1; i >= 0; i-- {
		if score >= p.Tiers[i].Min {
			return p.Tiers[i].Tier, p.Tiers[i].Color
		}
	}
	return types.TierInsecure, ColorInsecure
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
