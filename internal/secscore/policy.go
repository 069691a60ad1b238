package secscore

import "github.com/mdmfern/WifiThreatAssessorProject/pkg/types"

// Color classes for presentation, keyed 1:1 from risk tier.
const (
	ColorInsecure   = "red"
	ColorLow        = "orange"
	ColorModerate   = "yellow"
	ColorSecure     = "green"
	ColorVerySecure = "blue"
)

// TierBand maps a score floor to a tier and its display color. Bands are
// closed-open except the top band, which includes 100.
type TierBand struct {
	Min   int
	Tier  types.RiskTier
	Color string
}

// Policy holds the entire scoring weight table. Assess reads only from the
// policy, so alternative models (a future WPA4, extra bands) are expressed
// as data.
type Policy struct {
	// ProtoPoints is the fixed contribution per authentication protocol.
	// Protocols absent from the map score 0 — the fail-safe equivalent of Open.
	ProtoPoints map[types.AuthProto]int

	// EnterpriseBonus is added when the auth mode is Enterprise.
	EnterpriseBonus int

	// BandBonus is the per-band contribution. Bands absent from the map
	// (unknown, 2.4 GHz) contribute 0.
	BandBonus map[types.Band]int

	// SignalWeight is the maximum contribution of signal strength:
	// round(clamp(signal,0,100)/100 * SignalWeight).
	SignalWeight int

	// Tiers are the score bands in ascending order of Min. Lookup walks the
	// slice from the top down and takes the first band whose floor is met.
	Tiers []TierBand
}

// DefaultPolicy returns the documented scoring model: WPA3 40, WPA2 30,
// WPA 20, WEP 10, Open 0; +20 Enterprise; +10 for 5 GHz; up to +30 for
// signal strength.
func DefaultPolicy() Policy {
	return Policy{
		ProtoPoints: map[types.AuthProto]int{
			types.AuthProtoWPA3: 40,
			types.AuthProtoWPA2: 30,
			types.AuthProtoWPA:  20,
			types.AuthProtoWEP:  10,
			types.AuthProtoNone: 0,
		},
		EnterpriseBonus: 20,
		BandBonus: map[types.Band]int{
			types.Band5GHz: 10,
		},
		SignalWeight: 30,
		Tiers: []TierBand{
			{Min: 0, Tier: types.TierInsecure, Color: ColorInsecure},
			{Min: 20, Tier: types.TierLow, Color: ColorLow},
			{Min: 40, Tier: types.TierModerate, Color: ColorModerate},
			{Min: 60, Tier: types.TierSecure, Color: ColorSecure},
			{Min: 80, Tier: types.TierVerySecure, Color: ColorVerySecure},
		},
	}
}
