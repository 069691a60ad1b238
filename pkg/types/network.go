package types

import "time"

// AuthProto is the authentication protocol advertised by an access point.
type AuthProto string

const (
	AuthProtoNone AuthProto = "none"
	AuthProtoWEP  AuthProto = "wep"
	AuthProtoWPA  AuthProto = "wpa"
	AuthProtoWPA2 AuthProto = "wpa2"
	AuthProtoWPA3 AuthProto = "wpa3"
)

// AuthMode distinguishes pre-shared-key networks from 802.1X deployments.
type AuthMode string

const (
	AuthModePersonal   AuthMode = "personal"
	AuthModeEnterprise AuthMode = "enterprise"
)

// Band is the radio frequency band a network operates on. Bands other than
// 5 GHz (including unknown) are treated as 2.4 GHz-equivalent by scoring policy.
type Band string

const (
	Band24GHz Band = "2.4 GHz"
	Band5GHz  Band = "5 GHz"
)

// NetworkAttributes is the immutable input record to the scoring engine.
// Values are expected to be already normalized — raw platform strings are
// mapped to these enums by the scan collaborator, not by the engine.
type NetworkAttributes struct {
	Proto  AuthProto `json:"proto"`
	Mode   AuthMode  `json:"mode"`
	Band   Band      `json:"band"`
	Signal int       `json:"signal"` // percentage, clamped to [0,100] by the engine
}

// RiskTier is the discrete risk band derived from a security score.
type RiskTier string

const (
	TierInsecure   RiskTier = "insecure"          // [0,20)
	TierLow        RiskTier = "low_security"      // [20,40)
	TierModerate   RiskTier = "moderately_secure" // [40,60)
	TierSecure     RiskTier = "secure"            // [60,80)
	TierVerySecure RiskTier = "very_secure"       // [80,100]
)

// SecurityAssessment is the scoring engine's output. Derived deterministically
// from NetworkAttributes and never mutated after creation.
type SecurityAssessment struct {
	Score int      `json:"score"` // 0–100
	Tier  RiskTier `json:"tier"`
	Color string   `json:"color"` // display color class, 1:1 from tier

	// Coerced is true when an unrecognized attribute value was coerced to its
	// lowest-scoring equivalent. Side channel for auditing upstream parsing —
	// not part of the scoring contract.
	Coerced bool `json:"coerced,omitempty"`
}

// ScannedNetwork is one enumerated network: identity plus normalized
// attributes, with the raw platform auth string kept for diagnostics.
type ScannedNetwork struct {
	SSID    string            `json:"ssid"`
	BSSID   string            `json:"bssid"`
	Channel int               `json:"channel"`
	Hidden  bool              `json:"hidden,omitempty"`
	RawAuth string            `json:"raw_auth,omitempty"`
	Attrs   NetworkAttributes `json:"attrs"`
}

// AssessmentRecord pairs a scanned network with its assessment and the time
// the assessment was produced. This is the unit held by the snapshot store.
type AssessmentRecord struct {
	Network    ScannedNetwork     `json:"network"`
	Assessment SecurityAssessment `json:"assessment"`
	AssessedAt time.Time          `json:"assessed_at"`
}
