// Package secscore derives security risk scores from Wi-Fi network attributes.
//
// score.go provides the pure Assess function: an additive weighted model over
// four independent contributions (auth protocol, auth mode, frequency band,
// signal strength), summed and clamped to 0–100, then mapped to a risk tier
// by a linear scan over closed-open bands. The weight table lives in an
// explicit Policy struct so future protocols or bands are a data change,
// not a code change.
//
// advisor.go supplies the per-auth-class risk narrative and remediation
// lists shown alongside low-tier assessments. audit.go aggregates a set of
// scanned networks into an environment-level audit with risk buckets and
// prioritized recommendations.
//
// Scoring note: stronger signal ADDS to the score on purpose — greater radio
// range is treated as larger exposure to proximate attackers, and the model
// folds that awareness into the same polarity as the other contributions.
//
// Risk tiers: Insecure [0,20), LowSecurity [20,40), ModeratelySecure [40,60),
// Secure [60,80), VerySecure [80,100].
package secscore
