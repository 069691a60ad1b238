package secscore

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Risk-bucket boundaries for individual networks within an audit.
const (
	highRiskBelow = 30
	weakBelow     = 60
)

// Environment risk levels derived from the average score across networks.
const (
	EnvLowRisk      = "Low Risk Environment"      // avg >= 80
	EnvModerateRisk = "Moderate Risk Environment" // avg >= 60
	EnvElevatedRisk = "Elevated Risk Environment" // avg >= 40
	EnvHighRisk     = "High Risk Environment"     // avg >= 20
	EnvCriticalRisk = "Critical Risk Environment" // below 20
	EnvUnknownRisk  = "Unknown"
)

// NetworkScore identifies one network within a risk bucket.
type NetworkScore struct {
	SSID  string `json:"ssid"`
	Score int    `json:"score"`
	Color string `json:"color"`
}

// Recommendation is one prioritized remediation item for the environment.
type Recommendation struct {
	Priority       string `json:"priority"` // High | Medium | Low
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}

// NetworkDetail is the per-network entry in the audit, sorted
// least-secure-first so the worst offenders lead the report.
type NetworkDetail struct {
	SSID       string                   `json:"ssid"`
	BSSID      string                   `json:"bssid"`
	Assessment types.SecurityAssessment `json:"assessment"`
	Attrs      types.NetworkAttributes  `json:"attrs"`
	Channel    int                      `json:"channel"`
	Advice     *RiskAdvice              `json:"advice,omitempty"`
	Remedies   []string                 `json:"remedies"`
}

// AuditReport is the environment-level security audit over one scan's worth
// of networks.
type AuditReport struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	TotalNetworks int              `json:"total_networks"`
	Distribution  map[string]int   `json:"distribution"` // counts per security class
	HighRisk      []NetworkScore   `json:"high_risk"`
	WeakSecurity  []NetworkScore   `json:"weak_security"`
	Strong        []NetworkScore   `json:"strong_security"`
	EnvScore      float64          `json:"environment_score"` // average, one decimal
	EnvRisk       string           `json:"environment_risk"`
	Recs          []Recommendation `json:"recommendations"`
	Details       []NetworkDetail  `json:"details"`
}

// Auditor builds environment audits with a fixed policy. The clock is
// injectable so tests control timestamps.
type Auditor struct {
	policy Policy
	now    func() time.Time
}

// NewAuditor returns an Auditor scoring with the given policy.
func NewAuditor(p Policy) *Auditor {
	return &Auditor{policy: p, now: time.Now}
}

// Audit scores every network and aggregates the environment-level view.
// An empty scan yields a valid report with EnvRisk "Unknown".
func (a *Auditor) Audit(networks []types.ScannedNetwork) *AuditReport {
	rep := &AuditReport{
		GeneratedAt:   a.now(),
		TotalNetworks: len(networks),
		Distribution:  distribution(networks),
		EnvRisk:       EnvUnknownRisk,
	}
	if len(networks) == 0 {
		return rep
	}

	var total, scored int
	for _, n := range networks {
		as := a.policy.Assess(n.Attrs)
		if as.Score > 0 {
			total += as.Score
			scored++
		}

		ns := NetworkScore{SSID: n.SSID, Score: as.Score, Color: as.Color}
		switch {
		case as.Score < highRiskBelow:
			rep.HighRisk = append(rep.HighRisk, ns)
		case as.Score < weakBelow:
			rep.WeakSecurity = append(rep.WeakSecurity, ns)
		default:
			rep.Strong = append(rep.Strong, ns)
		}

		advice := Advise(n.Attrs)
		remedies := BaselineRecommendations()
		if advice != nil {
			remedies = advice.Remedies
		}
		rep.Details = append(rep.Details, NetworkDetail{
			SSID:       n.SSID,
			BSSID:      n.BSSID,
			Assessment: as,
			Attrs:      n.Attrs,
			Channel:    n.Channel,
			Advice:     advice,
			Remedies:   remedies,
		})
	}

	if scored > 0 {
		rep.EnvScore = math.Round(float64(total)/float64(scored)*10) / 10
	}
	rep.EnvRisk = envRiskLevel(rep.EnvScore)
	rep.Recs = recommendations(networks)

	sort.SliceStable(rep.Details, func(i, j int) bool {
		return rep.Details[i].Assessment.Score < rep.Details[j].Assessment.Score
	})
	return rep
}

// distribution counts networks per security class. Enterprise is counted
// separately since it combines with any protocol.
func distribution(networks []types.ScannedNetwork) map[string]int {
	counts := map[string]int{
		"open": 0, "wep": 0, "wpa": 0, "wpa2": 0, "wpa3": 0, "enterprise": 0,
	}
	for _, n := range networks {
		switch n.Attrs.Proto {
		case types.AuthProtoNone, "":
			counts["open"]++
		case types.AuthProtoWEP:
			counts["wep"]++
		case types.AuthProtoWPA:
			counts["wpa"]++
		case types.AuthProtoWPA2:
			counts["wpa2"]++
		case types.AuthProtoWPA3:
			counts["wpa3"]++
		}
		if n.Attrs.Mode == types.AuthModeEnterprise {
			counts["enterprise"]++
		}
	}
	return counts
}

// recommendations derives prioritized remediation items from what the scan
// actually contains.
func recommendations(networks []types.ScannedNetwork) []Recommendation {
	var recs []Recommendation

	open := lo.CountBy(networks, func(n types.ScannedNetwork) bool {
		return n.Attrs.Proto == types.AuthProtoNone || n.Attrs.Proto == ""
	})
	if open > 0 {
		recs = append(recs, Recommendation{
			Priority:       "High",
			Issue:          "Open Networks Detected",
			Recommendation: "Secure all open networks with WPA3 or WPA2 encryption",
		})
	}

	wep := lo.CountBy(networks, func(n types.ScannedNetwork) bool {
		return n.Attrs.Proto == types.AuthProtoWEP
	})
	if wep > 0 {
		recs = append(recs, Recommendation{
			Priority:       "High",
			Issue:          "Obsolete WEP Security",
			Recommendation: "Upgrade WEP networks to WPA2 or WPA3",
		})
	}

	anyPersonal := lo.SomeBy(networks, func(n types.ScannedNetwork) bool {
		return n.Attrs.Mode != types.AuthModeEnterprise
	})
	if anyPersonal {
		recs = append(recs, Recommendation{
			Priority:       "Medium",
			Issue:          "Personal Networks",
			Recommendation: "Consider upgrading to Enterprise security for better management",
		})
	}

	return recs
}

// envRiskLevel maps the environment average score to a risk level label.
func envRiskLevel(avg float64) string {
	switch {
	case avg >= 80:
		return EnvLowRisk
	case avg >= 60:
		return EnvModerateRisk
	case avg >= 40:
		return EnvElevatedRisk
	case avg >= 20:
		return EnvHighRisk
	default:
		return EnvCriticalRisk
	}
}
