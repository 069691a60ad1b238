package alerts

import (
	"strconv"
	"strings"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Sample is the flattened field set rules are evaluated against. Numeric
// fields carry values only for phases or attributes that actually produced
// one; an absent field never fires a rule.
type Sample struct {
	// Subject identifies what the sample describes: an access point
	// ("ssid (bssid)") or a speed-test server name.
	Subject string

	Numeric map[string]float64
	Text    map[string]string
}

// NetworkSample flattens one assessment for rule evaluation.
//
// Numeric fields: score, signal. Text fields: tier, proto, mode, band, ssid.
func NetworkSample(rec types.AssessmentRecord) Sample {
	subject := rec.Network.SSID
	if rec.Network.BSSID != "" {
		subject += " (" + rec.Network.BSSID + ")"
	}
	return Sample{
		Subject: strings.TrimSpace(subject),
		Numeric: map[string]float64{
			"score":  float64(rec.Assessment.Score),
			"signal": float64(rec.Network.Attrs.Signal),
		},
		Text: map[string]string{
			"tier":  string(rec.Assessment.Tier),
			"proto": string(rec.Network.Attrs.Proto),
			"mode":  string(rec.Network.Attrs.Mode),
			"band":  string(rec.Network.Attrs.Band),
			"ssid":  rec.Network.SSID,
		},
	}
}

// ReportSample flattens one speed-test report for rule evaluation.
//
// Numeric fields (present only when the phase succeeded): ping_ms,
// download_mbps, upload_mbps. Text fields: status, server.
func ReportSample(rep *types.SpeedTestReport) Sample {
	s := Sample{
		Subject: rep.ServerName,
		Numeric: map[string]float64{},
		Text: map[string]string{
			"status": string(rep.Status),
			"server": rep.ServerName,
		},
	}
	if s.Subject == "" {
		s.Subject = "speedtest"
	}
	if rep.Ping.OK {
		s.Numeric["ping_ms"] = rep.Ping.Value
	}
	if rep.Download.OK {
		s.Numeric["download_mbps"] = rep.Download.Value
	}
	if rep.Upload.OK {
		s.Numeric["upload_mbps"] = rep.Upload.Value
	}
	return s
}

// evalCondition evaluates a rule condition string against a sample.
//
// Supported expressions (field operator value):
//
//	score < 40
//	signal < 25
//	ping_ms > 150
//	download_mbps < 10
//	upload_mbps < 2
//	tier == insecure
//	proto == wep
//	status != success
//
// Returns (fires bool, triggering value float64). Returns (false, 0) if the
// expression cannot be parsed or the field is absent from the sample.
func evalCondition(cond string, s Sample) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if text, ok := s.Text[field]; ok {
		switch op {
		case "==":
			return text == rhs, 0
		case "!=":
			return text != rhs, 0
		}
		return false, 0
	}

	v, ok := s.Numeric[field]
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
