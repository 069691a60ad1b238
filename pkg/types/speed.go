package types

import "time"

// Quality is the per-metric classification band from the injected threshold
// table. Boundaries are closed-open intervals.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityFair      Quality = "fair"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// TestStatus is the overall outcome of one speed-test run.
type TestStatus string

const (
	StatusSuccess TestStatus = "success"
	StatusPartial TestStatus = "partial_success"
	StatusFailed  TestStatus = "failed"
)

// SpeedMetric is one measured dimension of a speed-test report: the value
// (milliseconds for ping, Mbps for throughput), its quality classification,
// and whether the phase that produced it succeeded.
type SpeedMetric struct {
	Value      float64 `json:"value"`
	Quality    Quality `json:"quality,omitempty"`
	OK         bool    `json:"ok"`
	FailReason string  `json:"fail_reason,omitempty"`
}

// SpeedTestReport is the speed-measurement engine's output. Always populated:
// a failed run still yields a well-formed report describing what degraded and
// why. Immutable once produced.
type SpeedTestReport struct {
	Ping     SpeedMetric `json:"ping"`     // milliseconds
	Download SpeedMetric `json:"download"` // Mbps, decimal megabits
	Upload   SpeedMetric `json:"upload"`   // Mbps, decimal megabits

	Status       TestStatus `json:"status"`
	FailedPhases []string   `json:"failed_phases,omitempty"`
	Reason       string     `json:"reason,omitempty"` // terminal reason when Status is failed

	ServerName string        `json:"server_name,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"elapsed"`
}
