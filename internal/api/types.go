package api

import (
	"github.com/mdmfern/WifiThreatAssessorProject/internal/secscore"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status       string  `json:"status"`
	NetworkCount int     `json:"network_count"`
	EnvScore     float64 `json:"environment_score"`
	EnvRisk      string  `json:"environment_risk"`
	ReportCount  int     `json:"report_count"`
	AlertCount   int     `json:"alert_count"`
}

// NetworkResponse is one assessed network in GET /api/v1/networks or
// GET /api/v1/networks/{bssid}.
type NetworkResponse struct {
	SSID    string `json:"ssid"`
	BSSID   string `json:"bssid"`
	Channel int    `json:"channel"`
	Hidden  bool   `json:"hidden,omitempty"`

	Proto  string `json:"proto"`
	Mode   string `json:"mode"`
	Band   string `json:"band"`
	Signal int    `json:"signal"`

	Score      int    `json:"score"`
	Tier       string `json:"tier"`
	Color      string `json:"color"`
	Coerced    bool   `json:"coerced,omitempty"`
	AssessedAt string `json:"assessed_at"` // RFC3339
}

// TriggerResponse is the payload for an accepted POST /api/v1/speedtests.
type TriggerResponse struct {
	Status string `json:"status"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the data
// field of every WebSocket broadcast.
type SnapshotResponse struct {
	Networks    []NetworkResponse      `json:"networks"`
	Audit       *secscore.AuditReport  `json:"audit"`
	LatestSpeed *types.SpeedTestReport `json:"latest_speedtest,omitempty"`
	GeneratedAt string                 `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
