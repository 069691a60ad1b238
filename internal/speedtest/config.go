package speedtest

import (
	"log/slog"
	"time"
)

// Busy policies for a Run issued while another run is active.
const (
	OnBusyReject = "reject"
	OnBusyQueue  = "queue"
)

// Defaults applied when config fields are absent or invalid. A malformed
// value is an input anomaly, recovered locally — never a hard failure.
const (
	DefaultPingSamples     = 5
	DefaultPingQuorum      = 3
	DefaultProbeTimeout    = 2 * time.Second
	DefaultSampleTimeout   = 5 * time.Second
	DefaultPhaseTimeBudget = 10 * time.Second
)

// DefaultDownloadTiers escalate from a quick probe size to payloads large
// enough to saturate fast links.
var DefaultDownloadTiers = []int64{256 << 10, 2_000_000, 10_000_000}

// DefaultUploadTiers are smaller; upstream is usually the tighter budget.
var DefaultUploadTiers = []int64{128 << 10, 1_000_000}

// Config is the per-run configuration bundle for the engine.
type Config struct {
	// PingSamples is the number of latency probes per run. Odd counts give a
	// natural median; 5 enables min/max trimming.
	PingSamples int `yaml:"ping_samples"`

	// PingQuorum is the minimum count of successful samples for the latency
	// phase to be considered valid.
	PingQuorum int `yaml:"ping_quorum"`

	// DownloadSizeTiers and UploadSizeTiers are the ordered payload sizes,
	// in bytes, used by the adaptive escalation strategy.
	DownloadSizeTiers []int64 `yaml:"download_size_tiers"`
	UploadSizeTiers   []int64 `yaml:"upload_size_tiers"`

	// ProbeTimeout bounds the ServerSelection reachability probe per candidate.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// SampleTimeout bounds one ping sample or one transfer attempt.
	SampleTimeout time.Duration `yaml:"sample_timeout"`

	// PhaseTimeBudget bounds each throughput phase as a whole. Total phase
	// elapsed never exceeds PhaseTimeBudget plus one sample's timeout.
	PhaseTimeBudget time.Duration `yaml:"phase_time_budget"`

	// Thresholds is the injected classification table.
	Thresholds Thresholds `yaml:"thresholds"`

	// OnBusy selects what a second Run does while one is active:
	// "reject" (default) or "queue".
	OnBusy string `yaml:"on_busy"`
}

// DefaultConfig returns a fully populated config.
func DefaultConfig() Config {
	return Config{
		PingSamples:       DefaultPingSamples,
		PingQuorum:        DefaultPingQuorum,
		DownloadSizeTiers: DefaultDownloadTiers,
		UploadSizeTiers:   DefaultUploadTiers,
		ProbeTimeout:      DefaultProbeTimeout,
		SampleTimeout:     DefaultSampleTimeout,
		PhaseTimeBudget:   DefaultPhaseTimeBudget,
		Thresholds:        DefaultThresholds(),
		OnBusy:            OnBusyReject,
	}
}

// sanitized returns a copy of c with every invalid field replaced by its
// default. Substitutions are logged so misconfigurations stay visible.
func (c Config) sanitized() Config {
	if c.PingSamples <= 0 {
		slog.Debug("speedtest: invalid ping_samples, using default", "value", c.PingSamples)
		c.PingSamples = DefaultPingSamples
	}
	if c.PingQuorum <= 0 || c.PingQuorum > c.PingSamples {
		c.PingQuorum = min(DefaultPingQuorum, c.PingSamples)
	}
	if !ascendingTiers(c.DownloadSizeTiers) {
		slog.Debug("speedtest: invalid download_size_tiers, using defaults", "value", c.DownloadSizeTiers)
		c.DownloadSizeTiers = DefaultDownloadTiers
	}
	if !ascendingTiers(c.UploadSizeTiers) {
		slog.Debug("speedtest: invalid upload_size_tiers, using defaults", "value", c.UploadSizeTiers)
		c.UploadSizeTiers = DefaultUploadTiers
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.SampleTimeout <= 0 {
		c.SampleTimeout = DefaultSampleTimeout
	}
	if c.PhaseTimeBudget <= 0 {
		c.PhaseTimeBudget = DefaultPhaseTimeBudget
	}
	if !c.Thresholds.Ping.valid() {
		c.Thresholds.Ping = DefaultThresholds().Ping
	}
	if !c.Thresholds.Download.valid() {
		c.Thresholds.Download = DefaultThresholds().Download
	}
	if !c.Thresholds.Upload.valid() {
		c.Thresholds.Upload = DefaultThresholds().Upload
	}
	if c.OnBusy != OnBusyReject && c.OnBusy != OnBusyQueue {
		c.OnBusy = OnBusyReject
	}
	return c
}

// ascendingTiers reports whether tiers is non-empty, positive, and strictly
// increasing. Escalation assumes each tier is a bigger payload than the last.
func ascendingTiers(tiers []int64) bool {
	if len(tiers) == 0 {
		return false
	}
	prev := int64(0)
	for _, t := range tiers {
		if t <= prev {
			return false
		}
		prev = t
	}
	return true
}
