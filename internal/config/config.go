package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/speedtest"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultScanInterval  = 30 * time.Second
	DefaultScanCacheTTL  = 30 * time.Second
	DefaultHTTPPort      = 8080
	DefaultWSInterval    = 5 * time.Second
	DefaultStoreTTL      = 5 * time.Minute
	DefaultReportHistory = 50
)

// Config is the top-level configuration for the assessor.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Scan      ScanConfig      `yaml:"scan"`
	SpeedTest SpeedTestConfig `yaml:"speedtest"`
	Server    ServerConfig    `yaml:"server"`
	Alerts    AlertsConfig    `yaml:"alerts"`
}

// ScanConfig holds Wi-Fi enumeration settings.
type ScanConfig struct {
	// Interval controls how often the background scan loop refreshes
	// assessments while serving.
	Interval time.Duration `yaml:"interval"`

	// CacheTTL is how long a scan result is served to callers before the
	// platform tooling is invoked again.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// SpeedTestConfig wraps the engine tunables with deployment-level settings:
// which servers to measure against and when to run unattended.
type SpeedTestConfig struct {
	speedtest.Config `yaml:",inline"`

	// Servers are the measurement candidates, in priority order.
	Servers []speedtest.Server `yaml:"servers"`

	// Schedule is an optional cron expression for background runs while
	// serving, e.g. "0 */6 * * *". Empty disables scheduled runs.
	Schedule string `yaml:"schedule"`
}

// ServerConfig holds the HTTP/WebSocket surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and metrics
	// endpoint listen on.
	HTTPPort int `yaml:"http_port"`

	// WSInterval is how often the hub pushes a state snapshot to clients.
	WSInterval time.Duration `yaml:"ws_interval"`

	// StoreTTL is how long an assessment survives without the access point
	// reappearing in a scan.
	StoreTTL time.Duration `yaml:"store_ttl"`

	// ReportHistory caps how many speed-test reports are retained.
	ReportHistory int `yaml:"report_history"`
}

// AlertsConfig holds all alerting rules and webhook targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines a threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "score < 40" or "ping_ms > 150".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// DefaultSpeedServers is the measurement target used when the file names
// none. Cloudflare's speed endpoint serves arbitrary-size payloads and
// accepts uploads, so one host covers every role.
func DefaultSpeedServers() []speedtest.Server {
	return []speedtest.Server{{
		Name:        "cloudflare",
		Host:        "speed.cloudflare.com:443",
		DownloadURL: "https://speed.cloudflare.com/__down?bytes=%d",
		UploadURL:   "https://speed.cloudflare.com/__up",
		Roles:       []speedtest.Role{speedtest.RolePing, speedtest.RoleDownload, speedtest.RoleUpload},
	}}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Scan: ScanConfig{
			Interval: DefaultScanInterval,
			CacheTTL: DefaultScanCacheTTL,
		},
		SpeedTest: SpeedTestConfig{
			Config:  speedtest.DefaultConfig(),
			Servers: DefaultSpeedServers(),
		},
		Server: ServerConfig{
			HTTPPort:      DefaultHTTPPort,
			WSInterval:    DefaultWSInterval,
			StoreTTL:      DefaultStoreTTL,
			ReportHistory: DefaultReportHistory,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Scan.Interval <= 0 {
		return fmt.Errorf("scan.interval must be positive")
	}
	if cfg.Scan.CacheTTL <= 0 {
		return fmt.Errorf("scan.cache_ttl must be positive")
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", cfg.Server.HTTPPort)
	}
	if cfg.Server.WSInterval <= 0 {
		return fmt.Errorf("server.ws_interval must be positive")
	}
	if cfg.Server.StoreTTL <= 0 {
		return fmt.Errorf("server.store_ttl must be positive")
	}
	if cfg.Server.ReportHistory <= 0 {
		return fmt.Errorf("server.report_history must be positive")
	}
	if len(cfg.SpeedTest.Servers) == 0 {
		return fmt.Errorf("speedtest.servers must name at least one server")
	}
	for i, srv := range cfg.SpeedTest.Servers {
		if srv.Name == "" {
			return fmt.Errorf("speedtest.servers[%d]: name is required", i)
		}
		if srv.Host == "" {
			return fmt.Errorf("speedtest.servers[%d] %q: host is required", i, srv.Name)
		}
		for _, role := range srv.Roles {
			switch role {
			case speedtest.RolePing, speedtest.RoleDownload, speedtest.RoleUpload:
			default:
				return fmt.Errorf("speedtest.servers[%d] %q: unknown role %q", i, srv.Name, role)
			}
		}
		if srv.HasRole(speedtest.RoleDownload) && srv.DownloadURL == "" {
			return fmt.Errorf("speedtest.servers[%d] %q: download role requires download_url", i, srv.Name)
		}
		if srv.HasRole(speedtest.RoleUpload) && srv.UploadURL == "" {
			return fmt.Errorf("speedtest.servers[%d] %q: upload role requires upload_url", i, srv.Name)
		}
	}
	switch cfg.SpeedTest.OnBusy {
	case speedtest.OnBusyReject, speedtest.OnBusyQueue, "":
	default:
		return fmt.Errorf("speedtest.on_busy: unknown policy %q", cfg.SpeedTest.OnBusy)
	}
	if cfg.SpeedTest.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.SpeedTest.Schedule); err != nil {
			return fmt.Errorf("speedtest.schedule: %w", err)
		}
	}
	for i, rule := range cfg.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] %q: condition is required", i, rule.Name)
		}
		switch rule.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("alerts.rules[%d] %q: unknown severity %q", i, rule.Name, rule.Severity)
		}
	}
	for i, wh := range cfg.Alerts.Webhooks {
		switch wh.Type {
		case "teams", "slack", "http", "":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, wh.Type)
		}
	}
	return nil
}
