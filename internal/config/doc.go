// Package config loads and watches the assessor configuration file
// (config.yaml).
//
// Top-level types:
//   - Config{Scan, SpeedTest, Server, Alerts} — full config tree parsed
//     from YAML
//   - ScanConfig — scan interval and cache TTL
//   - SpeedTestConfig — engine tunables (inlined), candidate servers and an
//     optional cron schedule for background runs
//   - ServerConfig — HTTP port, WebSocket push interval, store TTL and
//     speed-report history cap
//   - AlertsConfig — threshold rules and webhook targets; webhook URLs
//     resolve from environment variables, never from the file itself
//
// Load(path) reads the YAML file, applies defaults, then validates required
// fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create
// pattern used by atomic-save editors by re-adding the watch after the
// event fires.
package config
