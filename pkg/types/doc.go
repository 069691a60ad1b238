// Package types defines the shared in-memory records exchanged between the
// scoring and speed-measurement engines and their consumers (store, API,
// WebSocket hub, alerts). These are canonical value objects — engines produce
// them once and nothing mutates them afterwards.
package types
