// Package store holds the in-memory application state: the latest security
// assessment per access point with TTL eviction, and a bounded history of
// speed-test reports. Everything is thread-safe; nothing is persisted.
package store
