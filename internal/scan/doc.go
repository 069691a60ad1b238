// Package scan enumerates nearby Wi-Fi networks and normalizes the
// platform's raw attribute strings into the typed records the scoring
// engine consumes. The netsh text parser is pure so it can be exercised
// against captured command output; only the Scanner touches the OS.
package scan
