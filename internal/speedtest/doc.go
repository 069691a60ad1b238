// Package speedtest measures the active internet connection: latency,
// download throughput and upload throughput, qualified against an injected
// threshold table.
//
// engine.go drives an explicit phase state machine
// (ServerSelection → Latency → Download → Upload → Aggregation) from a single
// loop with timeout and cancellation checks at every transition. All network
// I/O goes through the Prober interface so tests inject fake responses and a
// fake clock; runs are deterministic without sleeping.
//
// Latency sampling trims the minimum and maximum sample when five or more
// succeed, then takes the mean of the remainder. Throughput phases escalate
// through configured payload size tiers while the phase time budget allows,
// and report the rate of the largest tier that completed — larger transfers
// are more accurate on fast links; the small tiers only protect slow links
// from burning the whole budget.
//
// The engine enforces at most one active run. A concurrent Run either queues
// or is rejected depending on configuration, but phase state never
// interleaves. Every run returns a well-formed report: failures degrade the
// status to partial_success or failed, they are never raised to the caller.
package speedtest
