// Package metrics exposes assessor counters and gauges in the Prometheus
// text exposition format. The collectors are plain locked fields; the
// handler renders them into client_model families on each scrape.
package metrics
