package metrics

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Metrics accumulates assessor activity counters. All methods are safe for
// concurrent use.
type Metrics struct {
	mu sync.Mutex

	scansTotal      float64
	networksVisible float64

	assessmentsTotal float64
	coercionsTotal   float64

	runsByStatus    map[string]float64
	failuresByPhase map[string]float64

	lastPingMs       float64
	lastDownloadMbps float64
	lastUploadMbps   float64
}

// New creates an empty Metrics set.
func New() *Metrics {
	return &Metrics{
		runsByStatus:    make(map[string]float64),
		failuresByPhase: make(map[string]float64),
	}
}

// ScanCompleted records one finished scan and the number of networks seen.
func (m *Metrics) ScanCompleted(networks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scansTotal++
	m.networksVisible = float64(networks)
}

// AssessmentRecorded counts one scoring pass; coerced assessments are
// additionally tracked so noisy upstream parsing is visible.
func (m *Metrics) AssessmentRecorded(coerced bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessmentsTotal++
	if coerced {
		m.coercionsTotal++
	}
}

// SpeedTestCompleted records a finished run: status and phase-failure
// counters plus the most recent metric values for each successful phase.
func (m *Metrics) SpeedTestCompleted(rep *types.SpeedTestReport) {
	if rep == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsByStatus[string(rep.Status)]++
	for _, fp := range rep.FailedPhases {
		phase, _, _ := strings.Cut(fp, ":")
		m.failuresByPhase[strings.TrimSpace(phase)]++
	}
	if rep.Ping.OK {
		m.lastPingMs = rep.Ping.Value
	}
	if rep.Download.OK {
		m.lastDownloadMbps = rep.Download.Value
	}
	if rep.Upload.OK {
		m.lastUploadMbps = rep.Upload.Value
	}
}

// Handler serves the current values as Prometheus text exposition.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))

		enc := expfmt.NewEncoder(w, format)
		for _, mf := range m.families() {
			if len(mf.Metric) == 0 {
				continue
			}
			if err := enc.Encode(mf); err != nil {
				slog.Error("metrics: encode family failed", "family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

func (m *Metrics) families() []*dto.MetricFamily {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*dto.MetricFamily{
		counterFamily("wifi_assessor_scans_total",
			"Completed Wi-Fi scans.",
			[]*dto.Metric{counterValue(nil, m.scansTotal)}),
		gaugeFamily("wifi_assessor_networks_visible",
			"Networks seen in the most recent scan.",
			[]*dto.Metric{gaugeValue(nil, m.networksVisible)}),
		counterFamily("wifi_assessor_assessments_total",
			"Security assessments produced.",
			[]*dto.Metric{counterValue(nil, m.assessmentsTotal)}),
		counterFamily("wifi_assessor_assessment_coercions_total",
			"Assessments that coerced an unrecognized attribute.",
			[]*dto.Metric{counterValue(nil, m.coercionsTotal)}),
		counterFamily("wifi_assessor_speedtest_runs_total",
			"Speed-test runs by terminal status.",
			labelledCounters("status", m.runsByStatus)),
		counterFamily("wifi_assessor_speedtest_phase_failures_total",
			"Speed-test phase failures by phase.",
			labelledCounters("phase", m.failuresByPhase)),
		gaugeFamily("wifi_assessor_speedtest_last_ping_ms",
			"Representative ping of the most recent successful latency phase.",
			[]*dto.Metric{gaugeValue(nil, m.lastPingMs)}),
		gaugeFamily("wifi_assessor_speedtest_last_download_mbps",
			"Download throughput of the most recent successful download phase.",
			[]*dto.Metric{gaugeValue(nil, m.lastDownloadMbps)}),
		gaugeFamily("wifi_assessor_speedtest_last_upload_mbps",
			"Upload throughput of the most recent successful upload phase.",
			[]*dto.Metric{gaugeValue(nil, m.lastUploadMbps)}),
	}
	return out
}

func counterFamily(name, help string, metrics []*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: metrics,
	}
}

func gaugeFamily(name, help string, metrics []*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

func counterValue(labels []*dto.LabelPair, v float64) *dto.Metric {
	return &dto.Metric{Label: labels, Counter: &dto.Counter{Value: proto.Float64(v)}}
}

func gaugeValue(labels []*dto.LabelPair, v float64) *dto.Metric {
	return &dto.Metric{Label: labels, Gauge: &dto.Gauge{Value: proto.Float64(v)}}
}

// labelledCounters renders a label→value map in sorted order so exposition
// output is stable scrape to scrape.
func labelledCounters(label string, values map[string]float64) []*dto.Metric {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*dto.Metric, 0, len(keys))
	for _, k := range keys {
		out = append(out, counterValue([]*dto.LabelPair{{
			Name:  proto.String(label),
			Value: proto.String(k),
		}}, values[k]))
	}
	return out
}
