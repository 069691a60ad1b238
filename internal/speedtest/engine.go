package speedtest

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Phase is one sequential stage of the measurement pipeline.
type Phase string

const (
	PhaseServerSelection Phase = "server_selection"
	PhaseLatency         Phase = "latency"
	PhaseDownload        Phase = "download"
	PhaseUpload          Phase = "upload"
	PhaseAggregation     Phase = "aggregation"
	phaseDone            Phase = "done"
)

// Terminal failure reasons.
const (
	ReasonNoServer  = "no reachable server"
	ReasonCancelled = "cancelled"
)

// ErrRunActive is returned when OnBusy is "reject" and a run is in flight.
var ErrRunActive = errors.New("speedtest: run already active")

// Engine drives the phase state machine. Safe for concurrent use: the run
// lock guarantees at most one active run, so phase state never interleaves.
type Engine struct {
	cfg    Config
	prober Prober

	// now is the monotonic-progress clock for phase budgets. Injectable so
	// tests control elapsed time without sleeping.
	now func() time.Time

	mu sync.Mutex
}

// New creates an Engine. The config is sanitized up front: invalid fields
// are replaced with defaults rather than failing.
func New(cfg Config, p Prober) *Engine {
	return &Engine{cfg: cfg.sanitized(), prober: p, now: time.Now}
}

// BusyPolicy returns the effective run-collision policy after sanitization,
// OnBusyReject or OnBusyQueue.
func (e *Engine) BusyPolicy() string {
	return e.cfg.OnBusy
}

// Active reports whether a run is currently executing.
func (e *Engine) Active() bool {
	if e.mu.TryLock() {
		e.mu.Unlock()
		return false
	}
	return true
}

// Run executes one full measurement against the candidate servers, in their
// priority order, and always returns a well-formed report: network failures
// degrade the report status, they are never surfaced as errors. The only
// error Run can return is ErrRunActive, when a run is already executing and
// the engine is configured to reject rather than queue.
func (e *Engine) Run(ctx context.Context, servers []Server) (*types.SpeedTestReport, error) {
	if e.cfg.OnBusy == OnBusyQueue {
		e.mu.Lock()
	} else if !e.mu.TryLock() {
		return nil, ErrRunActive
	}
	defer e.mu.Unlock()

	st := &runState{
		phase:      PhaseServerSelection,
		started:    e.now(),
		candidates: servers,
		states:     make([]validationState, len(servers)),
		failures:   make(map[Phase]string),
	}

	slog.Info("speedtest: run starting", "candidates", len(servers))
	for st.phase != phaseDone {
		e.step(ctx, st)
	}
	slog.Info("speedtest: run finished",
		"status", st.report.Status,
		"elapsed", st.report.Elapsed,
		"failed_phases", st.report.FailedPhases,
	)
	return st.report, nil
}

// runState is the per-run working set. Each run constructs a fresh one;
// nothing is shared across runs.
type runState struct {
	phase      Phase
	started    time.Time
	candidates []Server
	states     []validationState
	failures   map[Phase]string

	ping         float64 // milliseconds
	pingOK       bool
	downloadMbps float64
	downloadOK   bool
	uploadMbps   float64
	uploadOK     bool

	cancelled bool
	noServer  bool

	report *types.SpeedTestReport
}

func (st *runState) fail(p Phase, reason string) {
	st.failures[p] = reason
	slog.Warn("speedtest: phase failed", "phase", p, "reason", reason)
}

// serverFor returns the first validated candidate declaring the role.
func (st *runState) serverFor(role Role) (Server, bool) {
	for i, srv := range st.candidates {
		if st.states[i] == validated && srv.HasRole(role) {
			return srv, true
		}
	}
	return Server{}, false
}

// primaryName names the first validated server, for the report.
func (st *runState) primaryName() string {
	for i, srv := range st.candidates {
		if st.states[i] == validated {
			return srv.Name
		}
	}
	return ""
}

// step advances the state machine by one transition. Cancellation is checked
// here, between phases, so an abort lands in aggregation with a terminal
// "cancelled" status no matter which phase was next.
func (e *Engine) step(ctx context.Context, st *runState) {
	if ctx.Err() != nil && st.phase != PhaseAggregation {
		st.cancelled = true
		st.phase = PhaseAggregation
		return
	}

	switch st.phase {
	case PhaseServerSelection:
		e.selectServers(ctx, st)
		if st.cancelled || st.noServer {
			st.phase = PhaseAggregation
		} else {
			st.phase = PhaseLatency
		}
	case PhaseLatency:
		e.runLatency(ctx, st)
		st.phase = PhaseDownload
	case PhaseDownload:
		e.runDownload(ctx, st)
		st.phase = PhaseUpload
	case PhaseUpload:
		e.runUpload(ctx, st)
		st.phase = PhaseAggregation
	case PhaseAggregation:
		e.aggregate(st)
		st.phase = phaseDone
	default:
		st.phase = phaseDone
	}
}

// selectServers probes candidates in priority order until every role is
// covered by some validated server, or candidates run out.
func (e *Engine) selectServers(ctx context.Context, st *runState) {
	roles := []Role{RolePing, RoleDownload, RoleUpload}

	covered := func(r Role) bool {
		_, ok := st.serverFor(r)
		return ok
	}

	for i, srv := range st.candidates {
		if ctx.Err() != nil {
			st.cancelled = true
			return
		}
		if covered(roles[0]) && covered(roles[1]) && covered(roles[2]) {
			break
		}

		probeCtx, cancel := context.WithTimeout(ctx, e.cfg.ProbeTimeout)
		err := e.prober.Probe(probeCtx, srv)
		cancel()

		if err != nil {
			st.states[i] = unreachable
			slog.Debug("speedtest: candidate unreachable", "server", srv.Name, "err", err)
			continue
		}
		st.states[i] = validated
		slog.Debug("speedtest: candidate validated", "server", srv.Name)
	}

	if st.primaryName() == "" {
		st.noServer = true
	}
}

// runLatency collects ping samples and reduces them to a representative
// value. Fewer successes than the quorum fails the phase, but the pipeline
// continues toward a partial result.
func (e *Engine) runLatency(ctx context.Context, st *runState) {
	srv, ok := st.serverFor(RolePing)
	if !ok {
		st.fail(PhaseLatency, "no validated server with ping capability")
		return
	}

	var samples []float64
	for i := 0; i < e.cfg.PingSamples; i++ {
		if ctx.Err() != nil {
			st.cancelled = true
			return
		}
		sampleCtx, cancel := context.WithTimeout(ctx, e.cfg.SampleTimeout)
		rtt, err := e.prober.Ping(sampleCtx, srv)
		cancel()
		if err != nil {
			slog.Debug("speedtest: ping sample failed", "server", srv.Name, "sample", i, "err", err)
			continue
		}
		samples = append(samples, float64(rtt)/float64(time.Millisecond))
	}

	if len(samples) < e.cfg.PingQuorum {
		st.fail(PhaseLatency, fmt.Sprintf("quorum not met: %d of %d samples succeeded",
			len(samples), e.cfg.PingSamples))
		return
	}

	st.ping = representativePing(samples)
	st.pingOK = true
}

// representativePing trims the single minimum and maximum sample when five
// or more succeeded, then returns the mean of the remainder. One stalled
// probe cannot drag the reported latency.
func representativePing(samples []float64) float64 {
	vals := append([]float64(nil), samples...)
	if len(vals) >= 5 {
		sort.Float64s(vals)
		vals = vals[1 : len(vals)-1]
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func (e *Engine) runDownload(ctx context.Context, st *runState) {
	srv, ok := st.serverFor(RoleDownload)
	if !ok {
		st.fail(PhaseDownload, "no validated server with download capability")
		return
	}

	best, completed, reason, cancelled := e.measureAdaptive(ctx, e.cfg.DownloadSizeTiers,
		func(c context.Context, size int64) (TransferResult, error) {
			return e.prober.Download(c, srv, size)
		})
	if cancelled {
		st.cancelled = true
		return
	}
	if !completed {
		st.fail(PhaseDownload, reason)
		return
	}
	st.downloadMbps = best.Mbps()
	st.downloadOK = true
}

func (e *Engine) runUpload(ctx context.Context, st *runState) {
	srv, ok := st.serverFor(RoleUpload)
	if !ok {
		st.fail(PhaseUpload, "no validated server with upload capability")
		return
	}

	best, completed, reason, cancelled := e.measureAdaptive(ctx, e.cfg.UploadSizeTiers,
		func(c context.Context, size int64) (TransferResult, error) {
			payload := make([]byte, size)
			if _, err := rand.Read(payload); err != nil {
				return TransferResult{}, fmt.Errorf("generate payload: %w", err)
			}
			return e.prober.Upload(c, srv, payload)
		})
	if cancelled {
		st.cancelled = true
		return
	}
	if !completed {
		st.fail(PhaseUpload, reason)
		return
	}
	st.uploadMbps = best.Mbps()
	st.uploadOK = true
}

// measureAdaptive walks the size tiers while the phase budget allows. The
// result is the largest tier that completed — not an average — because big
// transfers measure fast links more accurately. A tier that used more than
// half its sample timeout stops the escalation: there is no headroom left
// worth spending.
func (e *Engine) measureAdaptive(
	ctx context.Context,
	tiers []int64,
	attempt func(ctx context.Context, size int64) (TransferResult, error),
) (best TransferResult, completed bool, reason string, cancelled bool) {
	deadline := e.now().Add(e.cfg.PhaseTimeBudget)
	var lastErr string

	for _, size := range tiers {
		if ctx.Err() != nil {
			return best, completed, reason, true
		}
		if !e.now().Before(deadline) {
			if !completed {
				reason = "time budget exceeded"
			}
			break
		}

		sampleCtx, cancel := context.WithTimeout(ctx, e.cfg.SampleTimeout)
		res, err := attempt(sampleCtx, size)
		cancel()

		if err != nil {
			lastErr = err.Error()
			slog.Debug("speedtest: transfer tier failed", "size", size, "err", err)
			continue
		}

		best = res
		completed = true

		if res.Elapsed > e.cfg.SampleTimeout/2 {
			break
		}
	}

	if !completed && reason == "" {
		reason = lastErr
		if reason == "" {
			reason = "no transfer completed"
		}
	}
	return best, completed, reason, false
}

// aggregate assembles the final report from whatever the phases produced.
func (e *Engine) aggregate(st *runState) {
	rep := &types.SpeedTestReport{
		ServerName: st.primaryName(),
		StartedAt:  st.started,
		Elapsed:    e.now().Sub(st.started),
	}

	rep.Ping = metric(st.ping, st.pingOK, st.failures[PhaseLatency], e.cfg.Thresholds.Ping)
	rep.Download = metric(st.downloadMbps, st.downloadOK, st.failures[PhaseDownload], e.cfg.Thresholds.Download)
	rep.Upload = metric(st.uploadMbps, st.uploadOK, st.failures[PhaseUpload], e.cfg.Thresholds.Upload)

	for _, p := range []Phase{PhaseLatency, PhaseDownload, PhaseUpload} {
		if reason, failed := st.failures[p]; failed {
			rep.FailedPhases = append(rep.FailedPhases, fmt.Sprintf("%s: %s", p, reason))
		}
	}

	switch {
	case st.cancelled:
		rep.Status = types.StatusFailed
		rep.Reason = ReasonCancelled
	case st.noServer:
		rep.Status = types.StatusFailed
		rep.Reason = ReasonNoServer
	case len(rep.FailedPhases) == 0:
		rep.Status = types.StatusSuccess
	default:
		rep.Status = types.StatusPartial
	}

	st.report = rep
}

func metric(value float64, ok bool, failReason string, ladder Ladder) types.SpeedMetric {
	m := types.SpeedMetric{Value: value, OK: ok, FailReason: failReason}
	if ok {
		m.Quality = ladder.Classify(value)
	}
	return m
}
