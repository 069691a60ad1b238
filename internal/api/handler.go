package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/alerts"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/secscore"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/speedtest"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/store"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// TriggerFunc starts a speed-test run in the background. It returns
// speedtest.ErrRunActive when a run is already executing and the engine is
// configured to reject concurrent triggers.
type TriggerFunc func() error

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads assessor state from the store and returns JSON responses.
type Handler struct {
	store   *store.Store
	auditor *secscore.Auditor
	alerts  *alerts.Engine // nil disables /alerts content
	trigger TriggerFunc    // nil disables POST /speedtests
	mux     *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
// alertEngine and trigger may be nil.
func New(st *store.Store, alertEngine *alerts.Engine, trigger TriggerFunc) http.Handler {
	h := &Handler{
		store:   st,
		auditor: secscore.NewAuditor(secscore.DefaultPolicy()),
		alerts:  alertEngine,
		trigger: trigger,
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/networks", h.listNetworks)
	h.mux.HandleFunc("/api/v1/networks/", h.getNetwork) // subtree — extracts {bssid}
	h.mux.HandleFunc("/api/v1/audit", h.audit)
	h.mux.HandleFunc("/api/v1/speedtests", h.speedtests)
	h.mux.HandleFunc("/api/v1/speedtests/latest", h.latestSpeedtest)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — environment posture and counts.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	recs := h.store.ListAssessments()
	rep := h.auditor.Audit(networksOf(recs))

	resp := HealthResponse{
		Status:       "ok",
		NetworkCount: len(recs),
		EnvScore:     rep.EnvScore,
		EnvRisk:      rep.EnvRisk,
		ReportCount:  len(h.store.Reports(0)),
	}
	if h.alerts != nil {
		resp.AlertCount = len(h.alerts.Active())
	}
	jsonResp(w, http.StatusOK, resp)
}

// listNetworks returns GET /api/v1/networks — all live assessed networks.
func (h *Handler) listNetworks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	recs := h.store.ListAssessments()
	out := make([]NetworkResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toNetworkResponse(rec))
	}
	jsonResp(w, http.StatusOK, out)
}

// getNetwork returns GET /api/v1/networks/{bssid} — a single assessment.
func (h *Handler) getNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bssid := strings.TrimPrefix(r.URL.Path, "/api/v1/networks/")
	if bssid == "" {
		h.listNetworks(w, r)
		return
	}

	e, ok := h.store.GetAssessment(strings.ToLower(bssid))
	if !ok {
		jsonErr(w, http.StatusNotFound, "network not found")
		return
	}
	jsonResp(w, http.StatusOK, toNetworkResponse(e.Record))
}

// audit returns GET /api/v1/audit — the full environment security audit.
func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	recs := h.store.ListAssessments()
	jsonResp(w, http.StatusOK, h.auditor.Audit(networksOf(recs)))
}

// speedtests serves GET (history) and POST (trigger) on /api/v1/speedtests.
func (h *Handler) speedtests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				jsonErr(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		jsonResp(w, http.StatusOK, h.store.Reports(limit))

	case http.MethodPost:
		if h.trigger == nil {
			jsonErr(w, http.StatusServiceUnavailable, "speed testing is not configured")
			return
		}
		if err := h.trigger(); err != nil {
			if errors.Is(err, speedtest.ErrRunActive) {
				jsonErr(w, http.StatusConflict, "a speed test is already running")
				return
			}
			jsonErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		jsonResp(w, http.StatusAccepted, TriggerResponse{Status: "accepted"})

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// latestSpeedtest returns GET /api/v1/speedtests/latest.
func (h *Handler) latestSpeedtest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rep, ok := h.store.LatestReport()
	if !ok {
		jsonErr(w, http.StatusNotFound, "no speed test has run yet")
		return
	}
	jsonResp(w, http.StatusOK, rep)
}

// listAlerts returns GET /api/v1/alerts — firing plus recently resolved.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// snapshot returns GET /api/v1/snapshot — the combined state dump.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildSnapshot(h.store))
}

// --- helpers ----------------------------------------------------------------

// BuildSnapshot assembles the combined state view served on /snapshot and
// pushed over the WebSocket hub.
func BuildSnapshot(st *store.Store) SnapshotResponse {
	recs := st.ListAssessments()
	auditor := secscore.NewAuditor(secscore.DefaultPolicy())

	out := SnapshotResponse{
		Networks:    make([]NetworkResponse, 0, len(recs)),
		Audit:       auditor.Audit(networksOf(recs)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, rec := range recs {
		out.Networks = append(out.Networks, toNetworkResponse(rec))
	}
	if rep, ok := st.LatestReport(); ok {
		out.LatestSpeed = rep
	}
	return out
}

func networksOf(recs []types.AssessmentRecord) []types.ScannedNetwork {
	nets := make([]types.ScannedNetwork, 0, len(recs))
	for _, rec := range recs {
		nets = append(nets, rec.Network)
	}
	return nets
}

// toNetworkResponse flattens a stored record to its JSON representation.
func toNetworkResponse(rec types.AssessmentRecord) NetworkResponse {
	return NetworkResponse{
		SSID:       rec.Network.SSID,
		BSSID:      rec.Network.BSSID,
		Channel:    rec.Network.Channel,
		Hidden:     rec.Network.Hidden,
		Proto:      string(rec.Network.Attrs.Proto),
		Mode:       string(rec.Network.Attrs.Mode),
		Band:       string(rec.Network.Attrs.Band),
		Signal:     rec.Network.Attrs.Signal,
		Score:      rec.Assessment.Score,
		Tier:       string(rec.Assessment.Tier),
		Color:      rec.Assessment.Color,
		Coerced:    rec.Assessment.Coerced,
		AssessedAt: rec.AssessedAt.UTC().Format(time.RFC3339),
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
