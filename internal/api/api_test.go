package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/speedtest"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/store"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

func seededStore() *store.Store {
	st := store.New(5*time.Minute, 10)
	st.PutAssessment(types.AssessmentRecord{
		Network: types.ScannedNetwork{
			SSID:    "coffee-shop",
			BSSID:   "aa:bb:cc:dd:ee:01",
			Channel: 6,
			Attrs:   types.NetworkAttributes{Proto: types.AuthProtoNone, Mode: types.AuthModePersonal, Band: types.Band24GHz, Signal: 40},
		},
		Assessment: types.SecurityAssessment{Score: 12, Tier: types.TierInsecure, Color: "red"},
		AssessedAt: time.Unix(1700000000, 0),
	})
	st.PutAssessment(types.AssessmentRecord{
		Network: types.ScannedNetwork{
			SSID:    "office",
			BSSID:   "aa:bb:cc:dd:ee:02",
			Channel: 36,
			Attrs:   types.NetworkAttributes{Proto: types.AuthProtoWPA2, Mode: types.AuthModeEnterprise, Band: types.Band5GHz, Signal: 70},
		},
		Assessment: types.SecurityAssessment{Score: 81, Tier: types.TierVerySecure, Color: "blue"},
		AssessedAt: time.Unix(1700000000, 0),
	})
	return st
}

func doJSON(t *testing.T, h http.Handler, method, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal %s %s: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func TestHealth(t *testing.T) {
	h := New(seededStore(), nil, nil)

	var resp HealthResponse
	rec := doJSON(t, h, http.MethodGet, "/api/v1/health", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Status != "ok" || resp.NetworkCount != 2 {
		t.Errorf("health = %+v", resp)
	}
	if resp.EnvScore == 0 || resp.EnvRisk == "" {
		t.Errorf("audit fields missing: %+v", resp)
	}
}

func TestHealth_EmptyStore(t *testing.T) {
	h := New(store.New(time.Minute, 10), nil, nil)

	var resp HealthResponse
	doJSON(t, h, http.MethodGet, "/api/v1/health", &resp)
	if resp.NetworkCount != 0 || resp.EnvRisk != "Unknown" {
		t.Errorf("health on empty store = %+v", resp)
	}
}

func TestListNetworks(t *testing.T) {
	h := New(seededStore(), nil, nil)

	var nets []NetworkResponse
	rec := doJSON(t, h, http.MethodGet, "/api/v1/networks", &nets)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(nets) != 2 {
		t.Fatalf("networks = %d, want 2", len(nets))
	}
	// Store orders by SSID.
	if nets[0].SSID != "coffee-shop" || nets[0].Tier != "insecure" {
		t.Errorf("nets[0] = %+v", nets[0])
	}
	if nets[1].Proto != "wpa2" || nets[1].Mode != "enterprise" || nets[1].Band != "5 GHz" {
		t.Errorf("nets[1] = %+v", nets[1])
	}
	if nets[0].AssessedAt == "" {
		t.Errorf("AssessedAt missing: %+v", nets[0])
	}
}

func TestGetNetwork(t *testing.T) {
	h := New(seededStore(), nil, nil)

	var net NetworkResponse
	rec := doJSON(t, h, http.MethodGet, "/api/v1/networks/aa:bb:cc:dd:ee:02", &net)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if net.SSID != "office" || net.Score != 81 {
		t.Errorf("network = %+v", net)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/networks/ff:ff:ff:ff:ff:ff", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown bssid: status = %d, want 404", rec.Code)
	}
}

func TestAudit(t *testing.T) {
	h := New(seededStore(), nil, nil)

	var audit map[string]any
	rec := doJSON(t, h, http.MethodGet, "/api/v1/audit", &audit)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if audit["total_networks"] != float64(2) {
		t.Errorf("total_networks = %v, want 2", audit["total_networks"])
	}
	if _, ok := audit["recommendations"]; !ok {
		t.Error("recommendations missing from audit payload")
	}
}

func TestSpeedtestsHistory(t *testing.T) {
	st := seededStore()
	for i := 0; i < 3; i++ {
		st.AddReport(&types.SpeedTestReport{
			Status: types.StatusSuccess,
			Ping:   types.SpeedMetric{Value: float64(10 + i), OK: true},
		})
	}
	h := New(st, nil, nil)

	var reports []types.SpeedTestReport
	doJSON(t, h, http.MethodGet, "/api/v1/speedtests", &reports)
	if len(reports) != 3 || reports[0].Ping.Value != 12 {
		t.Errorf("history = %+v, want 3 newest-first", reports)
	}

	reports = nil
	doJSON(t, h, http.MethodGet, "/api/v1/speedtests?limit=1", &reports)
	if len(reports) != 1 {
		t.Errorf("limited history = %d, want 1", len(reports))
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/speedtests?limit=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want 400", rec.Code)
	}
}

func TestLatestSpeedtest(t *testing.T) {
	st := seededStore()
	h := New(st, nil, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/speedtests/latest", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("latest with empty history: status = %d, want 404", rec.Code)
	}

	st.AddReport(&types.SpeedTestReport{Status: types.StatusSuccess, ServerName: "cloudflare"})
	var rep types.SpeedTestReport
	rec = doJSON(t, h, http.MethodGet, "/api/v1/speedtests/latest", &rep)
	if rec.Code != http.StatusOK || rep.ServerName != "cloudflare" {
		t.Errorf("latest = %d %+v", rec.Code, rep)
	}
}

func TestTriggerSpeedtest(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		triggered := false
		h := New(seededStore(), nil, func() error {
			triggered = true
			return nil
		})
		rec := doJSON(t, h, http.MethodPost, "/api/v1/speedtests", nil)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", rec.Code)
		}
		if !triggered {
			t.Error("trigger was not invoked")
		}
	})

	t.Run("busy", func(t *testing.T) {
		h := New(seededStore(), nil, func() error { return speedtest.ErrRunActive })
		rec := doJSON(t, h, http.MethodPost, "/api/v1/speedtests", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		h := New(seededStore(), nil, nil)
		rec := doJSON(t, h, http.MethodPost, "/api/v1/speedtests", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestSnapshot(t *testing.T) {
	st := seededStore()
	st.AddReport(&types.SpeedTestReport{Status: types.StatusSuccess})
	h := New(st, nil, nil)

	var snap SnapshotResponse
	rec := doJSON(t, h, http.MethodGet, "/api/v1/snapshot", &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(snap.Networks) != 2 || snap.Audit == nil || snap.LatestSpeed == nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.GeneratedAt == "" {
		t.Error("generated_at missing")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := New(seededStore(), nil, nil)
	for _, path := range []string{
		"/api/v1/health",
		"/api/v1/networks",
		"/api/v1/audit",
		"/api/v1/snapshot",
	} {
		rec := doJSON(t, h, http.MethodDelete, path, nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("DELETE %s: status = %d, want 405", path, rec.Code)
		}
	}
}
