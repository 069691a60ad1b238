package alerts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/config"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

func testEngine(rules []config.AlertRule, webhooks []config.WebhookConfig) (*Engine, *time.Time) {
	e := New(config.AlertsConfig{Rules: rules, Webhooks: webhooks})
	now := time.Unix(1700000000, 0)
	e.now = func() time.Time { return now }
	return e, &now
}

func TestEvaluateFiresAndResolves(t *testing.T) {
	rules := []config.AlertRule{{
		Name:      "weak-network",
		Condition: "score < 40",
		Severity:  "warning",
		Cooldown:  time.Minute,
	}}
	e, now := testEngine(rules, nil)

	e.Evaluate(NetworkSample(assessment(25, types.TierLow, types.AuthProtoWEP)))

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("Active() = %d alerts, want 1", len(active))
	}
	a := active[0]
	if a.RuleName != "weak-network" || a.State != "firing" || a.Value != 25 {
		t.Errorf("alert = %+v", a)
	}

	// Condition clears: the alert resolves and moves to recent history.
	*now = now.Add(2 * time.Minute)
	e.Evaluate(NetworkSample(assessment(85, types.TierVerySecure, types.AuthProtoWPA3)))

	active = e.Active()
	if len(active) != 1 {
		t.Fatalf("Active() after resolve = %d alerts, want the resolved entry", len(active))
	}
	if active[0].State != "resolved" || active[0].ResolvedAt == nil {
		t.Errorf("alert after resolve = %+v", active[0])
	}
}

func TestEvaluateCooldownSuppressesRefires(t *testing.T) {
	rules := []config.AlertRule{{
		Name:      "weak-network",
		Condition: "score < 40",
		Cooldown:  10 * time.Minute,
	}}
	e, now := testEngine(rules, nil)
	sample := NetworkSample(assessment(25, types.TierLow, types.AuthProtoWEP))

	e.Evaluate(sample)
	firstID := e.Active()[0].ID

	// Within cooldown: no new alert.
	*now = now.Add(5 * time.Minute)
	e.Evaluate(sample)
	if got := e.Active(); len(got) != 1 || got[0].ID != firstID {
		t.Fatalf("Active() within cooldown = %+v, want the original alert only", got)
	}

	// Past cooldown: re-fires.
	*now = now.Add(6 * time.Minute)
	e.Evaluate(sample)
	if got := e.Active(); len(got) != 1 || got[0].ID == firstID {
		t.Fatalf("Active() past cooldown = %+v, want a fresh alert", got)
	}
}

func TestEvaluateDefaultSeverity(t *testing.T) {
	rules := []config.AlertRule{{Name: "r", Condition: "score < 40"}}
	e, _ := testEngine(rules, nil)

	e.Evaluate(NetworkSample(assessment(10, types.TierInsecure, types.AuthProtoNone)))
	if got := e.Active()[0].Severity; got != "warning" {
		t.Errorf("Severity = %q, want warning default", got)
	}
}

func TestWebhookDelivery(t *testing.T) {
	var mu sync.Mutex
	var payloads []map[string]any
	received := make(chan struct{}, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		mu.Lock()
		payloads = append(payloads, body)
		mu.Unlock()
		received <- struct{}{}
	}))
	defer srv.Close()

	t.Setenv("TEST_ALERT_WEBHOOK", srv.URL)

	rules := []config.AlertRule{{
		Name:      "slow-link",
		Condition: "download_mbps < 10",
		Severity:  "critical",
		Cooldown:  time.Minute,
	}}
	webhooks := []config.WebhookConfig{{Type: "http", URLEnv: "TEST_ALERT_WEBHOOK"}}
	e, _ := testEngine(rules, webhooks)

	e.Evaluate(ReportSample(&types.SpeedTestReport{
		Status:     types.StatusSuccess,
		ServerName: "cloudflare",
		Download:   types.SpeedMetric{Value: 4.2, OK: true},
	}))

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(payloads) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(payloads))
	}
	alert, ok := payloads[0]["alert"].(map[string]any)
	if !ok {
		t.Fatalf("payload = %+v, want alert envelope", payloads[0])
	}
	if alert["rule_name"] != "slow-link" || alert["state"] != "firing" {
		t.Errorf("delivered alert = %+v", alert)
	}
}

func TestEvaluateNoRulesIsNoOp(t *testing.T) {
	e, _ := testEngine(nil, nil)
	e.Evaluate(NetworkSample(assessment(5, types.TierInsecure, types.AuthProtoNone)))
	if got := e.Active(); len(got) != 0 {
		t.Errorf("Active() = %+v, want empty", got)
	}
}
