package secscore

import (
	"testing"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

func scanned(ssid string, proto types.AuthProto, mode types.AuthMode, band types.Band, signal int) types.ScannedNetwork {
	return types.ScannedNetwork{
		SSID:  ssid,
		BSSID: "aa:bb:cc:dd:ee:" + ssid[:2],
		Attrs: types.NetworkAttributes{Proto: proto, Mode: mode, Band: band, Signal: signal},
	}
}

func testAuditor() *Auditor {
	a := NewAuditor(DefaultPolicy())
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestAudit_EmptyScan(t *testing.T) {
	rep := testAuditor().Audit(nil)

	if rep.TotalNetworks != 0 {
		t.Errorf("TotalNetworks = %d, want 0", rep.TotalNetworks)
	}
	if rep.EnvRisk != EnvUnknownRisk {
		t.Errorf("EnvRisk = %q, want %q", rep.EnvRisk, EnvUnknownRisk)
	}
	if rep.EnvScore != 0 {
		t.Errorf("EnvScore = %v, want 0", rep.EnvScore)
	}
	if len(rep.Recs) != 0 || len(rep.Details) != 0 {
		t.Errorf("expected no recommendations or details, got %d / %d", len(rep.Recs), len(rep.Details))
	}
}

func TestAudit_Buckets(t *testing.T) {
	networks := []types.ScannedNetwork{
		scanned("coffee-shop", types.AuthProtoNone, types.AuthModePersonal, types.Band24GHz, 40), // 12 → high risk
		scanned("legacy-ap", types.AuthProtoWEP, types.AuthModePersonal, types.Band24GHz, 80),    // 34 → weak
		scanned("office", types.AuthProtoWPA2, types.AuthModeEnterprise, types.Band5GHz, 70),     // 81 → strong
	}

	rep := testAuditor().Audit(networks)

	if len(rep.HighRisk) != 1 || rep.HighRisk[0].SSID != "coffee-shop" {
		t.Errorf("HighRisk = %+v, want one entry for coffee-shop", rep.HighRisk)
	}
	if len(rep.WeakSecurity) != 1 || rep.WeakSecurity[0].SSID != "legacy-ap" {
		t.Errorf("WeakSecurity = %+v, want one entry for legacy-ap", rep.WeakSecurity)
	}
	if len(rep.Strong) != 1 || rep.Strong[0].SSID != "office" {
		t.Errorf("Strong = %+v, want one entry for office", rep.Strong)
	}

	// Details sorted least-secure-first.
	if rep.Details[0].SSID != "coffee-shop" || rep.Details[2].SSID != "office" {
		t.Errorf("Details order = [%s %s %s], want worst first",
			rep.Details[0].SSID, rep.Details[1].SSID, rep.Details[2].SSID)
	}

	// Average of 12, 34, 81 → 42.3, elevated-risk band.
	if rep.EnvScore != 42.3 {
		t.Errorf("EnvScore = %v, want 42.3", rep.EnvScore)
	}
	if rep.EnvRisk != EnvElevatedRisk {
		t.Errorf("EnvRisk = %q, want %q", rep.EnvRisk, EnvElevatedRisk)
	}
}

func TestAudit_Distribution(t *testing.T) {
	networks := []types.ScannedNetwork{
		scanned("open-net", types.AuthProtoNone, types.AuthModePersonal, types.Band24GHz, 10),
		scanned("wpa2-a", types.AuthProtoWPA2, types.AuthModePersonal, types.Band24GHz, 50),
		scanned("wpa2-b", types.AuthProtoWPA2, types.AuthModeEnterprise, types.Band5GHz, 50),
		scanned("wpa3-x", types.AuthProtoWPA3, types.AuthModeEnterprise, types.Band5GHz, 50),
	}

	rep := testAuditor().Audit(networks)

	want := map[string]int{"open": 1, "wep": 0, "wpa": 0, "wpa2": 2, "wpa3": 1, "enterprise": 2}
	for k, v := range want {
		if rep.Distribution[k] != v {
			t.Errorf("Distribution[%q] = %d, want %d", k, rep.Distribution[k], v)
		}
	}
}

func TestAudit_Recommendations(t *testing.T) {
	t.Run("open and wep networks raise high-priority items", func(t *testing.T) {
		rep := testAuditor().Audit([]types.ScannedNetwork{
			scanned("open-net", types.AuthProtoNone, types.AuthModePersonal, types.Band24GHz, 10),
			scanned("wep-net", types.AuthProtoWEP, types.AuthModePersonal, types.Band24GHz, 10),
		})

		var issues []string
		for _, r := range rep.Recs {
			issues = append(issues, r.Issue)
		}
		wantIssues := []string{"Open Networks Detected", "Obsolete WEP Security", "Personal Networks"}
		if len(issues) != len(wantIssues) {
			t.Fatalf("got %d recommendations %v, want %d", len(issues), issues, len(wantIssues))
		}
		for i, want := range wantIssues {
			if issues[i] != want {
				t.Errorf("Recs[%d].Issue = %q, want %q", i, issues[i], want)
			}
		}
	})

	t.Run("all-enterprise scan has no personal-network item", func(t *testing.T) {
		rep := testAuditor().Audit([]types.ScannedNetwork{
			scanned("corp-a", types.AuthProtoWPA3, types.AuthModeEnterprise, types.Band5GHz, 90),
		})
		for _, r := range rep.Recs {
			if r.Issue == "Personal Networks" {
				t.Error("unexpected Personal Networks recommendation for all-enterprise scan")
			}
		}
	})
}

func TestAudit_AdviceAttachment(t *testing.T) {
	rep := testAuditor().Audit([]types.ScannedNetwork{
		scanned("open-net", types.AuthProtoNone, types.AuthModePersonal, types.Band24GHz, 10),
		scanned("modern", types.AuthProtoWPA3, types.AuthModePersonal, types.Band5GHz, 60),
	})

	for _, d := range rep.Details {
		switch d.SSID {
		case "open-net":
			if d.Advice == nil || d.Advice.Level != "High Risk" {
				t.Errorf("open-net advice = %+v, want high-risk advice", d.Advice)
			}
		case "modern":
			if d.Advice != nil {
				t.Errorf("modern advice = %+v, want nil", d.Advice)
			}
			if len(d.Remedies) == 0 {
				t.Error("modern network should carry baseline recommendations")
			}
		}
	}
}
