package secscore

import (
	"testing"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

func attrs(proto types.AuthProto, mode types.AuthMode, band types.Band, signal int) types.NetworkAttributes {
	return types.NetworkAttributes{Proto: proto, Mode: mode, Band: band, Signal: signal}
}

func TestAssess_KnownCombinations(t *testing.T) {
	tests := []struct {
		name      string
		in        types.NetworkAttributes
		wantScore int
		wantTier  types.RiskTier
		wantColor string
	}{
		{
			name: "wpa2 personal 2.4GHz mid signal",
			// 30 + 0 + 0 + round(50/100*30)=15 → 45
			in:        attrs(types.AuthProtoWPA2, types.AuthModePersonal, types.Band24GHz, 50),
			wantScore: 45,
			wantTier:  types.TierModerate,
			wantColor: ColorModerate,
		},
		{
			name: "wpa3 enterprise 5GHz full signal — top of scale",
			// 40 + 20 + 10 + 30 = 100
			in:        attrs(types.AuthProtoWPA3, types.AuthModeEnterprise, types.Band5GHz, 100),
			wantScore: 100,
			wantTier:  types.TierVerySecure,
			wantColor: ColorVerySecure,
		},
		{
			name:      "open personal 2.4GHz no signal — bottom of scale",
			in:        attrs(types.AuthProtoNone, types.AuthModePersonal, types.Band24GHz, 0),
			wantScore: 0,
			wantTier:  types.TierInsecure,
			wantColor: ColorInsecure,
		},
		{
			name: "wep weak signal",
			// 10 + 0 + 0 + round(20/100*30)=6 → 16
			in:        attrs(types.AuthProtoWEP, types.AuthModePersonal, types.Band24GHz, 20),
			wantScore: 16,
			wantTier:  types.TierInsecure,
			wantColor: ColorInsecure,
		},
		{
			name: "wpa 5GHz strong signal",
			// 20 + 0 + 10 + round(90/100*30)=27 → 57
			in:        attrs(types.AuthProtoWPA, types.AuthModePersonal, types.Band5GHz, 90),
			wantScore: 57,
			wantTier:  types.TierModerate,
			wantColor: ColorModerate,
		},
		{
			name: "wpa2 enterprise — tier boundary 60 is secure",
			// 30 + 20 + 10 + 0 = 60
			in:        attrs(types.AuthProtoWPA2, types.AuthModeEnterprise, types.Band5GHz, 0),
			wantScore: 60,
			wantTier:  types.TierSecure,
			wantColor: ColorSecure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Assess(tc.in)
			if got.Score != tc.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tc.wantScore)
			}
			if got.Tier != tc.wantTier {
				t.Errorf("Tier = %q, want %q", got.Tier, tc.wantTier)
			}
			if got.Color != tc.wantColor {
				t.Errorf("Color = %q, want %q", got.Color, tc.wantColor)
			}
			if got.Coerced {
				t.Error("Coerced = true for fully valid attributes")
			}
		})
	}
}

func TestAssess_Deterministic(t *testing.T) {
	in := attrs(types.AuthProtoWPA2, types.AuthModeEnterprise, types.Band5GHz, 73)
	first := Assess(in)
	for i := 0; i < 10; i++ {
		if got := Assess(in); got != first {
			t.Fatalf("call %d: %+v != first %+v", i, got, first)
		}
	}
}

func TestAssess_FailSafeCoercion(t *testing.T) {
	t.Run("unknown protocol scores as open and is flagged", func(t *testing.T) {
		// 0 + 20 + 10 + round(80/100*30)=24 → 54
		got := Assess(attrs("wpa4-draft", types.AuthModeEnterprise, types.Band5GHz, 80))
		if got.Score != 54 {
			t.Errorf("Score = %d, want 54", got.Score)
		}
		if got.Tier != types.TierModerate {
			t.Errorf("Tier = %q, want %q", got.Tier, types.TierModerate)
		}
		if !got.Coerced {
			t.Error("Coerced = false, want true for unknown protocol")
		}
	})

	t.Run("missing protocol scores as open without flag", func(t *testing.T) {
		got := Assess(attrs("", "", "", 0))
		if got.Score != 0 {
			t.Errorf("Score = %d, want 0", got.Score)
		}
		if got.Coerced {
			t.Error("Coerced = true for merely-missing fields")
		}
	})

	t.Run("unknown mode contributes nothing and is flagged", func(t *testing.T) {
		got := Assess(attrs(types.AuthProtoWPA2, "managed", types.Band24GHz, 0))
		if got.Score != 30 {
			t.Errorf("Score = %d, want 30", got.Score)
		}
		if !got.Coerced {
			t.Error("Coerced = false, want true for unknown mode")
		}
	})

	t.Run("unknown band treated as 2.4GHz-equivalent", func(t *testing.T) {
		got := Assess(attrs(types.AuthProtoWPA2, types.AuthModePersonal, "6 GHz", 0))
		if got.Score != 30 {
			t.Errorf("Score = %d, want 30", got.Score)
		}
	})
}

func TestAssess_SignalContribution(t *testing.T) {
	t.Run("monotonically non-decreasing in signal", func(t *testing.T) {
		prev := -1
		for signal := 0; signal <= 100; signal++ {
			got := Assess(attrs(types.AuthProtoNone, types.AuthModePersonal, types.Band24GHz, signal))
			if got.Score < prev {
				t.Fatalf("score decreased: signal=%d score=%d prev=%d", signal, got.Score, prev)
			}
			prev = got.Score
		}
	})

	t.Run("out-of-range signal is clamped", func(t *testing.T) {
		over := Assess(attrs(types.AuthProtoWPA3, types.AuthModeEnterprise, types.Band5GHz, 250))
		if over.Score != 100 {
			t.Errorf("signal=250: Score = %d, want 100", over.Score)
		}
		under := Assess(attrs(types.AuthProtoNone, "", "", -10))
		if under.Score != 0 {
			t.Errorf("signal=-10: Score = %d, want 0", under.Score)
		}
	})
}

func TestAssess_ScoreAlwaysInRange(t *testing.T) {
	protos := []types.AuthProto{"", types.AuthProtoNone, types.AuthProtoWEP, types.AuthProtoWPA, types.AuthProtoWPA2, types.AuthProtoWPA3, "bogus"}
	modes := []types.AuthMode{"", types.AuthModePersonal, types.AuthModeEnterprise, "bogus"}
	bands := []types.Band{"", types.Band24GHz, types.Band5GHz, "60 GHz"}
	signals := []int{-50, 0, 33, 100, 900}

	for _, p := range protos {
		for _, m := range modes {
			for _, b := range bands {
				for _, s := range signals {
					got := Assess(attrs(p, m, b, s))
					if got.Score < 0 || got.Score > 100 {
						t.Fatalf("score %d out of [0,100] for %v/%v/%v/%d", got.Score, p, m, b, s)
					}
				}
			}
		}
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		score int
		want  types.RiskTier
	}{
		{0, types.TierInsecure},
		{19, types.TierInsecure},
		{20, types.TierLow},
		{39, types.TierLow},
		{40, types.TierModerate},
		{59, types.TierModerate},
		{60, types.TierSecure},
		{79, types.TierSecure},
		{80, types.TierVerySecure},
		{100, types.TierVerySecure},
	}
	for _, tc := range tests {
		tier, _ := p.tierFor(tc.score)
		if tier != tc.want {
			t.Errorf("tierFor(%d) = %q, want %q", tc.score, tier, tc.want)
		}
	}
}
