package scan

import (
	"strings"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// NormalizeAuth maps a raw platform authentication string, e.g.
// "WPA2-Personal" or "WPA3-Enterprise", onto the typed protocol and mode
// enums. Unrecognized protocol tokens pass through lowercased so the scoring
// engine can flag the coercion instead of the mapping silently guessing.
func NormalizeAuth(raw string) (types.AuthProto, types.AuthMode) {
	s := strings.ToLower(strings.TrimSpace(raw))

	mode := types.AuthModePersonal
	if strings.Contains(s, "enterprise") || strings.Contains(s, "802.1x") {
		mode = types.AuthModeEnterprise
	}

	var proto types.AuthProto
	switch {
	case s == "" || strings.Contains(s, "open"):
		proto = types.AuthProtoNone
	case strings.Contains(s, "wpa3"):
		proto = types.AuthProtoWPA3
	case strings.Contains(s, "wpa2"):
		proto = types.AuthProtoWPA2
	case strings.Contains(s, "wpa"):
		proto = types.AuthProtoWPA
	case strings.Contains(s, "wep"):
		proto = types.AuthProtoWEP
	default:
		proto = types.AuthProto(s)
	}
	return proto, mode
}

// BandFromChannel derives the frequency band from a Wi-Fi channel number.
// Channels 1-14 are 2.4 GHz, anything higher is 5 GHz. Zero or negative
// channels yield an empty band, which scoring treats as 2.4 GHz-equivalent.
func BandFromChannel(channel int) types.Band {
	switch {
	case channel <= 0:
		return ""
	case channel <= 14:
		return types.Band24GHz
	default:
		return types.Band5GHz
	}
}
