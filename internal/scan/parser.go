package scan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Matches the block header. Hidden networks leave the value empty, so the
// trailing capture must tolerate a bare "SSID 2 :" line.
var ssidLine = regexp.MustCompile(`^SSID \d+\s*:\s*(.*)$`)

// ParseNetshOutput parses the text emitted by
// `netsh wlan show networks mode=Bssid` into typed network records. The
// parser is tolerant: unparseable field lines are skipped, and a network
// with an empty SSID is kept only when the output marks it hidden. When an
// access point reports multiple BSSID blocks, the last one wins.
func ParseNetshOutput(output string) []types.ScannedNetwork {
	var nets []types.ScannedNetwork
	var cur *types.ScannedNetwork

	flush := func() {
		if cur == nil {
			return
		}
		cur.Attrs.Proto, cur.Attrs.Mode = NormalizeAuth(cur.RawAuth)
		cur.Attrs.Band = BandFromChannel(cur.Channel)
		if cur.SSID != "" || cur.Hidden {
			nets = append(nets, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)

		if m := ssidLine.FindStringSubmatch(line); m != nil {
			flush()
			cur = &types.ScannedNetwork{SSID: strings.TrimSpace(m[1])}
			if cur.SSID == "" {
				cur.Hidden = true
			}
			continue
		}
		if cur == nil {
			continue
		}

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch {
		case strings.HasPrefix(key, "BSSID"):
			cur.BSSID = strings.ToLower(val)
		case key == "Authentication":
			cur.RawAuth = val
		case key == "Signal":
			if n, err := strconv.Atoi(strings.TrimSuffix(val, "%")); err == nil {
				cur.Attrs.Signal = n
			}
		case key == "Channel":
			if n, err := strconv.Atoi(val); err == nil {
				cur.Channel = n
			}
		}
	}
	flush()
	return nets
}
