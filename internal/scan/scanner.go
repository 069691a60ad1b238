package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Scanner shells out to the platform Wi-Fi tooling and caches the parsed
// result so back-to-back callers do not hammer the radio. The command
// runner is injectable for tests.
type Scanner struct {
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
	now    func() time.Time
	ttl    time.Duration

	mu       sync.Mutex
	cached   []types.ScannedNetwork
	cachedAt time.Time
}

// NewScanner creates a Scanner whose cache is valid for cacheTTL.
func NewScanner(cacheTTL time.Duration) *Scanner {
	return &Scanner{
		runner: runCommand,
		now:    time.Now,
		ttl:    cacheTTL,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Scan returns the current set of visible networks. Cached results are
// served while fresh unless force is set. A failed refresh never poisons
// the cache; the previous snapshot stays available to later calls.
func (s *Scanner) Scan(ctx context.Context, force bool) ([]types.ScannedNetwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && s.cached != nil && s.now().Sub(s.cachedAt) <= s.ttl {
		return s.cached, nil
	}

	// Kick off a fresh radio sweep. Best effort: some drivers reject the
	// command while a sweep is in progress, and stale enumeration output is
	// still usable.
	trigCtx, cancel := context.WithTimeout(ctx, time.Second)
	if _, err := s.runner(trigCtx, "netsh", "wlan", "scan"); err != nil {
		slog.Debug("scan: sweep trigger failed", "err", err)
	}
	cancel()

	out, err := s.runner(ctx, "netsh", "wlan", "show", "networks", "mode=Bssid")
	if err != nil {
		return nil, fmt.Errorf("scan: enumerate networks: %w", err)
	}

	nets := ParseNetshOutput(string(out))
	s.cached = nets
	s.cachedAt = s.now()
	slog.Debug("scan: refreshed", "networks", len(nets))
	return nets, nil
}
