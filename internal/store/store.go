package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

// Entry is an assessment together with the time it was last refreshed.
type Entry struct {
	Record    types.AssessmentRecord
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory state store. Assessments are keyed by
// BSSID; a background goroutine (Run) periodically evicts entries for access
// points that have not been seen within the configured TTL. Speed reports
// are kept in a bounded ring, newest last.
type Store struct {
	mu         sync.RWMutex
	data       map[string]*Entry
	reports    []*types.SpeedTestReport
	maxReports int
	ttl        time.Duration
	now        func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given assessment TTL and report history cap.
func New(ttl time.Duration, maxReports int) *Store {
	if maxReports <= 0 {
		maxReports = 50
	}
	return &Store{
		data:       make(map[string]*Entry),
		maxReports: maxReports,
		ttl:        ttl,
		now:        time.Now,
	}
}

// PutAssessment stores or replaces the assessment for the record's access
// point. Hidden networks without a BSSID fall back to the SSID as key.
func (s *Store) PutAssessment(rec types.AssessmentRecord) {
	key := rec.Network.BSSID
	if key == "" {
		key = rec.Network.SSID
	}
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = &Entry{
		Record:    rec,
		UpdatedAt: s.now(),
	}
}

// GetAssessment returns the entry for the given BSSID and whether one was
// found. The entry may be stale if TTL has elapsed.
func (s *Store) GetAssessment(bssid string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[bssid]
	return e, ok
}

// ListAssessments returns all entries whose UpdatedAt is within the TTL,
// ordered by SSID then BSSID so output is stable. Stale entries that have
// not yet been evicted are excluded.
func (s *Store) ListAssessments() []types.AssessmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-s.ttl)
	out := make([]types.AssessmentRecord, 0, len(s.data))
	for _, e := range s.data {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e.Record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Network.SSID != out[j].Network.SSID {
			return out[i].Network.SSID < out[j].Network.SSID
		}
		return out[i].Network.BSSID < out[j].Network.BSSID
	})
	return out
}

// Count returns the number of assessment entries held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// AddReport appends a speed-test report, dropping the oldest once the
// history cap is reached.
func (s *Store) AddReport(rep *types.SpeedTestReport) {
	if rep == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, rep)
	if len(s.reports) > s.maxReports {
		s.reports = s.reports[len(s.reports)-s.maxReports:]
	}
}

// Reports returns up to limit reports, newest first. A non-positive limit
// returns the full history.
func (s *Store) Reports(limit int) []*types.SpeedTestReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.reports)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*types.SpeedTestReport, 0, n)
	for i := len(s.reports) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.reports[i])
	}
	return out
}

// LatestReport returns the most recent speed-test report, if any.
func (s *Store) LatestReport() (*types.SpeedTestReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.reports) == 0 {
		return nil, false
	}
	return s.reports[len(s.reports)-1], true
}

// Evict removes assessment entries whose UpdatedAt is older than now minus
// TTL. It returns the number of entries removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for key, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// interval (minimum 1 second) so vanished access points drop out promptly.
// Run blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted stale assessments", "count", n)
			}
		}
	}
}
