package speedtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const transferChunkSize = 64 << 10

// TransferResult is the raw outcome of one throughput attempt.
type TransferResult struct {
	Bytes   int64
	Elapsed time.Duration
}

// Mbps converts the transfer to decimal megabits per second
// (1 Mbps = 1,000,000 bits/s, matching ISP convention).
func (t TransferResult) Mbps() float64 {
	secs := t.Elapsed.Seconds()
	if secs <= 0 || t.Bytes <= 0 {
		return 0
	}
	return float64(t.Bytes) * 8 / secs / 1e6
}

// Prober is the engine's only window onto the network. The production
// implementation is HTTPProber; tests substitute fakes so the state machine
// runs deterministically.
type Prober interface {
	// Probe issues a lightweight reachability check against srv.
	Probe(ctx context.Context, srv Server) error

	// Ping measures one round-trip to srv.
	Ping(ctx context.Context, srv Server) (time.Duration, error)

	// Download transfers size bytes from srv and reports bytes/elapsed.
	Download(ctx context.Context, srv Server, size int64) (TransferResult, error)

	// Upload sends payload to srv and reports bytes/elapsed.
	Upload(ctx context.Context, srv Server, payload []byte) (TransferResult, error)
}

// HTTPProber probes over TCP and transfers over HTTP. Latency samples are
// TCP connect round-trips, not ICMP, so no elevated privileges are needed.
type HTTPProber struct {
	dialer *net.Dialer
	client *http.Client
}

// NewHTTPProber builds a prober whose individual operations are bounded by
// the contexts the engine passes in; the client itself carries no timeout.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		dialer: &net.Dialer{},
		client: &http.Client{
			Transport: &http.Transport{
				DisableCompression: true,
				MaxIdleConns:       4,
			},
		},
	}
}

// Probe dials srv.Host once and discards the connection.
func (p *HTTPProber) Probe(ctx context.Context, srv Server) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", srv.Host)
	if err != nil {
		return fmt.Errorf("probe %s: %w", srv.Host, err)
	}
	return conn.Close()
}

// Ping measures the TCP connect time to srv.Host. Elapsed time comes from
// time.Since, which reads the monotonic clock.
func (p *HTTPProber) Ping(ctx context.Context, srv Server) (time.Duration, error) {
	start := time.Now()
	conn, err := p.dialer.DialContext(ctx, "tcp", srv.Host)
	if err != nil {
		return 0, fmt.Errorf("ping %s: %w", srv.Host, err)
	}
	rtt := time.Since(start)
	conn.Close()
	return rtt, nil
}

// Download GETs the size-parameterized payload URL and counts body bytes.
// Counting stops at EOF, at size bytes, or when ctx expires.
func (p *HTTPProber) Download(ctx context.Context, srv Server, size int64) (TransferResult, error) {
	url := fmt.Sprintf(srv.DownloadURL, size)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TransferResult{}, fmt.Errorf("download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return TransferResult{}, fmt.Errorf("download %s: %w", srv.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TransferResult{}, fmt.Errorf("download %s: unexpected status %d", srv.Name, resp.StatusCode)
	}

	var total int64
	buf := make([]byte, transferChunkSize)
	for total < size {
		n, rerr := resp.Body.Read(buf)
		total += int64(n)
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			// A partial transfer is still measurable if enough arrived;
			// the engine decides what counts as usable.
			if total > 0 {
				break
			}
			return TransferResult{}, fmt.Errorf("download %s: %w", srv.Name, rerr)
		}
	}

	return TransferResult{Bytes: total, Elapsed: time.Since(start)}, nil
}

// Upload POSTs payload as an octet stream and waits for the response.
func (p *HTTPProber) Upload(ctx context.Context, srv Server, payload []byte) (TransferResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.UploadURL, bytes.NewReader(payload))
	if err != nil {
		return TransferResult{}, fmt.Errorf("upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("User-Agent", userAgent)
	req.ContentLength = int64(len(payload))

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return TransferResult{}, fmt.Errorf("upload %s: %w", srv.Name, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return TransferResult{}, fmt.Errorf("upload %s: unexpected status %d", srv.Name, resp.StatusCode)
	}

	return TransferResult{Bytes: int64(len(payload)), Elapsed: time.Since(start)}, nil
}

const userAgent = "wifi-threat-assessor-speedtest/1.0"
