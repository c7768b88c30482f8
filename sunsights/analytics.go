package sunsights

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// DefaultPollInterval is how often a mounted dashboard refreshes itself.
const DefaultPollInterval = 60 * time.Second

// Known time ranges. Unknown values are passed through; the server defaults
// them to 7d.
const (
	Range24h = "24h"
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
)

// FetchSnapshot produces one coherent snapshot for a time range from the
// five analytics endpoints, fetched concurrently. The join is
// all-or-nothing: if any sub-request fails, the whole cycle fails and no
// partial snapshot is returned.
func (c *Client) FetchSnapshot(ctx context.Context, timeRange string) (AnalyticsSnapshot, error) {
	query := url.Values{"range": []string{timeRange}}

	var snap AnalyticsSnapshot
	fetches := []struct {
		path string
		out  any
	}{
		{"/api/analytics/summary", &snap.Summary},
		{"/api/analytics/sentiment", &snap.Sentiment},
		{"/api/analytics/emotions", &snap.Emotions},
		{"/api/analytics/priority", &snap.Priority},
		{"/api/analytics/activity", &snap.Activity},
	}

	errCh := make(chan error, len(fetches))
	wg := sync.WaitGroup{}
	for _, f := range fetches {
		wg.Add(1)
		go func(path string, out any) {
			defer wg.Done()
			if err := c.getJSON(ctx, path, query, out); err != nil {
				errCh <- fmt.Errorf("fetch %s: %w", path, err)
			}
		}(f.path, f.out)
	}
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return AnalyticsSnapshot{}, err
	}
	if snap.Activity == nil {
		snap.Activity = []ActivityEvent{}
	}
	return snap, nil
}

// Poller keeps an AnalyticsSnapshot fresh for a consuming view: it refreshes
// on Start, on a fixed tick, on manual Refresh, and on a time-range change.
// A failed cycle sets Err and keeps the previously displayed snapshot
// (stale-but-available beats a blank screen). Concurrent triggers are not
// fenced: the last response to resolve wins.
type Poller struct {
	client   *Client
	interval time.Duration

	mu          sync.Mutex
	timeRange   string
	snapshot    AnalyticsSnapshot
	hasSnapshot bool
	err         error
	lastUpdated time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	updates  chan struct{}
}

// NewPoller polls timeRange every interval; interval <= 0 uses
// DefaultPollInterval.
func NewPoller(client *Client, timeRange string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:    client,
		interval:  interval,
		timeRange: timeRange,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		updates:   make(chan struct{}, 1),
	}
}

// Start performs an immediate refresh and then ticks until Stop or ctx
// cancellation. It blocks; run it in its own goroutine.
func (p *Poller) Start(ctx context.Context) {
	defer close(p.done)

	p.Refresh(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Refresh(ctx)
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the periodic poll. It must be called when the consuming view
// unmounts so no state updates happen after disposal. Safe to call more
// than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Done is closed once the poll loop has exited.
func (p *Poller) Done() <-chan struct{} { return p.done }

// Updates signals after each completed cycle, success or failure. The channel
// has a buffer of one; a slow consumer observes coalesced signals, never a
// blocked poll loop.
func (p *Poller) Updates() <-chan struct{} { return p.updates }

// Refresh runs one aggregation cycle now. On success the snapshot is
// replaced wholesale; on failure the previous snapshot (if any) is left
// untouched and only the error state changes.
func (p *Poller) Refresh(ctx context.Context) {
	p.mu.Lock()
	rng := p.timeRange
	p.mu.Unlock()

	snap, err := p.client.FetchSnapshot(ctx, rng)

	p.mu.Lock()
	if err != nil {
		p.err = err
	} else {
		p.snapshot = snap
		p.hasSnapshot = true
		p.err = nil
		p.lastUpdated = time.Now()
	}
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// SetRange changes the selected time range and refreshes immediately.
func (p *Poller) SetRange(ctx context.Context, timeRange string) {
	p.mu.Lock()
	p.timeRange = timeRange
	p.mu.Unlock()
	p.Refresh(ctx)
}

// Snapshot returns the current view model. Before any cycle has succeeded
// it returns the zeroed empty shape, so callers can render without
// nil-checks; ok reports whether real data has ever arrived.
func (p *Poller) Snapshot() (snap AnalyticsSnapshot, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasSnapshot {
		return EmptySnapshot(), false
	}
	return p.snapshot, true
}

// Err returns the error from the most recent cycle, nil after a success.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// LastUpdated is the wall time of the last successful cycle.
func (p *Poller) LastUpdated() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUpdated
}
