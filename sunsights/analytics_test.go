package sunsights

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func analyticsHandler(t *testing.T, failPath string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/analytics/") {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("range"); got != "7d" {
			t.Errorf("range=%q, want 7d", got)
		}
		if r.URL.Path == failPath {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		switch r.URL.Path {
		case "/api/analytics/summary":
			_, _ = w.Write([]byte(`{"totalAnalyses": 41, "averageSentiment": 68.5, "responseRate": 92, "responseTime": 3.2}`))
		case "/api/analytics/activity":
			_, _ = w.Write([]byte(`[{"title":"Bulk Analysis","description":"12 comments analyzed","time":"2026-09-01 10:00:00","type":"bulk"}]`))
		default:
			_, _ = w.Write([]byte(`{"labels":["Mon","Tue"],"datasets":[{"label":"Sentiment","data":[60,70]}]}`))
		}
	})
}

func TestFetchSnapshot_JoinsAllEndpoints(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, analyticsHandler(t, ""), "")
	snap, err := c.FetchSnapshot(context.Background(), Range7d)
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if snap.Summary.TotalAnalyses != 41 {
		t.Fatalf("Summary=%+v", snap.Summary)
	}
	if len(snap.Sentiment.Labels) != 2 || len(snap.Sentiment.Datasets) != 1 {
		t.Fatalf("Sentiment=%+v", snap.Sentiment)
	}
	if len(snap.Activity) != 1 || snap.Activity[0].Type != "bulk" {
		t.Fatalf("Activity=%+v", snap.Activity)
	}
}

func TestFetchSnapshot_AnyFailureFailsCycle(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, analyticsHandler(t, "/api/analytics/emotions"), "")
	snap, err := c.FetchSnapshot(context.Background(), Range7d)
	if err == nil {
		t.Fatalf("want error when one endpoint fails")
	}
	if !strings.Contains(err.Error(), "/api/analytics/emotions") {
		t.Fatalf("err=%v, want the failing path named", err)
	}
	if len(snap.Sentiment.Labels) != 0 || snap.Summary.TotalAnalyses != 0 {
		t.Fatalf("partial snapshot leaked: %+v", snap)
	}
}

func TestFetchSnapshot_NilActivityBecomesEmpty(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/analytics/activity" {
			_, _ = w.Write([]byte(`null`))
			return
		}
		if r.URL.Path == "/api/analytics/summary" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"labels":[],"datasets":[]}`))
	})
	c := newTestClient(t, h, "")
	snap, err := c.FetchSnapshot(context.Background(), Range24h)
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if snap.Activity == nil {
		t.Fatalf("Activity is nil, want empty slice")
	}
}

func TestPoller_KeepsStaleSnapshotOnFailure(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"down"}`))
			return
		}
		analyticsHandler(t, "").ServeHTTP(w, r)
	})
	c := newTestClient(t, h, "")

	p := NewPoller(c, Range7d, time.Hour)
	ctx := context.Background()

	p.Refresh(ctx)
	snap, ok := p.Snapshot()
	if !ok || snap.Summary.TotalAnalyses != 41 {
		t.Fatalf("first cycle: ok=%v snap=%+v", ok, snap.Summary)
	}
	if p.Err() != nil {
		t.Fatalf("Err=%v after success", p.Err())
	}
	first := p.LastUpdated()
	if first.IsZero() {
		t.Fatalf("LastUpdated not set after success")
	}

	fail.Store(true)
	p.Refresh(ctx)
	snap, ok = p.Snapshot()
	if !ok || snap.Summary.TotalAnalyses != 41 {
		t.Fatalf("stale snapshot lost after failure: ok=%v snap=%+v", ok, snap.Summary)
	}
	if p.Err() == nil {
		t.Fatalf("Err=nil after failed cycle")
	}
	if !p.LastUpdated().Equal(first) {
		t.Fatalf("LastUpdated advanced on a failed cycle")
	}

	fail.Store(false)
	p.Refresh(ctx)
	if p.Err() != nil {
		t.Fatalf("Err=%v after recovery", p.Err())
	}
}

func TestPoller_SnapshotBeforeFirstSuccess(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, analyticsHandler(t, "/api/analytics/summary"), "")
	p := NewPoller(c, Range7d, time.Hour)
	p.Refresh(context.Background())

	snap, ok := p.Snapshot()
	if ok {
		t.Fatalf("ok=true before any successful cycle")
	}
	if snap.Activity == nil || snap.Sentiment.Labels == nil {
		t.Fatalf("empty snapshot has nil slices: %+v", snap)
	}
}

func TestPoller_StartStop(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, analyticsHandler(t, ""), "")
	p := NewPoller(c, Range7d, time.Hour)

	go p.Start(context.Background())

	deadline := time.After(5 * time.Second)
	for {
		if _, ok := p.Snapshot(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("no snapshot after Start")
		case <-time.After(10 * time.Millisecond):
		}
	}

	p.Stop()
	p.Stop() // idempotent
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("poll loop did not exit after Stop")
	}
}

func TestPoller_UpdatesSignalPerCycle(t *testing.T) {
	t.Parallel()

	okClient := newTestClient(t, analyticsHandler(t, ""), "")
	p := NewPoller(okClient, Range7d, time.Hour)

	go p.Start(context.Background())
	select {
	case <-p.Updates():
	case <-time.After(5 * time.Second):
		t.Fatalf("no update signal after Start")
	}
	if _, ok := p.Snapshot(); !ok {
		t.Fatalf("snapshot not ready when the update fired")
	}
	p.Stop()
	<-p.Done()

	// Failed cycles signal too, so a consumer can surface the error.
	badClient := newTestClient(t, analyticsHandler(t, "/api/analytics/summary"), "")
	pb := NewPoller(badClient, Range7d, time.Hour)
	pb.Refresh(context.Background())
	select {
	case <-pb.Updates():
	case <-time.After(5 * time.Second):
		t.Fatalf("no update signal for a failed cycle")
	}
	if pb.Err() == nil {
		t.Fatalf("Err=nil after failed cycle")
	}
}

func TestPoller_SetRangeRefreshes(t *testing.T) {
	t.Parallel()

	var lastRange atomic.Value
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastRange.Store(r.URL.Query().Get("range"))
		if r.URL.Path == "/api/analytics/activity" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		if r.URL.Path == "/api/analytics/summary" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"labels":[],"datasets":[]}`))
	})
	c := newTestClient(t, h, "")

	p := NewPoller(c, Range7d, time.Hour)
	p.SetRange(context.Background(), Range30d)

	if got := lastRange.Load(); got != Range30d {
		t.Fatalf("range=%v, want %s", got, Range30d)
	}
	if _, ok := p.Snapshot(); !ok {
		t.Fatalf("SetRange did not refresh")
	}
}
