package pipeline

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRenderStatsSnapshotPercentiles(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	for _, d := range []time.Duration{100, 200, 300, 400, 500} {
		stats.Record(d*time.Millisecond, 10)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %f", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %f", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if !approx(snap.P95Ms, 480) {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if !approx(snap.P99Ms, 496) {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.TotalBytes != 50 {
		t.Fatalf("expected 50 total bytes, got %d", snap.TotalBytes)
	}
}

func TestRenderStatsSubMillisecond(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	stats.Record(250*time.Microsecond, 1)
	if snap := stats.Snapshot(); snap.MinMs != 0.25 {
		t.Fatalf("expected 0.25ms, got %f", snap.MinMs)
	}
}

func TestRenderStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewRenderStats(10 * time.Minute)
	now := time.Now()
	stats.now = func() time.Time { return now }

	stats.Record(100*time.Millisecond, 1)
	now = now.Add(15 * time.Minute)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Millisecond, 1)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}

func TestRenderStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	stats.Record(-10, 0)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}
