package pipeline

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
	bytes     int
}

// StatsSnapshot is a point-in-time aggregate of render samples.
// Durations are milliseconds with sub-millisecond precision.
type StatsSnapshot struct {
	Count      int     `json:"count"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
	TotalBytes int64   `json:"total_bytes"`
}

// RenderStats tracks recent render latencies within a rolling window.
type RenderStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewRenderStats(maxAge time.Duration) *RenderStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &RenderStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one render of the given duration and output size.
func (s *RenderStats) Record(d time.Duration, outputBytes int) {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp: now,
		duration:  d,
		bytes:     outputBytes,
	})
}

func (s *RenderStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]time.Duration, 0, len(s.samples))
	var sum time.Duration
	var total int64
	for _, sm := range s.samples {
		values = append(values, sm.duration)
		sum += sm.duration
		total += int64(sm.bytes)
	}
	slices.Sort(values)

	return StatsSnapshot{
		Count:      len(values),
		MinMs:      ms(values[0]),
		MaxMs:      ms(values[len(values)-1]),
		AvgMs:      ms(sum) / float64(len(values)),
		P50Ms:      percentile(values, 50),
		P95Ms:      percentile(values, 95),
		P99Ms:      percentile(values, 99),
		TotalBytes: total,
	}
}

func (s *RenderStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []time.Duration, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return ms(sorted[0])
	}
	if pct >= 100 {
		return ms(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return ms(sorted[lower])
	}
	weight := index - float64(lower)
	lo := ms(sorted[lower])
	hi := ms(sorted[upper])
	return lo + ((hi - lo) * weight)
}
