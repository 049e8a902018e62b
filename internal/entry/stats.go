package entry

import (
	"slices"
	"sync"
	"time"
)

type eventKind uint8

const (
	attemptEvent eventKind = iota // one HTTP round trip, carries latency
	retryEvent                    // an attempt after the first
	failureEvent                  // the operation returned an error
)

type event struct {
	at      time.Time
	kind    eventKind
	latency time.Duration
}

// OperationStats summarizes one GraphQL operation over the stats window.
// Latency figures cover every attempt, retried ones included.
type OperationStats struct {
	Attempts int     `json:"attempts"`
	Retries  int     `json:"retries"`
	Failures int     `json:"failures"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// UpstreamStats keeps a rolling window of upstream activity, keyed by
// GraphQL operation name ("GetEntries", "GetEntry").
type UpstreamStats struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	ops    map[string][]event
}

func NewUpstreamStats(window time.Duration) *UpstreamStats {
	if window <= 0 {
		window = time.Hour
	}
	return &UpstreamStats{
		window: window,
		now:    time.Now,
		ops:    make(map[string][]event),
	}
}

// Attempt records one round trip for op.
func (s *UpstreamStats) Attempt(op string, latency time.Duration) {
	s.add(op, event{kind: attemptEvent, latency: max(latency, 0)})
}

// Retry records that op needed another attempt.
func (s *UpstreamStats) Retry(op string) {
	s.add(op, event{kind: retryEvent})
}

// Failure records that op gave up with an error.
func (s *UpstreamStats) Failure(op string) {
	s.add(op, event{kind: failureEvent})
}

func (s *UpstreamStats) add(op string, ev event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.at = s.now()
	s.ops[op] = append(prune(s.ops[op], ev.at.Add(-s.window)), ev)
}

// Snapshot returns per-operation figures for the current window. Operations
// with no activity in the window are omitted.
func (s *UpstreamStats) Snapshot() map[string]OperationStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.window)
	out := make(map[string]OperationStats, len(s.ops))
	for op, events := range s.ops {
		events = prune(events, cutoff)
		if len(events) == 0 {
			delete(s.ops, op)
			continue
		}
		s.ops[op] = events
		out[op] = summarize(events)
	}
	return out
}

// prune drops events older than cutoff. Events are stored in time order.
func prune(events []event, cutoff time.Time) []event {
	i := 0
	for i < len(events) && events[i].at.Before(cutoff) {
		i++
	}
	return events[i:]
}

func summarize(events []event) OperationStats {
	var st OperationStats
	var latencies []time.Duration
	var total time.Duration
	for _, ev := range events {
		switch ev.kind {
		case attemptEvent:
			st.Attempts++
			latencies = append(latencies, ev.latency)
			total += ev.latency
		case retryEvent:
			st.Retries++
		case failureEvent:
			st.Failures++
		}
	}
	if len(latencies) == 0 {
		return st
	}

	slices.Sort(latencies)
	st.MinMs = millis(latencies[0])
	st.MaxMs = millis(latencies[len(latencies)-1])
	st.AvgMs = millis(total) / float64(len(latencies))
	st.P50Ms = millis(nearestRank(latencies, 50))
	st.P95Ms = millis(nearestRank(latencies, 95))
	st.P99Ms = millis(nearestRank(latencies, 99))
	return st
}

// nearestRank returns the smallest sample with at least pct percent of the
// samples at or below it.
func nearestRank(sorted []time.Duration, pct int) time.Duration {
	rank := (pct*len(sorted) + 99) / 100
	return sorted[max(rank, 1)-1]
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
