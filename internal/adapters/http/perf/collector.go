// Package perf keeps a bounded window of request, query and copywriter
// timings and aggregates them on demand for GET /api/perf.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind says which layer produced an entry.
type EntryKind uint8

const (
	KindRequest EntryKind = iota // HTTP request, Path is "METHOD /path"
	KindQuery                    // SQL statement, Path is a label like "SELECT club"
	KindCopy                     // generative copy call, Path is the copy kind
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string
	StatusCode int // HTTP status; 0 outside requests
	Failed     bool
	DurationMs float64
	Timestamp  time.Time
}

// failed reports whether e counts against its path's error total.
func (e Entry) failed() bool {
	return e.Failed || e.StatusCode >= 500
}

// Collector is a fixed-size ring buffer of entries. Record never blocks on
// aggregation; when full the oldest entry is overwritten.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding the last size entries.
// A non-positive size falls back to DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when full.
// Safe for concurrent use.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregated view served by the perf endpoint.
type Snapshot struct {
	TotalRecorded  int64
	Requests       int
	ServerErrors   int
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []PathStat
	SlowestQueries []PathStat
	Copy           []PathStat
}

// PathStat aggregates one request path, query label or copy kind.
type PathStat struct {
	Path    string
	Count   int
	Errors  int
	AvgMs   float64
	MaxMs   float64
	TotalMs float64
}

type statSet map[string]*PathStat

func (s statSet) add(e Entry) {
	st, ok := s[e.Path]
	if !ok {
		st = &PathStat{Path: e.Path}
		s[e.Path] = st
	}
	st.Count++
	st.TotalMs += e.DurationMs
	st.MaxMs = max(st.MaxMs, e.DurationMs)
	if e.failed() {
		st.Errors++
	}
}

// top returns the n slowest entries by average, ties broken by path.
func (s statSet) top(n int) []PathStat {
	list := make([]PathStat, 0, len(s))
	for _, st := range s {
		st.AvgMs = st.TotalMs / float64(st.Count)
		list = append(list, *st)
	}
	slices.SortFunc(list, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// Snapshot aggregates entries recorded at or after since, keeping the topN
// slowest request paths and query labels. Copy stats are not truncated.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	var durations []float64
	requests, queries, copies := statSet{}, statSet{}, statSet{}
	snap := Snapshot{TotalRecorded: c.TotalRecorded()}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			durations = append(durations, e.DurationMs)
			requests.add(e)
			snap.Requests++
			if e.failed() {
				snap.ServerErrors++
			}
		case KindQuery:
			queries.add(e)
		case KindCopy:
			copies.add(e)
		}
	}

	snap.SlowestPaths = requests.top(topN)
	snap.SlowestQueries = queries.top(topN)
	snap.Copy = copies.top(len(copies))

	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower, upper := int(math.Floor(idx)), int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
