package club

import (
	"strconv"
	"sync"
	"time"
)

// IDSequence hands out time-derived club identifiers of the form "c<unixnano>".
// Successive IDs strictly increase even when the clock repeats or steps back,
// so CompareRecency orders clubs by creation.
type IDSequence struct {
	mu   sync.Mutex
	last int64
}

// Next returns an identifier derived from now.
// POST: the numeric suffix is greater than every previously returned one
func (s *IDSequence) Next(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := now.UnixNano()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return "c" + strconv.FormatInt(n, 10)
}
