package app

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastTTL is how long a toast stays up without being dismissed.
const ToastTTL = 4 * time.Second

// Toast severities.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a transient banner.
type Toast struct {
	ID      string
	Kind    string
	Message string
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type toastEntry struct {
	toast Toast
	gen   uint64
	timer Timer
}

// ToastQueue holds the visible toasts in insertion order. Each toast removes
// itself after ToastTTL unless dismissed first. Safe for concurrent use.
// INVARIANT: no two entries share an ID
type ToastQueue struct {
	sched    Scheduler
	ttl      time.Duration
	onChange func([]Toast)

	mu      sync.Mutex
	entries []toastEntry
	gen     uint64
}

// NewToastQueue returns a queue using sched, or real timers when sched is nil.
// onChange, if set, receives a snapshot after every change.
func NewToastQueue(sched Scheduler, onChange func([]Toast)) *ToastQueue {
	if sched == nil {
		sched = realScheduler{}
	}
	return &ToastQueue{sched: sched, ttl: ToastTTL, onChange: onChange}
}

// Add shows a new toast and returns its ID.
func (q *ToastQueue) Add(kind, message string) string {
	id := uuid.NewString()
	q.Push(Toast{ID: id, Kind: kind, Message: message})
	return id
}

// Push shows t. A toast already showing with the same ID is replaced in place
// and its expiry restarts.
func (q *ToastQueue) Push(t Toast) {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	e := toastEntry{toast: t, gen: gen}
	i := q.index(t.ID)
	if i >= 0 {
		if q.entries[i].timer != nil {
			q.entries[i].timer.Stop()
		}
		q.entries[i] = e
	} else {
		q.entries = append(q.entries, e)
		i = len(q.entries) - 1
	}
	// Arm under the lock so the entry holds its timer before it can fire.
	q.entries[i].timer = q.sched.AfterFunc(q.ttl, func() { q.expire(t.ID, gen) })
	snap := q.snapshot()
	q.mu.Unlock()

	q.notify(snap)
}

// Remove dismisses id. Removing an ID that is not showing does nothing.
func (q *ToastQueue) Remove(id string) {
	q.mu.Lock()
	i := q.index(id)
	if i < 0 {
		q.mu.Unlock()
		return
	}
	if q.entries[i].timer != nil {
		q.entries[i].timer.Stop()
	}
	q.entries = slices.Delete(q.entries, i, i+1)
	snap := q.snapshot()
	q.mu.Unlock()

	q.notify(snap)
}

// expire removes id only if it is still the entry that scheduled the call.
func (q *ToastQueue) expire(id string, gen uint64) {
	q.mu.Lock()
	i := q.index(id)
	if i < 0 || q.entries[i].gen != gen {
		q.mu.Unlock()
		return
	}
	q.entries = slices.Delete(q.entries, i, i+1)
	snap := q.snapshot()
	q.mu.Unlock()

	q.notify(snap)
}

// List returns the visible toasts, oldest first.
func (q *ToastQueue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

// Close cancels every pending expiry and empties the queue.
func (q *ToastQueue) Close() {
	q.mu.Lock()
	for _, e := range q.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	q.entries = nil
	q.mu.Unlock()
}

func (q *ToastQueue) index(id string) int {
	return slices.IndexFunc(q.entries, func(e toastEntry) bool { return e.toast.ID == id })
}

func (q *ToastQueue) snapshot() []Toast {
	out := make([]Toast, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.toast
	}
	return out
}

func (q *ToastQueue) notify(snap []Toast) {
	if q.onChange != nil {
		q.onChange(snap)
	}
}
