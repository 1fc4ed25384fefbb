package app

import (
	"sync"
	"testing"
	"time"
)

// fakeScheduler records callbacks instead of running them; tests fire them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs the i-th scheduled callback even if it was stopped, the way a
// real timer can race its own Stop.
func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	f := s.timers[i].f
	s.mu.Unlock()
	f()
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func TestToastQueue_AddShowsImmediately(t *testing.T) {
	sched := &fakeScheduler{}
	q := NewToastQueue(sched, nil)

	id := q.Add(ToastSuccess, "Saved")
	got := q.List()
	if len(got) != 1 || got[0].ID != id || got[0].Message != "Saved" || got[0].Kind != ToastSuccess {
		t.Fatalf("List = %+v", got)
	}
	if sched.count() != 1 || sched.timers[0].d != ToastTTL {
		t.Errorf("expected one timer of %s, got %+v", ToastTTL, sched.timers)
	}
}

func TestToastQueue_ExpiresAfterTTL(t *testing.T) {
	sched := &fakeScheduler{}
	q := NewToastQueue(sched, nil)

	q.Add(ToastInfo, "one")
	q.Add(ToastInfo, "two")
	sched.fire(0)

	got := q.List()
	if len(got) != 1 || got[0].Message != "two" {
		t.Errorf("after first expiry List = %+v", got)
	}
}

func TestToastQueue_RemoveBeforeExpiry(t *testing.T) {
	sched := &fakeScheduler{}
	var changes int
	q := NewToastQueue(sched, func([]Toast) { changes++ })

	id := q.Add(ToastError, "nope")
	q.Remove(id)
	if !sched.timers[0].stopped {
		t.Error("timer not stopped on Remove")
	}
	q.Remove(id)
	sched.fire(0)

	if len(q.List()) != 0 {
		t.Errorf("List = %+v", q.List())
	}
	if changes != 2 {
		t.Errorf("onChange called %d times, want 2", changes)
	}
}

func TestToastQueue_PushReplacesInPlace(t *testing.T) {
	sched := &fakeScheduler{}
	q := NewToastQueue(sched, nil)

	q.Push(Toast{ID: "welcome", Kind: ToastSuccess, Message: "hi"})
	q.Add(ToastInfo, "other")
	q.Push(Toast{ID: "welcome", Kind: ToastSuccess, Message: "hi again"})

	got := q.List()
	if len(got) != 2 || got[0].ID != "welcome" || got[0].Message != "hi again" {
		t.Fatalf("List = %+v", got)
	}
	if !sched.timers[0].stopped {
		t.Error("replaced toast kept its old timer")
	}

	// The stale timer must not remove the replacement.
	sched.fire(0)
	if len(q.List()) != 2 {
		t.Errorf("stale expiry removed replacement: %+v", q.List())
	}
	sched.fire(2)
	got = q.List()
	if len(got) != 1 || got[0].Message != "other" {
		t.Errorf("after re-armed expiry List = %+v", got)
	}
}

func TestToastQueue_CloseStopsTimers(t *testing.T) {
	sched := &fakeScheduler{}
	q := NewToastQueue(sched, nil)
	q.Add(ToastInfo, "a")
	q.Add(ToastInfo, "b")
	q.Close()

	for i, tm := range sched.timers {
		if !tm.stopped {
			t.Errorf("timer %d still armed", i)
		}
	}
	if len(q.List()) != 0 {
		t.Errorf("List = %+v", q.List())
	}
}

func TestToastQueue_RealTimers(t *testing.T) {
	q := NewToastQueue(nil, nil)
	q.ttl = 10 * time.Millisecond
	q.Add(ToastInfo, "brief")

	deadline := time.Now().Add(2 * time.Second)
	for len(q.List()) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("toast never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
