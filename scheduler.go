package tether

import (
	"container/heap"
	"time"
)

// Timer is a pending callback returned by a Scheduler.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Callbacks must run on the same
// goroutine that drives the Store; the engine never locks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Clock is a virtual, frame-driven Scheduler. Time only moves when Advance
// is called, typically once per frame with the frame's delta, and due
// callbacks run synchronously inside Advance. This keeps every state
// transition on the caller's event loop and makes timing deterministic in
// tests.
type Clock struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the virtual time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *Clock) Pending() int {
	return len(c.timers)
}

// AfterFunc schedules fn to run once the clock has advanced by d.
// Negative delays are treated as zero.
func (c *Clock) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &clockTimer{clock: c, deadline: c.now + d, seq: c.seq, fn: fn}
	heap.Push(&c.timers, t)
	return t
}

// Advance moves the clock forward by dt and runs every callback whose
// deadline falls inside the window, in deadline order (scheduling order
// breaks ties). Callbacks scheduled while advancing also run if they fall
// due before the window closes. It returns the number of callbacks run.
func (c *Clock) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	end := c.now + dt
	fired := 0
	for len(c.timers) > 0 && c.timers[0].deadline <= end {
		t := heap.Pop(&c.timers).(*clockTimer)
		c.now = t.deadline
		fired++
		t.fn()
	}
	c.now = end
	return fired
}

// AdvanceSeconds is Advance for frame loops that measure dt in seconds.
func (c *Clock) AdvanceSeconds(dt float64) int {
	return c.Advance(time.Duration(dt * float64(time.Second)))
}

type clockTimer struct {
	clock    *Clock
	deadline time.Duration
	seq      uint64
	fn       func()
	index    int // position in the heap, -1 once popped or stopped
}

func (t *clockTimer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.clock.timers, t.index)
	return true
}

// --- Timer heap ---

type timerHeap []*clockTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*clockTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
