package quiz

import (
	"sync"
	"time"
)

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func newStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// TimerOption configures a Timer.
type TimerOption func(*Timer)

// WithTicker replaces the one-second ticker, mainly for tests.
func WithTicker(newTicker func(time.Duration) Ticker) TimerOption {
	return func(t *Timer) { t.newTicker = newTicker }
}

// Timer counts down whole seconds. onTick receives the remaining time on
// start and after every second; onExpire runs once when it reaches zero.
// Callbacks run on the timer's goroutine, except the first tick of Start
// which runs on the caller's. No tick is reported after Stop returns, so a
// scheduled onTick must not call Start or Stop itself.
type Timer struct {
	duration  int
	onTick    func(remaining time.Duration)
	onExpire  func()
	newTicker func(time.Duration) Ticker

	// tickMu is held while a scheduled onTick runs. Taken before mu.
	tickMu    sync.Mutex
	mu        sync.Mutex
	remaining int
	running   bool
	gen       uint64
	stop      chan struct{}
}

// NewTimer returns a stopped timer. Durations are rounded down to whole
// seconds.
func NewTimer(duration time.Duration, onTick func(time.Duration), onExpire func(), opts ...TimerOption) *Timer {
	secs := int(duration / time.Second)
	if secs < 0 {
		secs = 0
	}
	t := &Timer{
		duration:  secs,
		onTick:    onTick,
		onExpire:  onExpire,
		newTicker: newStdTicker,
	}
	t.remaining = t.duration
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start resets the countdown to the full duration, reports it, and begins
// ticking. A schedule already running is stopped first. A zero duration
// expires immediately.
func (t *Timer) Start() {
	t.tickMu.Lock()
	t.mu.Lock()
	t.stopLocked()
	t.remaining = t.duration
	rem := t.remaining
	gen := t.gen
	t.mu.Unlock()
	t.tickMu.Unlock()

	t.tick(rem)

	if rem <= 0 {
		if t.onExpire != nil {
			t.onExpire()
		}
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Stopped or restarted from inside onTick.
	if t.gen != gen || t.running {
		return
	}
	t.scheduleLocked()
}

// Stop cancels the schedule. The remaining time is kept. A tick being
// reported when Stop is called finishes first.
func (t *Timer) Stop() {
	t.tickMu.Lock()
	defer t.tickMu.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Pause is Stop under the name the UI uses.
func (t *Timer) Pause() {
	t.Stop()
}

// Resume continues from the remaining time if stopped and not expired.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remaining <= 0 {
		return
	}
	t.scheduleLocked()
}

// Remaining returns the time left.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.remaining) * time.Second
}

// Running reports whether a schedule is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) stopLocked() {
	t.gen++
	if !t.running {
		return
	}
	close(t.stop)
	t.stop = nil
	t.running = false
}

func (t *Timer) scheduleLocked() {
	t.running = true
	t.gen++
	t.stop = make(chan struct{})
	go t.run(t.gen, t.stop, t.newTicker(time.Second))
}

func (t *Timer) run(gen uint64, stop <-chan struct{}, ticker Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
		}

		t.tickMu.Lock()
		t.mu.Lock()
		if t.gen != gen {
			t.mu.Unlock()
			t.tickMu.Unlock()
			return
		}
		t.remaining--
		rem := t.remaining
		expired := rem <= 0
		if expired {
			t.remaining = 0
			rem = 0
			t.running = false
			t.stop = nil
			t.gen++
		}
		t.mu.Unlock()

		t.tick(rem)
		t.tickMu.Unlock()
		if expired {
			if t.onExpire != nil {
				t.onExpire()
			}
			return
		}
	}
}

func (t *Timer) tick(rem int) {
	if t.onTick != nil {
		t.onTick(time.Duration(rem) * time.Second)
	}
}
