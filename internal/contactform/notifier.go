package contactform

import (
	"sync"
	"time"
)

// DismissAfter is how long a notification stays visible.
const DismissAfter = 5000 * time.Millisecond

// Kind is the notification style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is the banner shown after a submission.
type Notification struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules on the runtime timer.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier owns the current notification and its dismiss timer. A newer
// notification replaces the old one and restarts the window; after Close no
// timer can change state.
type Notifier struct {
	mu       sync.Mutex
	clock    Clock
	current  Notification
	timer    Timer
	gen      uint64
	closed   bool
	onChange func(Notification)
}

// NewNotifier creates a notifier. clock may be nil. onChange, when set, is
// called with every new state outside the lock.
func NewNotifier(clock Clock, onChange func(Notification)) *Notifier {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Notifier{clock: clock, onChange: onChange}
}

// Show displays msg and schedules it to hide after DismissAfter.
func (n *Notifier) Show(kind Kind, msg string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = Notification{Visible: true, Message: msg, Kind: kind}
	n.timer = n.clock.AfterFunc(DismissAfter, func() { n.dismiss(gen) })
	state := n.current
	n.mu.Unlock()

	n.notify(state)
}

// Hide clears the notification immediately.
func (n *Notifier) Hide() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	changed := n.current.Visible
	n.current = Notification{}
	n.mu.Unlock()

	if changed {
		n.notify(Notification{})
	}
}

// Current returns the notification being shown.
func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Close cancels any pending dismiss. Further calls to Show are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// dismiss fires from the timer; a stale generation means the notification
// was superseded or the notifier was closed.
func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.closed {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.current = Notification{}
	n.mu.Unlock()

	n.notify(Notification{})
}

func (n *Notifier) notify(state Notification) {
	if n.onChange != nil {
		n.onChange(state)
	}
}
