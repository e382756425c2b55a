package chatclient

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long after the last keystroke a typing=false is
// emitted.
const DefaultQuietPeriod = 2 * time.Second

// TypingNotifier turns keystrokes into typing events. Every keystroke emits
// typing=true and re-arms the quiet timer; only a timer that fires without
// being superseded emits typing=false. A superseded timer is cancelled and,
// if it managed to fire anyway, recognized as stale by its generation and
// discarded.
type TypingNotifier struct {
	quiet time.Duration
	emit  func(isTyping bool)

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	active bool
}

func NewTypingNotifier(quiet time.Duration, emit func(isTyping bool)) *TypingNotifier {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &TypingNotifier{quiet: quiet, emit: emit}
}

// Keystroke signals input activity.
func (n *TypingNotifier) Keystroke() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	n.active = true
	gen := n.gen
	n.timer = time.AfterFunc(n.quiet, func() { n.fire(gen) })
	n.mu.Unlock()

	n.emit(true)
}

func (n *TypingNotifier) fire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.active {
		n.mu.Unlock()
		return
	}
	n.active = false
	n.mu.Unlock()

	n.emit(false)
}

// Flush emits typing=false immediately if a typing=true is outstanding, as
// when the message is sent before the quiet period elapses.
func (n *TypingNotifier) Flush() {
	n.mu.Lock()
	if !n.active {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	n.active = false
	n.mu.Unlock()

	n.emit(false)
}

// Stop cancels any pending timer without emitting. Used on teardown, when
// the connection is going away regardless.
func (n *TypingNotifier) Stop() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	n.active = false
	n.mu.Unlock()
}
