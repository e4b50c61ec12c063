package viewer

import "sync"

// Mailbox carries callbacks from background goroutines to the frame goroutine. Post may be called
// from any goroutine; Drain only from the frame goroutine.
type Mailbox struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewMailbox returns a mailbox that buffers up to size callbacks before Post blocks.
func NewMailbox(size int) *Mailbox {
	return &Mailbox{ch: make(chan func(), size), done: make(chan struct{})}
}

// Post queues fn. After Close it drops fn instead of blocking.
func (m *Mailbox) Post(fn func()) {
	select {
	case <-m.done:
		return
	default:
	}
	select {
	case m.ch <- fn:
	case <-m.done:
	}
}

// Drain runs every queued callback and returns how many ran. Callbacks posted while draining
// wait for the next call.
func (m *Mailbox) Drain() int {
	n := len(m.ch)
	for i := 0; i < n; i++ {
		select {
		case fn := <-m.ch:
			fn()
		default:
			return i
		}
	}
	return n
}

// Close stops accepting callbacks and releases blocked posters. Safe to call twice.
func (m *Mailbox) Close() {
	m.once.Do(func() { close(m.done) })
}
