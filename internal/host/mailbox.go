package host

import (
	"sync"
	"sync/atomic"
)

// Mailbox is a single-slot, latest-wins handoff between one producer and one
// consumer. Publishing over an unconsumed frame replaces it and counts a drop.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frame  *Frame
	closed bool
	drops  uint64 // atomic
}

func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Publish stores f, replacing any frame not yet taken. Publishing after Close
// is a no-op.
func (m *Mailbox) Publish(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.frame != nil {
		atomic.AddUint64(&m.drops, 1)
	}
	m.frame = f
	m.cond.Signal()
}

// Take blocks until a frame is available and removes it. After Close it
// still returns a pending frame; once empty it returns false.
func (m *Mailbox) Take() (*Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.frame == nil {
		if m.closed {
			return nil, false
		}
		m.cond.Wait()
	}

	f := m.frame
	m.frame = nil
	return f, true
}

// Close wakes any waiting consumer. It is safe to call more than once.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Broadcast()
}

// Drops returns how many frames were overwritten before being taken.
func (m *Mailbox) Drops() uint64 {
	return atomic.LoadUint64(&m.drops)
}
