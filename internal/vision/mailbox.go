package vision

import "sync"

// Mailbox is a single-slot frame buffer. Put overwrites an unconsumed frame, so
// a slow consumer only ever sees the newest one.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frame  *Frame
	closed bool

	delivered uint64
	dropped   uint64
}

func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores frame, replacing any frame not yet taken. It reports whether a
// frame was dropped to make room. Put on a closed mailbox is a no-op.
func (m *Mailbox) Put(frame *Frame) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}

	dropped := m.frame != nil
	if dropped {
		m.dropped++
	}
	m.frame = frame
	m.cond.Signal()
	return dropped
}

// Take blocks until a frame is available or the mailbox is closed, in which
// case it returns nil.
func (m *Mailbox) Take() *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.frame == nil && !m.closed {
		m.cond.Wait()
	}
	if m.closed {
		return nil
	}

	frame := m.frame
	m.frame = nil
	m.delivered++
	return frame
}

// Close wakes any blocked Take. Idempotent.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.frame = nil
	m.cond.Broadcast()
	m.mu.Unlock()
}

type MailboxStats struct {
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
}

func (m *Mailbox) Stats() MailboxStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MailboxStats{Delivered: m.delivered, Dropped: m.dropped}
}
