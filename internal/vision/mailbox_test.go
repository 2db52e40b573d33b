package vision

import (
	"testing"
	"time"
)

func TestMailbox_DropsOldest(t *testing.T) {
	m := NewMailbox()

	if m.Put(&Frame{PTS: 1}) {
		t.Error("first put should not drop")
	}
	if !m.Put(&Frame{PTS: 2}) {
		t.Error("second put should drop the unconsumed frame")
	}

	f := m.Take()
	if f == nil || f.PTS != 2 {
		t.Fatalf("expected newest frame, got %+v", f)
	}

	stats := m.Stats()
	if stats.Dropped != 1 || stats.Delivered != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMailbox_TakeBlocksUntilPut(t *testing.T) {
	m := NewMailbox()
	got := make(chan *Frame, 1)

	go func() { got <- m.Take() }()

	select {
	case <-got:
		t.Fatal("Take should block on an empty mailbox")
	case <-time.After(20 * time.Millisecond):
	}

	m.Put(&Frame{PTS: 7})

	select {
	case f := <-got:
		if f.PTS != 7 {
			t.Errorf("expected PTS 7, got %d", f.PTS)
		}
	case <-time.After(time.Second):
		t.Fatal("Take did not wake up")
	}
}

func TestMailbox_CloseWakesTake(t *testing.T) {
	m := NewMailbox()
	got := make(chan *Frame, 1)

	go func() { got <- m.Take() }()
	time.Sleep(10 * time.Millisecond)
	m.Close()

	select {
	case f := <-got:
		if f != nil {
			t.Errorf("expected nil after close, got %+v", f)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake Take")
	}

	if m.Put(&Frame{}) {
		t.Error("put after close should be a no-op")
	}
	m.Close()
}
