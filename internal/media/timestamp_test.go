package media

import (
	"testing"
	"time"

	"github.com/eleven-am/maskwatch/internal/vision"
)

func TestRTPClock_Ticks(t *testing.T) {
	var c RTPClock

	steps := []struct {
		ts   uint32
		want int64
	}{
		{4294964000, 0},
		{4294967000, 3000},
		{2704, 6000},
		{5704, 9000},
		{2704, 6000},
	}
	for _, step := range steps {
		if got := c.Ticks(step.ts); got != step.want {
			t.Errorf("Ticks(%d) = %d, want %d", step.ts, got, step.want)
		}
	}
}

func TestTickConversion(t *testing.T) {
	for _, ticks := range []int64{0, 1, 3000, 90000, 123457, 90000 * 3600 * 48} {
		d := ticksToDuration(ticks)
		if back := durationToTicks(d); back != ticks {
			t.Errorf("ticks %d -> %v -> %d", ticks, d, back)
		}
	}
	if d := ticksToDuration(3000); d != 33333333*time.Nanosecond {
		t.Errorf("expected 33.333333ms, got %v", d)
	}
}

func TestFrameClock_Next(t *testing.T) {
	c := frameClock{nominal: time.Second / 30}

	if d := c.next(0); d != time.Second/30 {
		t.Errorf("first sample should use the nominal duration, got %v", d)
	}
	if d := c.next(100 * time.Millisecond); d != 100*time.Millisecond {
		t.Errorf("expected the PTS delta, got %v", d)
	}
	if d := c.next(100 * time.Millisecond); d != time.Second/30 {
		t.Errorf("a repeated PTS should fall back to nominal, got %v", d)
	}
	if d := c.next(-1); d != time.Second/30 {
		t.Errorf("a missing PTS should fall back to nominal, got %v", d)
	}
	if d := c.next(300 * time.Millisecond); d != 200*time.Millisecond {
		t.Errorf("expected 200ms after a gap, got %v", d)
	}
}

func TestFrameTimestamp(t *testing.T) {
	f := &vision.Frame{PTS: 9000, TimeBase: VideoTimeBase}
	if got := frameTimestamp(f); got != 100*time.Millisecond {
		t.Errorf("expected 100ms, got %v", got)
	}
	if got := frameTimestamp(&vision.Frame{PTS: 9000}); got != -1 {
		t.Errorf("frame without a time base should have no timestamp, got %v", got)
	}
}
