package media

import (
	"time"

	"github.com/eleven-am/maskwatch/internal/vision"
)

// VideoTimeBase is the time base of every frame timestamp on the live path.
var VideoTimeBase = vision.Rational{Num: 1, Den: videoClockRate}

// RTPClock turns 32-bit RTP timestamps into ticks elapsed since the first
// one seen, across wraparound.
type RTPClock struct {
	started bool
	last    uint32
	elapsed int64
}

func (c *RTPClock) Ticks(ts uint32) int64 {
	if !c.started {
		c.started = true
		c.last = ts
		return 0
	}
	c.elapsed += int64(int32(ts - c.last))
	c.last = ts
	return c.elapsed
}

func ticksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks/videoClockRate)*time.Second +
		time.Duration(ticks%videoClockRate)*time.Second/videoClockRate
}

// durationToTicks rounds to the nearest tick, so it inverts ticksToDuration.
func durationToTicks(d time.Duration) int64 {
	secs, rem := int64(d/time.Second), int64(d%time.Second)
	return secs*videoClockRate + (rem*videoClockRate+int64(time.Second)/2)/int64(time.Second)
}

// frameClock derives sample durations from consecutive presentation times.
// nominal covers the first sample and timestamps that do not advance.
type frameClock struct {
	nominal time.Duration
	last    time.Duration
	have    bool
}

func (c *frameClock) next(pts time.Duration) time.Duration {
	if pts < 0 {
		return c.nominal
	}
	d := c.nominal
	if c.have && pts > c.last {
		d = pts - c.last
	}
	c.last, c.have = pts, true
	return d
}
