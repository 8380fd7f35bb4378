package clock

import (
	"testing"
	"time"
)

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	c.Advance(1500 * time.Millisecond)

	if got := Millis(c); got != uint64(start.UnixMilli())+1500 {
		t.Fatalf("Millis() = %d, want %d", got, uint64(start.UnixMilli())+1500)
	}
}

func TestRealClockMillisIsRecent(t *testing.T) {
	before := uint64(time.Now().UnixMilli())
	got := Millis(RealClock{})
	if got < before {
		t.Fatalf("Millis() = %d went backwards from %d", got, before)
	}
}
