package utils

import "time"

// DeltaTimer measures the time between consecutive frames and the time
// since the first one.
type DeltaTimer struct {
	start time.Time
	last  time.Time
	now   func() time.Time
}

func NewDeltaTimer() *DeltaTimer {
	return &DeltaTimer{now: time.Now}
}

// Next returns the time since the previous call, zero on the first.
func (d *DeltaTimer) Next() time.Duration {
	// acquire timestamp exactly once to ensure we're not accumulating error
	now := d.now()
	defer func() { d.last = now }()

	if d.last.IsZero() {
		d.start = now
		return 0
	}
	return now.Sub(d.last)
}

// Seconds since the first call to Next, as the time uniform wants it.
func (d *DeltaTimer) Seconds() float32 {
	if d.start.IsZero() {
		return 0
	}
	return float32(d.last.Sub(d.start).Seconds())
}
