package session

import "time"

// Pacer rate-limits steps to a target frames per second. A frame is due once
// at least one interval has elapsed; the remainder carries into the next
// frame so long runs do not drift.
type Pacer struct {
	interval time.Duration
	last     time.Time
}

// NewPacer constructs a Pacer targeting fps
func NewPacer(fps int) *Pacer {
	p := &Pacer{}
	p.SetFPS(fps)
	return p
}

// SetFPS changes the target rate; non-positive values fall back to 1
func (p *Pacer) SetFPS(fps int) {
	if fps <= 0 {
		fps = 1
	}
	p.interval = time.Second / time.Duration(fps)
}

// Interval returns the time between frames
func (p *Pacer) Interval() time.Duration { return p.interval }

// Reset forgets the previous frame, so the next Ready call is due immediately
func (p *Pacer) Reset() { p.last = time.Time{} }

// Ready reports whether a frame is due at now and, if so, consumes it
func (p *Pacer) Ready(now time.Time) bool {
	if p.last.IsZero() {
		p.last = now
		return true
	}

	delta := now.Sub(p.last)
	if delta < p.interval {
		return false
	}
	p.last = now.Add(-(delta % p.interval))
	return true
}
