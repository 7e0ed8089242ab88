package quiz

import (
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFunc func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Countdown owns at most one running one-second ticker. Reset cancels the
// previous ticker before arming a new one; ticks from a cancelled ticker are
// dropped by generation check.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	gen       uint64
	stop      chan struct{}
	newTicker TickerFunc

	onTick func(remaining int)
	// onExpire receives the generation the expiry was issued under; a later
	// Reset or Stop makes it stale, see Expired.
	onExpire func(gen uint64)
}

func NewCountdown(newTicker TickerFunc, onTick func(int), onExpire func(gen uint64)) *Countdown {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &Countdown{newTicker: newTicker, onTick: onTick, onExpire: onExpire}
}

// Reset restarts the countdown at seconds. A non-positive value expires at once.
func (c *Countdown) Reset(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	if seconds <= 0 {
		c.remaining = 0
		if c.onExpire != nil {
			go c.onExpire(c.gen)
		}
		return
	}

	c.remaining = seconds
	stop := make(chan struct{})
	c.stop = stop
	go c.run(c.gen, c.newTicker(time.Second), stop)
}

// Stop cancels the running ticker, if any. It never blocks on the tick goroutine.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.cancelLocked()
	c.mu.Unlock()
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Expired reports whether gen is still the current generation and the clock
// sits at zero. An expiry callback that lost a race with Reset sees false.
func (c *Countdown) Expired(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen && c.remaining == 0
}

func (c *Countdown) cancelLocked() {
	c.gen++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(gen uint64, t Ticker, stop chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.mu.Lock()
			if gen != c.gen {
				c.mu.Unlock()
				return
			}
			if c.remaining > 0 {
				c.remaining--
			}
			remaining := c.remaining
			expired := remaining == 0
			if expired {
				c.cancelLocked()
				gen = c.gen
			}
			c.mu.Unlock()

			if c.onTick != nil {
				c.onTick(remaining)
			}
			if expired {
				if c.onExpire != nil {
					c.onExpire(gen)
				}
				return
			}
		}
	}
}
