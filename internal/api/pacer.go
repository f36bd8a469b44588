package api

import "time"

// Defaults for the request pacer.
const (
	defaultRequestDelay = 150 * time.Millisecond
	defaultPingEvery    = 20
)

// pacer enforces the provider's throttling etiquette: a minimum interval
// between consecutive requests, and a keep-alive ping every pingEvery data
// calls so long runs never let the session go idle.
//
// Not safe for concurrent use; the client issues requests from one
// goroutine.
type pacer struct {
	minInterval time.Duration
	pingEvery   int

	lastCall time.Time
	calls    int

	now   func() time.Time
	sleep func(time.Duration)
}

func newPacer(minInterval time.Duration, pingEvery int) *pacer {
	return &pacer{
		minInterval: minInterval,
		pingEvery:   pingEvery,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// wait blocks until the minimum interval since the previous call has
// passed, counts the call, and reports whether a keep-alive is due.
func (p *pacer) wait() (pingDue bool) {
	if !p.lastCall.IsZero() && p.minInterval > 0 {
		if elapsed := p.now().Sub(p.lastCall); elapsed < p.minInterval {
			p.sleep(p.minInterval - elapsed)
		}
	}
	p.lastCall = p.now()
	p.calls++
	return p.pingEvery > 0 && p.calls%p.pingEvery == 0
}
