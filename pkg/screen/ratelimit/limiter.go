package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrStopped is returned by Acquire once the limiter has been stopped.
var ErrStopped = errors.New("rate limiter stopped")

// Limiter caps the number of calls issued per fixed window across all callers.
// Windows are aligned to wall-clock multiples of the window length and reset
// offset past each boundary, so a per-minute limiter resets at hh:mm:01.
type Limiter struct {
	max    int
	window time.Duration
	offset time.Duration
	log    logrus.FieldLogger

	mu       sync.Mutex
	used     int
	resetAt  time.Time
	resetCh  chan struct{}
	timer    *time.Timer
	stopped  bool
	announce bool
}

// Stats is a point-in-time view of the current window.
type Stats struct {
	Used    int
	Limit   int
	ResetAt time.Time
}

type Option func(*Limiter)

// WithWindow overrides the window length and the reset offset past each boundary.
func WithWindow(window, offset time.Duration) Option {
	return func(l *Limiter) {
		if window > 0 {
			l.window = window
		}
		if offset >= 0 && offset < l.window {
			l.offset = offset
		}
	}
}

// WithLogger reports, once per window, that callers started waiting.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Limiter) { l.log = log }
}

// New returns a limiter allowing max calls per minute, reset one second past the minute.
func New(max int, opts ...Option) *Limiter {
	if max <= 0 {
		max = 1
	}
	l := &Limiter{
		max:     max,
		window:  time.Minute,
		offset:  time.Second,
		resetCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.mu.Lock()
	l.scheduleLocked(time.Now())
	l.mu.Unlock()
	return l
}

// Acquire takes one call slot, waiting for the next reset when the window is spent.
// If ctx ends first, Acquire returns ctx.Err() and no slot is consumed.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.mu.Lock()
		if l.stopped {
			l.mu.Unlock()
			return ErrStopped
		}
		if l.used < l.max {
			l.used++
			l.mu.Unlock()
			return nil
		}
		wait := l.resetCh
		if l.log != nil && !l.announce {
			l.announce = true
			l.log.WithFields(logrus.Fields{
				"limit":    l.max,
				"reset_in": time.Until(l.resetAt).Round(time.Millisecond).String(),
			}).Info("api call budget spent, waiting for window reset")
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stats reports usage of the current window.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Used: l.used, Limit: l.max, ResetAt: l.resetAt}
}

// Stop cancels the reset timer and releases every waiter with ErrStopped.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
	}
	close(l.resetCh)
}

func (l *Limiter) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.used = 0
	l.announce = false
	close(l.resetCh)
	l.resetCh = make(chan struct{})
	l.scheduleLocked(time.Now())
}

func (l *Limiter) scheduleLocked(now time.Time) {
	l.resetAt = nextReset(now, l.window, l.offset)
	l.timer = time.AfterFunc(l.resetAt.Sub(now), l.reset)
}

// nextReset returns the first boundary+offset strictly after now.
func nextReset(now time.Time, window, offset time.Duration) time.Time {
	at := now.Truncate(window).Add(offset)
	for !at.After(now) {
		at = at.Add(window)
	}
	return at
}
