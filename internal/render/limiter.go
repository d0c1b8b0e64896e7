package render

// limiter.go bounds how many charts are rasterized at once.
//
// Drawing a chart holds a full canvas in memory, so the renderer takes a
// slot from a semaphore before drawing. When every slot is taken a caller
// waits up to maxWait and then fails with ErrTooManyRenders.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyRenders is returned when no render slot frees up in time.
// Clients should retry after a short delay.
var ErrTooManyRenders = errors.New("too many renders in progress, please try again later")

// Defaults for NewLimiter.
const (
	DefaultMaxConcurrent = 4
	DefaultMaxWait       = 5 * time.Second
)

// Limiter is a counting semaphore for render work.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
	served int64
	busy   int64
}

// NewLimiter creates a limiter with maxConcurrent slots. Callers that cannot
// get a slot within maxWait receive ErrTooManyRenders.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it when done.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.served++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		l.mu.Lock()
		l.busy++
		l.mu.Unlock()
		return ErrTooManyRenders
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot without waiting.
func (l *Limiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.served++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of renders holding a slot.
func (l *Limiter) Active() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the number of slots.
func (l *Limiter) MaxConcurrent() int { return cap(l.slots) }

// WaitForDrain blocks until no render holds a slot. Used on shutdown.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of a Limiter.
type LimiterStatus struct {
	Active        int   `json:"active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Served        int64 `json:"served"`
	Rejected      int64 `json:"rejected"`
}

// Status reports the limiter state for the health endpoint.
func (l *Limiter) Status() LimiterStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LimiterStatus{
		Active:        l.active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
		Served:        l.served,
		Rejected:      l.busy,
	}
}
