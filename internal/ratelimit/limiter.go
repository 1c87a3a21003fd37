package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIScryfall represents the Scryfall card API
	APIScryfall API = "scryfall"
)

const (
	// DefaultScryfallInterval is the minimum spacing between two request
	// starts, as Scryfall asks of API clients.
	DefaultScryfallInterval = 100 * time.Millisecond
	// DefaultScryfallPause is the pause kept after each successful request.
	DefaultScryfallPause = 500 * time.Millisecond
)

// Limiter manages request pacing for different APIs
type Limiter struct {
	limiters map[API]*rate.Limiter
	pauses   map[API]time.Duration
	mu       sync.RWMutex
}

// New returns a limiter with production pacing for every known API
func New() *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter),
		pauses:   make(map[API]time.Duration),
	}
	l.SetInterval(APIScryfall, DefaultScryfallInterval)
	l.SetPause(APIScryfall, DefaultScryfallPause)
	return l
}

// SetInterval sets the minimum spacing between two requests to api.
// An interval of zero or less removes the limit.
func (l *Limiter) SetInterval(api API, interval time.Duration) {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.limiters[api]; ok {
		existing.SetLimit(limit)
		return
	}
	l.limiters[api] = rate.NewLimiter(limit, 1)
}

// SetPause sets how long to hold off after a successful request to api.
// A pause of zero or less disables it.
func (l *Limiter) SetPause(api API, pause time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pause <= 0 {
		delete(l.pauses, api)
		return
	}
	l.pauses[api] = pause
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		// If no limiter exists for this API, allow the request without limiting
		return nil
	}

	return limiter.Wait(ctx)
}

// Pause blocks for the pause configured for api, or until ctx is done.
func (l *Limiter) Pause(ctx context.Context, api API) error {
	l.mu.RLock()
	pause := l.pauses[api]
	l.mu.RUnlock()

	if pause <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// For binds the limiter to a single API.
func (l *Limiter) For(api API) Pacer {
	return Pacer{limiter: l, api: api}
}

// Pacer paces requests to one API.
type Pacer struct {
	limiter *Limiter
	api     API
}

// Wait blocks until the next request to the bound API may start.
func (p Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx, p.api)
}

// Pause holds off after a successful request to the bound API.
func (p Pacer) Pause(ctx context.Context) error {
	return p.limiter.Pause(ctx, p.api)
}
