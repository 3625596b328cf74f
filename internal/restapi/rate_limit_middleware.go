package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"metrograph.onebusaway.org/internal/models"
)

const noKey = "__no_key__"

// RateLimitMiddleware provides per-API-key rate limiting
type RateLimitMiddleware struct {
	limiters    map[string]*limiterEntry
	mu          sync.Mutex
	rateLimit   rate.Limit
	burstSize   int
	idleTimeout time.Duration
	cleanupTick *time.Ticker
	done        chan struct{}
	stopOnce    sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows ratePerSecond requests per interval for
// each API key, with bursts of the same size. A negative rate disables
// limiting and zero rejects every request.
func NewRateLimitMiddleware(ratePerSecond int, interval time.Duration) *RateLimitMiddleware {
	var limit rate.Limit
	switch {
	case ratePerSecond < 0:
		limit = rate.Inf
	case ratePerSecond == 0:
		limit = 0
	default:
		limit = rate.Every(interval / time.Duration(ratePerSecond))
	}

	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*limiterEntry),
		rateLimit:   limit,
		burstSize:   ratePerSecond,
		idleTimeout: 10 * time.Minute,
		cleanupTick: time.NewTicker(5 * time.Minute),
		done:        make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimitMiddleware) getLimiter(apiKey string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[apiKey]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[apiKey] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Handler wraps next with rate limiting.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.URL.Query().Get("key")
		if apiKey == "" {
			apiKey = noKey
		}

		if !rl.getLimiter(apiKey).Allow() {
			rl.sendRateLimitExceeded(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	retryAfter := time.Hour
	if rl.rateLimit > 0 && rl.rateLimit != rate.Inf {
		retryAfter = time.Duration(float64(time.Second) / float64(rl.rateLimit))
	}
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	response := models.NewResponse(http.StatusTooManyRequests, map[string]interface{}{
		"entry":      nil,
		"references": models.NewEmptyReferences(),
	}, "Rate limit exceeded. Please try again later.")
	_ = json.NewEncoder(w).Encode(response)
}

// cleanup drops limiters of keys that have been idle for a while.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.evictIdle(time.Now())
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimitMiddleware) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idleTimeout {
			delete(rl.limiters, key)
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.done)
	})
}
