package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TokenBucket implements token bucket rate limiting
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	lastSeen   time.Time
}

func NewTokenBucket(capacity int, perMinute int) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: float64(perMinute) / 60,
		lastRefill: now,
		lastSeen:   now,
	}
}

func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens += now.Sub(tb.lastRefill).Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
	tb.lastSeen = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimiter bucket per IP client
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*TokenBucket
	perMinute int
	burst     int
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewRateLimiter perMinute request, burst = perMinute. Panggil Stop saat shutdown.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	rl := &RateLimiter{
		buckets:   make(map[string]*TokenBucket),
		perMinute: perMinute,
		burst:     perMinute,
		stop:      make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = NewTokenBucket(rl.burst, rl.perMinute)
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()
	return bucket.Allow()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evict(now, 10*time.Minute)
		}
	}
}

// evict buang bucket yang idle lebih dari maxIdle
func (rl *RateLimiter) evict(now time.Time, maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		idle := now.Sub(bucket.lastSeen) > maxIdle
		bucket.mu.Unlock()
		if idle {
			delete(rl.buckets, key)
		}
	}
}

// Middleware tolak request dengan 429 kalau bucket IP habis
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(60/max(rl.perMinute, 1)+1))
			http.Error(w, "terlalu banyak permintaan, coba lagi nanti", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
