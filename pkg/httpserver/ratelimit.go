package httpserver

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimitStore keeps one token bucket per client IP. Idle buckets are
// swept periodically so the map does not grow without bound.
type rateLimitStore struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiterEntry
	idleTTL  time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func newRateLimitStore(sweepEvery, idleTTL time.Duration) *rateLimitStore {
	s := &rateLimitStore{
		limiters: make(map[string]*rateLimiterEntry),
		idleTTL:  idleTTL,
		ticker:   time.NewTicker(sweepEvery),
		done:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

func (s *rateLimitStore) sweepLoop() {
	for {
		select {
		case <-s.done:
			return
		case now := <-s.ticker.C:
			s.sweep(now)
		}
	}
}

func (s *rateLimitStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.limiters, ip)
		}
	}
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (s *rateLimitStore) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

func (s *rateLimitStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters = make(map[string]*rateLimiterEntry)
}

func (s *rateLimitStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// allow reports whether ip may make another request. Each IP gets a bucket
// of perMinute tokens refilled evenly across the minute.
func (s *rateLimitStore) allow(ip string, perMinute int) bool {
	s.mu.Lock()
	entry, ok := s.limiters[ip]
	if !ok {
		entry = &rateLimiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		}
		s.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	s.mu.Unlock()

	return entry.limiter.Allow()
}

// clientIP extracts the client address, trusting the first X-Forwarded-For
// hop the way the hosting proxy sets it.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rateLimitMiddleware(store *rateLimitStore, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.allow(clientIP(r), perMinute) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
