package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"tenderly/internal/httputil"
)

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	PerMinute     int
	Burst         int
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	cfg       RateLimitConfig
	limit     rate.Limit
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(cfg RateLimitConfig) *ipLimiter {
	if cfg.PerMinute < 1 {
		cfg.PerMinute = 1
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &ipLimiter{
		cfg:       cfg,
		limit:     rate.Limit(float64(cfg.PerMinute) / 60.0),
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// reserve returns whether the request may proceed and, if not, the wait in seconds
func (l *ipLimiter) reserve(key string) (bool, int) {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.cfg.IdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v := l.visitors[key]
	if v == nil {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.cfg.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}

	// Tokens needed for one request at the refill rate
	wait := int(math.Ceil((1 - v.limiter.TokensAt(now)) / float64(l.limit)))
	if wait < 1 {
		wait = 1
	}
	return false, wait
}

// RateLimit limits requests per client IP and answers 429 with Retry-After when exceeded
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newIPLimiter(cfg)
	return rateLimit(l)
}

func rateLimit(l *ipLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.reserve(clientIP(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(wait))
				httputil.RespondError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP uses RemoteAddr. The router mounts chi's RealIP, which rewrites it
// from forwarding headers, only when the proxy is trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
