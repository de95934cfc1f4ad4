package toggle

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedIPs = 4096
	limiterIdle   = time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateRegistry hands out one connection rate limiter per remote IP.
type rateRegistry struct {
	mu       sync.Mutex
	perSec   int
	limiters map[string]*ipLimiter
}

// newRateRegistry returns nil when perSec is not positive; a nil registry allows everything.
func newRateRegistry(perSec int) *rateRegistry {
	if perSec <= 0 {
		return nil
	}
	return &rateRegistry{
		perSec:   perSec,
		limiters: make(map[string]*ipLimiter),
	}
}

// Allow reports whether a new connection from remote may proceed.
func (r *rateRegistry) Allow(remote string) bool {
	if r == nil {
		return true
	}
	ip := hostOf(remote)
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.limiters[ip]
	if !ok {
		if len(r.limiters) >= maxTrackedIPs {
			r.prune(now)
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(r.perSec), r.perSec)}
		r.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// prune drops limiters idle for longer than limiterIdle. Caller holds mu.
func (r *rateRegistry) prune(now time.Time) {
	for ip, entry := range r.limiters {
		if now.Sub(entry.lastSeen) > limiterIdle {
			delete(r.limiters, ip)
		}
	}
}

func (r *rateRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func hostOf(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
