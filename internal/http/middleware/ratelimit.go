package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter reparte un token bucket por clave. Los buckets sin uso expiran del
// cache a los 10 minutos.
type Limiter struct {
	limit   rate.Limit
	burst   int
	buckets *gocache.Cache
}

// NewRateLimiter crea el limiter; reqPerSec <= 0 lo deshabilita.
func NewRateLimiter(reqPerSec float64, burst int) *Limiter {
	return &Limiter{
		limit:   rate.Limit(reqPerSec),
		burst:   burst,
		buckets: gocache.New(10*time.Minute, 5*time.Minute),
	}
}

func (l *Limiter) enabled() bool {
	return l != nil && l.limit > 0
}

func (l *Limiter) allow(key string) bool {
	if v, ok := l.buckets.Get(key); ok {
		bucket := v.(*rate.Limiter)
		l.buckets.SetDefault(key, bucket)
		return bucket.Allow()
	}

	bucket := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, bucket, gocache.DefaultExpiration); err != nil {
		// otra request creó el bucket entre Get y Add
		if v, ok := l.buckets.Get(key); ok {
			bucket = v.(*rate.Limiter)
		}
	}
	return bucket.Allow()
}

// retryAfter es el tiempo hasta el próximo token, en segundos enteros.
func (l *Limiter) retryAfter() string {
	secs := math.Ceil(1 / float64(l.limit))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatFloat(secs, 'f', 0, 64)
}

func limitBy(l *Limiter, keyOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !l.enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := keyOf(r); key != "" && !l.allow(key) {
				w.Header().Set("Retry-After", l.retryAfter())
				writeError(w, http.StatusTooManyRequests, "RATE_LIMIT", "Demasiadas solicitudes, intenta nuevamente")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IPRateLimit limita por IP de origen. Depende de chi RealIP montado antes,
// que ya reescribe RemoteAddr desde X-Real-IP / X-Forwarded-For.
func IPRateLimit(l *Limiter) func(http.Handler) http.Handler {
	return limitBy(l, realIPFromRequest)
}

func realIPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CallerRateLimit limita por caller autenticado. Va después de Auth.
func CallerRateLimit(l *Limiter) func(http.Handler) http.Handler {
	return limitBy(l, func(r *http.Request) string {
		if c := Caller(r.Context()); c != nil {
			return c.Subject()
		}
		return ""
	})
}
