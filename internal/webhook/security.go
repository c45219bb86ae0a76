package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrRateLimited      = errors.New("webhook rate limit exceeded")
	ErrIPNotAllowed     = errors.New("webhook source not allowed")
)

// SecurityValidator validates chat platform webhook requests.
type SecurityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	return &SecurityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
	}
}

// SignatureRequired reports whether requests must carry a signature.
func (v *SecurityValidator) SignatureRequired() bool {
	return v.config.Secret != ""
}

// ValidateSignature verifies a "sha256=<hex>" HMAC of payload. It accepts any
// request when no secret is configured.
func (v *SecurityValidator) ValidateSignature(payload []byte, signature string) error {
	if !v.SignatureRequired() {
		return nil
	}

	hexSig, ok := strings.CutPrefix(signature, SignaturePrefix)
	if !ok {
		return fmt.Errorf("%w: invalid signature format", ErrInvalidSignature)
	}
	expected, err := hex.DecodeString(hexSig)
	if err != nil {
		return fmt.Errorf("%w: invalid signature hex encoding: %v", ErrInvalidSignature, err)
	}

	if !hmac.Equal(expected, Sign(v.config.Secret, payload)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the raw HMAC-SHA256 of payload.
func Sign(secret string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureHeaderValue formats the header value a sender would attach to payload.
func SignatureHeaderValue(secret string, payload []byte) string {
	return SignaturePrefix + hex.EncodeToString(Sign(secret, payload))
}

// ValidateIPAddress checks the request source against the allow list, when one is set.
func (v *SecurityValidator) ValidateIPAddress(r *http.Request) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil
	}

	ip := extractIP(r)
	for _, allowed := range v.config.AllowedIPs {
		if ip == allowed {
			return nil
		}
		if strings.Contains(allowed, "/") {
			_, ipNet, err := net.ParseCIDR(allowed)
			if err != nil {
				continue
			}
			if ipNet.Contains(net.ParseIP(ip)) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckRateLimit enforces the per-source budget. source is usually the tenant id.
func (v *SecurityValidator) CheckRateLimit(source string) error {
	return v.rateLimiter.Allow(source)
}

func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

// rateLimiter keeps one token bucket per source; idle sources expire from the LRU.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	if requestsPerMin <= 0 {
		requestsPerMin = DefaultRateLimitPerMin
	}
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			maxRateLimitSources,
			nil,
			rateLimiterTTL,
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0),
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}

const (
	maxRateLimitSources = 1000
	rateLimiterTTL      = 5 * time.Minute
)
