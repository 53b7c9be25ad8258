package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/marketloop/supportd/internal/setup/config"
	"github.com/marketloop/supportd/pkg/utils"
	"github.com/redis/rueidis"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	errBlocked    = "temporarily blocked for repeated rate limit violations"
	errRateLimit  = "rate limit exceeded"
	headerRetryAt = "Retry-After"
)

type limiterState struct {
	limiter *rate.Limiter
	strikes int // Number of times client has violated rate limit
}

// Middleware implements per-client rate limiting for API requests. Token
// buckets live in process memory with a TTL; blocks for repeat offenders
// are kept in Redis so they survive restarts and apply across instances.
type Middleware struct {
	limiters *utils.TTLMap[string, *limiterState]
	blocks   rueidis.Client
	config   *config.RateLimit
	logger   *zap.Logger
}

// New creates a new rate limiting middleware.
func New(config *config.RateLimit, blocks rueidis.Client, logger *zap.Logger) *Middleware {
	// Use the longer of block duration or burst window * 2 for TTL
	ttl := time.Second * time.Duration(config.BurstSize*2)
	if blockTTL := time.Second * time.Duration(config.BlockDuration*2); blockTTL > ttl {
		ttl = blockTTL
	}

	return &Middleware{
		limiters: utils.NewTTLMap[string, *limiterState](ttl),
		blocks:   blocks,
		config:   config,
		logger:   logger,
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for rate limiting.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		clientIP := clientIP(req.Request)

		allowed, retryAfter, msg := m.checkRateLimit(req.Context(), clientIP)
		if !allowed {
			// Add Retry-After header if there's a wait time
			if retryAfter > 0 {
				w.Header().Set(headerRetryAt, fmt.Sprintf("%.0f", retryAfter.Seconds()))
			}

			http.Error(w, msg, http.StatusTooManyRequests)

			return nil
		}

		return next(w, req)
	}
}

// getLimiter returns a rate limiter for the specified IP.
func (m *Middleware) getLimiter(clientIP string) *limiterState {
	// Try to get existing limiter
	if state, exists := m.limiters.Get(clientIP); exists {
		return state
	}

	state := &limiterState{
		limiter: rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), m.config.BurstSize),
	}
	m.limiters.Set(clientIP, state)

	return state
}

// checkBlocked checks whether the client has an active block in Redis.
func (m *Middleware) checkBlocked(ctx context.Context, clientIP string) (bool, time.Duration) {
	ttl, err := m.blocks.Do(ctx, m.blocks.B().Ttl().Key(blockKey(clientIP)).Build()).AsInt64()
	if err != nil || ttl <= 0 {
		return false, 0
	}

	return true, time.Duration(ttl) * time.Second
}

// handleStrikes blocks the client once strikes exceed the limit.
func (m *Middleware) handleStrikes(ctx context.Context, state *limiterState, clientIP string) (bool, time.Duration) {
	if state.strikes < m.config.StrikeLimit {
		return true, 0
	}

	blockDuration := time.Duration(m.config.BlockDuration) * time.Second
	state.strikes = 0 // Reset strikes

	err := m.blocks.Do(ctx,
		m.blocks.B().Set().Key(blockKey(clientIP)).Value("1").Ex(blockDuration).Build()).Error()
	if err != nil {
		m.logger.Error("Failed to store client block", zap.String("ip", clientIP), zap.Error(err))
	}

	m.logger.Debug("Client exceeded strike limit and is now blocked",
		zap.String("ip", clientIP),
		zap.Int("strikes", m.config.StrikeLimit),
		zap.Duration("block_duration", blockDuration))

	return false, blockDuration
}

// checkRateLimit checks if the request should be allowed and updates violation tracking.
func (m *Middleware) checkRateLimit(ctx context.Context, clientIP string) (bool, time.Duration, string) {
	// Check if client is blocked
	if blocked, retryAfter := m.checkBlocked(ctx, clientIP); blocked {
		return false, retryAfter, errBlocked
	}

	state := m.getLimiter(clientIP)

	if !state.limiter.Allow() {
		state.strikes++

		// Check if we should block the client
		if allowed, retryAfter := m.handleStrikes(ctx, state, clientIP); !allowed {
			return false, retryAfter, errBlocked
		}

		m.logger.Debug("Rate limit exceeded",
			zap.String("ip", clientIP),
			zap.Int("strikes", state.strikes))

		return false, 0, errRateLimit
	}

	// Reset strikes on successful request
	if state.strikes > 0 {
		state.strikes = 0
	}

	return true, 0, ""
}

// clientIP extracts the client address, trusting the first entry of
// X-Forwarded-For when present.
func clientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}

		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

func blockKey(clientIP string) string {
	return "ratelimit:block:" + clientIP
}
