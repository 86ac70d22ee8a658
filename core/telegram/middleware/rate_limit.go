package middleware

import (
	"sync"
	"time"

	"github.com/m3rciful/lecturebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// FloodLimiter tracks, per user, a trailing window of event timestamps and
// blocks users that exceed the threshold within that window.
type FloodLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	block   time.Duration
	limit   int
	entries map[int64]*floodEntry
}

type floodEntry struct {
	hits         []time.Time
	blockedUntil time.Time
}

// NewFloodLimiter constructs a limiter. Zero values fall back to a
// 10-second window, 5 events, and a block equal to the window.
func NewFloodLimiter(window, block time.Duration, limit int) *FloodLimiter {
	if window <= 0 {
		window = 10 * time.Second
	}
	if limit <= 0 {
		limit = 5
	}
	if block <= 0 {
		block = window
	}
	return &FloodLimiter{
		window:  window,
		block:   block,
		limit:   limit,
		entries: make(map[int64]*floodEntry),
	}
}

// Allow records an event at the given moment and reports whether the user
// may proceed. A user reaching the limit within the trailing window is
// denied and stays blocked until block duration passes; denials while
// blocked do not consume additional quota.
func (l *FloodLimiter) Allow(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[userID]
	if !ok {
		e = &floodEntry{}
		l.entries[userID] = e
	}

	if !e.blockedUntil.IsZero() {
		if now.Before(e.blockedUntil) {
			return false
		}
		// Expired blocks are removed, not merely ignored.
		e.blockedUntil = time.Time{}
		e.hits = e.hits[:0]
	}

	cutoff := now.Add(-l.window)
	kept := e.hits[:0]
	for _, t := range e.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.hits = append(kept, now)

	if len(e.hits) >= l.limit {
		e.blockedUntil = now.Add(l.block)
		return false
	}
	return true
}

// BlockedUntil reports the moment a user's block expires, if any.
func (l *FloodLimiter) BlockedUntil(userID int64) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[userID]
	if !ok || e.blockedUntil.IsZero() {
		return time.Time{}, false
	}
	return e.blockedUntil, true
}

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Limiter *FloodLimiter
	// Exempt reports users that bypass the limiter entirely (trusted
	// operators are never throttled).
	Exempt    func(userID int64) bool
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware returns a middleware that applies the sliding-window
// flood limiter to inbound updates from non-exempt users.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Limiter == nil {
				return next(c)
			}
			if opts.Exempt != nil && opts.Exempt(user.ID) {
				return next(c)
			}

			// Determine update kind and apply configured exclusions
			upd := c.Update()
			kind := "other"
			switch {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil && upd.Message.Document != nil:
				kind = "document"
			case upd.Message != nil:
				kind = "message"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			if !opts.Limiter.Allow(user.ID, time.Now()) {
				chat := c.Chat()
				if chat != nil {
					logger.TG.Warn("rate limit",
						slog.String("event", "tg.rate_limit"),
						slog.Int64("chat_id", chat.ID),
						slog.Int64("user_id", user.ID),
					)
				} else {
					logger.TG.Warn("rate limit",
						slog.String("event", "tg.rate_limit"),
						slog.Int64("user_id", user.ID),
					)
				}
				if opts.OnLimited != nil {
					_ = opts.OnLimited(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
