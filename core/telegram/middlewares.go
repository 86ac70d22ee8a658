package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/lecturebot/core/config"
	"github.com/m3rciful/lecturebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareOptions carries the hooks the shared chain needs from the bot.
type MiddlewareOptions struct {
	// Maintenance reports the current maintenance switch value.
	Maintenance func() bool
	// IsAdmin reports whether a user is a trusted operator. Admins bypass
	// both the maintenance gate and the flood limiter.
	IsAdmin func(userID int64) bool
	// MaintenanceNotice replies with the fixed maintenance message.
	MaintenanceNotice tele.HandlerFunc
	// OnLimited runs when a user is throttled.
	OnLimited tele.HandlerFunc
}

// DefaultMiddlewares builds the shared middleware chain. Order matters:
// recover, maintenance gate, flood limiter, then logging and metrics.
func DefaultMiddlewares(cfg *coreconfig.Config, opts MiddlewareOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if opts.Maintenance != nil {
		mws = append(mws, Middleware{
			Name: "maintenance",
			Use: middleware.MaintenanceMiddleware(middleware.MaintenanceOptions{
				Enabled: opts.Maintenance,
				Bypass:  opts.IsAdmin,
				Notice:  opts.MaintenanceNotice,
			}),
		})
	}

	if cfg != nil {
		limiter := middleware.NewFloodLimiter(
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			time.Duration(cfg.RateLimit.BlockSeconds)*time.Second,
			cfg.RateLimit.Threshold,
		)
		ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, t := range cfg.RateLimit.ExcludeUpdates {
			ex[strings.ToLower(t)] = struct{}{}
		}
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Limiter:   limiter,
				Exempt:    opts.IsAdmin,
				Exclude:   ex,
				OnLimited: opts.OnLimited,
			}),
		})
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}
