package middleware

import (
	"github.com/m3rciful/lecturebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// MaintenanceOptions configures the global maintenance gate.
type MaintenanceOptions struct {
	// Enabled reports the current value of the maintenance switch.
	Enabled func() bool
	// Bypass reports users allowed through while maintenance is on.
	Bypass func(userID int64) bool
	// Notice replies with the fixed maintenance message.
	Notice tele.HandlerFunc
}

// MaintenanceMiddleware short-circuits every update kind with a fixed
// notice while the service is disabled, unless the sender is bypassed.
// It runs ahead of rate limiting and routing.
func MaintenanceMiddleware(opts MaintenanceOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Enabled == nil || !opts.Enabled() {
				return next(c)
			}
			user := c.Sender()
			if user != nil && opts.Bypass != nil && opts.Bypass(user.ID) {
				return next(c)
			}
			if user != nil {
				logger.TG.Debug("maintenance gate",
					slog.String("event", "tg.maintenance"),
					slog.Int64("user_id", user.ID),
				)
			}
			if opts.Notice != nil {
				return opts.Notice(c)
			}
			return nil
		}
	}
}
