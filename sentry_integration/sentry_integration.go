package sentry_integration

import (
	"github.com/getsentry/sentry-go"

	"github.com/nodepulse/nodepulse/config"
)

// Init configures the Sentry client. A blank DSN leaves the client in no-op
// mode, so callers can capture unconditionally.
func Init(cfg *config.SentryConfig) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		SampleRate:  cfg.SampleRate,
		Environment: cfg.Environment,
		Release:     config.Version,
	})
}

func CaptureCurrentHubException(err error, level sentry.Level) {
	CaptureException(sentry.CurrentHub(), err, level)
}

func CaptureException(hub *sentry.Hub, err error, level sentry.Level) {
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		hub.CaptureException(err)
	})
}
