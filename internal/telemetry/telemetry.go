// Package telemetry reports enhanced errors to Sentry and keeps an
// in-process record of the most recent failure per component.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/errors"
	"github.com/wgamage/snakeid-go/internal/logging"
)

// Init configures Sentry when enabled and installs the error reporter.
// Returns a shutdown function that flushes pending events.
func Init(settings *conf.SentrySettings, sink *Sink) (func(), error) {
	log := logging.ForService("telemetry")

	if settings.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              settings.DSN,
			AttachStacktrace: true,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing sentry: %w", err)
		}
		log.Info("Sentry telemetry enabled")
	}

	errors.SetReporter(&reporter{sink: sink, sentryOn: settings.Enabled})

	return func() {
		errors.SetReporter(nil)
		if settings.Enabled {
			sentry.Flush(2 * time.Second)
		}
	}, nil
}

// reporter forwards built enhanced errors to Sentry and the sink.
type reporter struct {
	sink     *Sink
	sentryOn bool
}

func (r *reporter) ReportError(ee *errors.EnhancedError) {
	if r.sink != nil {
		r.sink.Record(ee)
	}
	if !r.sentryOn {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", ee.GetComponent())
		scope.SetTag("category", ee.GetCategory())
		if p := ee.Priority; p != "" {
			scope.SetTag("priority", p)
		}
		if ctx := ee.GetContext(); len(ctx) > 0 {
			scope.SetContext("error_context", ctx)
		}
		sentry.CaptureException(ee.Err)
	})
}

// CaptureMessage sends an informational message to Sentry when enabled.
func CaptureMessage(message string, level sentry.Level, component string) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		scope.SetTag("component", component)
		sentry.CaptureMessage(message)
	})
}
