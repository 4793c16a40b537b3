package cron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// StartDigestScheduler runs fire on the standard five-field cron spec in the
// given IANA timezone (server local time when empty). A panicking run is
// recovered and logged.
func StartDigestScheduler(spec, timezone string, fire func(), logger *zap.Logger) (*cron.Cron, error) {
	loc := time.Local
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("digest timezone %q: %w", timezone, err)
		}
	}

	cl := cronLogger{sugar: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, fire); err != nil {
		return nil, fmt.Errorf("digest schedule %q: %w", spec, err)
	}
	c.Start()

	logger.Info("Digest scheduler started", zap.String("schedule", spec), zap.String("timezone", loc.String()))
	return c, nil
}
