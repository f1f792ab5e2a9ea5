// Package logging wraps go-logr/logr behind a small API shaped after the
// logging helper the dc4eu-vc reference repo carries for its own services
// (pkg/logger.Log: a named logr.Logger with Info/Debug convenience
// methods), backed here by zapr over zap rather than hand-rolled log
// formatting.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Log wraps a logr.Logger for the tracker, coordinator, and TUI.
type Log struct {
	logr.Logger
}

// New creates a production or development logger named name.
func New(name string, production bool) (*Log, error) {
	var zc zap.Config
	if production {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.DisableStacktrace = true

	z, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return &Log{Logger: zapr.NewLogger(z).WithName(name)}, nil
}

// Discard returns a Log that drops everything, used when no logger is
// supplied so the core stays infallible regardless of logging config.
func Discard() *Log {
	return &Log{Logger: logr.Discard()}
}

// Info logs at info level (V(0)).
func (l *Log) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.V(0).Info(msg, keysAndValues...)
}

// Debug logs at debug level (V(1)).
func (l *Log) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.V(1).Info(msg, keysAndValues...)
}

// Named returns a child logger annotated with the given name.
func (l *Log) Named(name string) *Log {
	return &Log{Logger: l.Logger.WithName(name)}
}
