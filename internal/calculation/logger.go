package calculation

import "go.uber.org/zap"

// Logger is the logging surface the engine writes to. Debug carries per-projection
// detail, Warn reports adjusted inputs, Error reports degraded outcomes.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Applications hand the engine a sugared zap logger.
var _ Logger = (*zap.SugaredLogger)(nil)

// NopLogger discards everything; it is the engine default.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
