// Package logger provides a process-wide structured logger used by every
// component of the replicator. Components accept a *zap.SugaredLogger
// explicitly as a constructor or call argument; the singleton here exists
// only for cmd/ entrypoints that have no logger to inject yet.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var singleton atomic.Pointer[zap.SugaredLogger]

func init() {
	singleton.Store(newDefault())
}

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a bad encoder/level
		// config, neither of which we touch; fall back to a no-op logger
		// rather than panic during package init.
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Initialize installs a fresh production logger as the singleton.
func Initialize() {
	singleton.Store(newDefault())
}

// InitializeDevelopment installs a human-readable development logger,
// useful for `cmd/mahi-replicator run --debug`.
func InitializeDevelopment() {
	l, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		singleton.Store(zap.NewNop().Sugar())
		return
	}
	singleton.Store(l.Sugar())
}

// Get returns the current singleton logger.
func Get() *zap.SugaredLogger {
	return singleton.Load()
}

// Set installs l as the singleton logger. Primarily for tests.
func Set(l *zap.SugaredLogger) {
	singleton.Store(l)
}

func Debug(args ...interface{})                  { Get().Debug(args...) }
func Debugf(format string, args ...interface{})   { Get().Debugf(format, args...) }
func Debugw(msg string, kv ...interface{})        { Get().Debugw(msg, kv...) }
func Info(args ...interface{})                    { Get().Info(args...) }
func Infof(format string, args ...interface{})    { Get().Infof(format, args...) }
func Infow(msg string, kv ...interface{})         { Get().Infow(msg, kv...) }
func Warn(args ...interface{})                    { Get().Warn(args...) }
func Warnf(format string, args ...interface{})    { Get().Warnf(format, args...) }
func Warnw(msg string, kv ...interface{})         { Get().Warnw(msg, kv...) }
func Error(args ...interface{})                   { Get().Error(args...) }
func Errorf(format string, args ...interface{})   { Get().Errorf(format, args...) }
func Errorw(msg string, kv ...interface{})        { Get().Errorw(msg, kv...) }
