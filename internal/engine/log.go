// ABOUTME: Engine verbosity control
// ABOUTME: Maps integer log levels onto a process-wide zap AtomicLevel
package engine

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Engine verbosity scale
const (
	LevelQuiet = -1
	LevelError = 0
	LevelInfo  = 1
	LevelDebug = 2
)

var (
	verbosity   atomic.Int32
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger      atomic.Pointer[zap.Logger]
)

func init() {
	verbosity.Store(LevelInfo)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		atomicLevel,
	)
	logger.Store(zap.New(core).Named("earwax"))
}

// Logger returns the engine logger. Its output is gated by the engine verbosity.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger replaces the engine logger's core, keeping the engine verbosity as
// its level gate. It returns a function restoring the previous logger.
func SetLogger(l *zap.Logger) (restore func()) {
	gated := l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &levelGate{Core: c, level: atomicLevel}
	}))
	prev := logger.Swap(gated)
	return func() { logger.Store(prev) }
}

// levelGate passes an entry only when both the engine verbosity and the
// wrapped core enable it. The verbosity is read on every entry.
type levelGate struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (g *levelGate) Enabled(lvl zapcore.Level) bool {
	return g.level.Enabled(lvl) && g.Core.Enabled(lvl)
}

func (g *levelGate) With(fields []zapcore.Field) zapcore.Core {
	return &levelGate{Core: g.Core.With(fields), level: g.level}
}

func (g *levelGate) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !g.level.Enabled(ent.Level) {
		return ce
	}
	return g.Core.Check(ent, ce)
}

// LogLevel returns the current engine verbosity
func LogLevel() int {
	return int(verbosity.Load())
}

// SetLogLevel changes engine verbosity for every context in the process
func SetLogLevel(level int) {
	verbosity.Store(int32(level))
	atomicLevel.SetLevel(zapLevel(level))
}

// zapLevel maps engine verbosity onto the minimum enabled zap level
func zapLevel(level int) zapcore.Level {
	switch {
	case level <= LevelQuiet:
		// Above Fatal, nothing is enabled
		return zapcore.FatalLevel + 1
	case level == LevelError:
		return zapcore.ErrorLevel
	case level == LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
