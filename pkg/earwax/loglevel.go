// ABOUTME: Process-wide decoder verbosity
// ABOUTME: Maps LogLevel values onto the engine's integer verbosity scale
package earwax

import (
	"go.uber.org/zap"

	"github.com/Sendspin/earwax-go/internal/engine"
)

// LogLevel controls how much the decoding engine logs
type LogLevel int

const (
	LogQuiet LogLevel = iota
	LogError
	LogInfo
	LogDebug
)

// Int returns the engine verbosity for the level
func (l LogLevel) Int() int {
	switch l {
	case LogQuiet:
		return engine.LevelQuiet
	case LogError:
		return engine.LevelError
	case LogInfo:
		return engine.LevelInfo
	default:
		return engine.LevelDebug
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogQuiet:
		return "quiet"
	case LogError:
		return "error"
	case LogInfo:
		return "info"
	default:
		return "debug"
	}
}

// LogLevelFromInt maps an engine verbosity to a LogLevel. Values outside the
// engine scale map to LogDebug.
func LogLevelFromInt(level int) LogLevel {
	switch level {
	case engine.LevelQuiet:
		return LogQuiet
	case engine.LevelError:
		return LogError
	case engine.LevelInfo:
		return LogInfo
	default:
		return LogDebug
	}
}

// ParseLogLevel accepts the names returned by LogLevel.String
func ParseLogLevel(name string) (LogLevel, bool) {
	for _, l := range []LogLevel{LogQuiet, LogError, LogInfo, LogDebug} {
		if l.String() == name {
			return l, true
		}
	}
	return LogInfo, false
}

// SetLogLevel changes the verbosity of every session in the process, open or not
func SetLogLevel(level LogLevel) {
	engine.SetLogLevel(level.Int())
}

// CurrentLogLevel returns the process-wide verbosity
func CurrentLogLevel() LogLevel {
	return LogLevelFromInt(engine.LogLevel())
}

// SetLogger routes decoder logs to l. The process-wide LogLevel still gates
// what reaches it. The returned function restores the previous logger.
func SetLogger(l *zap.Logger) (restore func()) {
	return engine.SetLogger(l)
}
