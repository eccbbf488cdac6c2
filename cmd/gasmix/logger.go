package main

import (
	"io"
	"log"
	"strings"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// parseLogLevel is case-insensitive and falls back to info.
func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is a leveled wrapper over the standard logger. It satisfies
// gas.Logger.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

func NewLogger(level string, w io.Writer) *Logger {
	return &Logger{
		level: parseLogLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *Logger) logf(level LogLevel, tag, format string, v ...any) {
	if level >= l.level {
		l.out.Printf(tag+format, v...)
	}
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LogLevelDebug, "[DEBUG] ", format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LogLevelInfo, "[INFO] ", format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LogLevelWarn, "[WARN] ", format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LogLevelError, "[ERROR] ", format, v...) }
