package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents the logging verbosity level
type LogLevel int

const (
	LogLevelSilent  LogLevel = iota // Only errors
	LogLevelNormal                  // Basic progress info (default)
	LogLevelVerbose                 // Detailed operational info
	LogLevelDebug                   // Full diagnostic info
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelNormal:
		return "normal"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "silent":
		return LogLevelSilent, nil
	case "normal":
		return LogLevelNormal, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelNormal, fmt.Errorf("invalid log level: %s (valid: silent, normal, verbose, debug)", s)
	}
}

// Logger provides leveled logging to stderr. It is created once per run
// and handed down explicitly; there is no package-level logger.
type Logger struct {
	level    LogLevel
	errorLog *log.Logger
	infoLog  *log.Logger
	debugLog *log.Logger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	l := &Logger{
		level:    level,
		errorLog: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
		infoLog:  log.New(io.Discard, "", 0),
		debugLog: log.New(io.Discard, "", 0),
	}

	// Info and debug writers depend on the level; errors always go to stderr
	if level >= LogLevelNormal {
		l.infoLog = log.New(os.Stderr, "", log.LstdFlags)
	}
	if level >= LogLevelDebug {
		l.debugLog = log.New(os.Stderr, "DEBUG: ", log.LstdFlags|log.Lshortfile)
	}

	return l
}

// Error logs error messages (always visible)
func (l *Logger) Error(format string, args ...interface{}) {
	l.errorLog.Printf(format, args...)
}

// Warn logs warning messages (always visible)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.errorLog.Printf("WARN: "+format, args...)
}

// Info logs informational messages (visible in normal, verbose, debug)
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		l.infoLog.Printf(format, args...)
	}
}

// Verbose logs detailed operational messages (visible in verbose, debug)
func (l *Logger) Verbose(format string, args ...interface{}) {
	if l.level >= LogLevelVerbose {
		l.infoLog.Printf("VERBOSE: "+format, args...)
	}
}

// Debug logs debug messages (visible only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.debugLog.Printf(format, args...)
	}
}

// Level returns the logger's level
func (l *Logger) Level() LogLevel {
	return l.level
}
