// Package logger provides leveled structured logging.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel maps a level name to a Level, defaulting to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging.
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &Logger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
}

// Init initializes the default logger with the specified level and format.
// The "text" format adds caller file locations; "json" stays compact.
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	defaultLogger = &Logger{
		level:  ParseLevel(level),
		logger: log.New(os.Stderr, "", flags),
	}
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	defaultLogger.logger.SetOutput(w)
}

func (l *Logger) output(level Level, tag, format string, args ...interface{}) {
	if l.level > level {
		return
	}
	_ = l.logger.Output(3, fmt.Sprintf(tag+" "+format, args...))
}

func Debug(format string, args ...interface{}) {
	defaultLogger.output(DebugLevel, "[DEBUG]", format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.output(InfoLevel, "[INFO]", format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.output(WarnLevel, "[WARN]", format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.output(ErrorLevel, "[ERROR]", format, args...)
}

func Fatal(format string, args ...interface{}) {
	_ = defaultLogger.logger.Output(2, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}
