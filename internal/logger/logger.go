package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

const (
	LogLevelInfo  = 0
	LogLevelWarn  = 1
	LogLevelError = 2
	LogLevelDebug = 3
)

// GetLogger returns a prefixed logger. level is the highest level that
// will be emitted, Info is always emitted.
func GetLogger(prefix string, level int) Logger {
	return &logger{
		prefix:      prefix,
		innerLogger: log.New(os.Stdout, "", log.Ldate|log.Ltime|log.Lmicroseconds),
		level:       level,
	}
}

type logger struct {
	prefix      string
	innerLogger *log.Logger
	level       int
}

func (l *logger) Info(message string, v ...interface{}) {
	l.log("[INFO]", message, v...)
}

func (l *logger) Warn(message string, v ...interface{}) {
	if l.level < LogLevelWarn {
		return
	}

	l.log("[WARN]", message, v...)
}

func (l *logger) Error(message string, v ...interface{}) {
	if l.level < LogLevelError {
		return
	}

	l.log("[ERROR]", message, v...)
}

func (l *logger) Debug(message string, v ...interface{}) {
	if l.level < LogLevelDebug {
		return
	}

	l.log("[DEBUG]", message, v...)
}

func (l *logger) log(level string, message string, v ...interface{}) {
	l.innerLogger.Printf("%v %v %v\n", l.prefix, level, fmt.Sprintf(message, v...))
}

func (l *logger) GetWriter() io.Writer {
	return l.innerLogger.Writer()
}
