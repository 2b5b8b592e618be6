// Package logger provides leveled console logging for diagnostics. Log
// output goes to stderr so it never interleaves with matches printed on
// stdout, and every method is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes timestamped, optionally colored log lines.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	warnColor   *color.Color
	errorColor  *color.Color
	debugColor  *color.Color
}

// NewConsoleLogger creates a logger writing to w at the given level.
// Levels are trace, debug, info, warn and error; anything else falls
// back to info. Colors are enabled only when w is a terminal.
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(w),
		warnColor:   color.New(color.FgYellow),
		errorColor:  color.New(color.FgRed),
		debugColor:  color.New(color.FgCyan),
	}
}

// Tracef logs at trace level.
func (l *ConsoleLogger) Tracef(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log(levelTrace, nil, format, args...)
}

// Debugf logs at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log(levelDebug, l.debugColor, format, args...)
}

// Infof logs at info level.
func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log(levelInfo, nil, format, args...)
}

// Warnf logs at warn level.
func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log(levelWarn, l.warnColor, format, args...)
}

// Errorf logs at error level.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log(levelError, l.errorColor, format, args...)
}

func (l *ConsoleLogger) log(level int, c *color.Color, format string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	if l.colorOutput && c != nil {
		line = c.Sprint(line)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	fmt.Fprintln(l.writer, line)
}

func (l *ConsoleLogger) shouldLog(level int) bool {
	return level >= logLevelToInt(l.logLevel)
}

func normalizeLogLevel(logLevel string) string {
	logLevel = strings.ToLower(strings.TrimSpace(logLevel))
	switch logLevel {
	case "trace", "debug", "info", "warn", "error":
		return logLevel
	default:
		return "info"
	}
}

func logLevelToInt(logLevel string) int {
	switch logLevel {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
