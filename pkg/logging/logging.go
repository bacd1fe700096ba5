package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/warptools/leafstore/lsapi"
)

// Level orders log severity from most severe (LevelFatal) to least (LevelTrace).
// A Logger prints a message when the message's level is at or below its threshold.
type Level int

const (
	LevelNone Level = iota
	LevelFatal
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
	LevelAll
)

var levelNames = [...]string{"none", "fatal", "error", "warn", "info", "debug", "trace", "all"}

func (l Level) String() string {
	if l < LevelNone || l > LevelAll {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// ParseLevel accepts a level name (case insensitive) or its ordinal.
//
// Errors:
//
//    - leafstore-error-invalid -- when the string names no level
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(LevelNone) && n <= int(LevelAll) {
		return Level(n), nil
	}
	return LevelNone, lsapi.ErrorInvalid("unknown log level", [2]string{"level", s})
}

// Mode selects where log records go.  Only console output is implemented.
type Mode int

const (
	ModeConsole Mode = iota
	ModeFile
)

func (m Mode) String() string {
	switch m {
	case ModeConsole:
		return "console"
	case ModeFile:
		return "file"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode accepts "console" or "file".
//
// Errors:
//
//    - leafstore-error-invalid -- when the string names no mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console":
		return ModeConsole, nil
	case "file":
		return ModeFile, nil
	}
	return ModeConsole, lsapi.ErrorInvalid("unknown log mode", [2]string{"mode", s})
}

var levelColors = map[Level]*color.Color{
	LevelFatal: color.New(color.FgHiRed, color.Bold),
	LevelError: color.New(color.FgHiRed),
	LevelWarn:  color.New(color.FgHiYellow),
	LevelInfo:  color.New(color.FgHiGreen),
	LevelDebug: color.New(color.FgGreen),
	LevelTrace: color.New(color.FgCyan),
}

type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// DefaultLogger prints warnings and worse to stderr.
func DefaultLogger() *Logger {
	return &Logger{
		out:   os.Stderr,
		level: LevelWarn,
	}
}

// Discard returns a logger that prints nothing.
func Discard() *Logger {
	return &Logger{
		out:   io.Discard,
		level: LevelNone,
	}
}

// NewLogger returns a console logger writing to out.
// Selecting ModeFile fails immediately; there is no file sink.
//
// Errors:
//
//    - leafstore-error-unsupported -- when mode is anything but ModeConsole
func NewLogger(out io.Writer, level Level, mode Mode) (*Logger, error) {
	if mode != ModeConsole {
		return nil, lsapi.ErrorUnsupported("log mode " + mode.String())
	}
	return &Logger{
		out:   out,
		level: level,
	}, nil
}

// Level returns the logger's threshold.  A nil logger is at LevelNone.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelNone
	}
	return l.level
}

// Enabled reports whether a record at the given level would be printed.
func (l *Logger) Enabled(level Level) bool {
	return level > LevelNone && level <= l.Level()
}

func (l *Logger) Log(level Level, tag string, f string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	print(l.out, level, tag, f, args...)
}

func (l *Logger) Fatal(tag string, f string, args ...interface{}) {
	l.Log(LevelFatal, tag, f, args...)
}

func (l *Logger) Error(tag string, f string, args ...interface{}) {
	l.Log(LevelError, tag, f, args...)
}

func (l *Logger) Warn(tag string, f string, args ...interface{}) {
	l.Log(LevelWarn, tag, f, args...)
}

func (l *Logger) Info(tag string, f string, args ...interface{}) {
	l.Log(LevelInfo, tag, f, args...)
}

func (l *Logger) Debug(tag string, f string, args ...interface{}) {
	l.Log(LevelDebug, tag, f, args...)
}

func (l *Logger) Trace(tag string, f string, args ...interface{}) {
	l.Log(LevelTrace, tag, f, args...)
}

// print writes one line per line of the formatted message.
// Write errors are dropped: logging never fails the caller.
func print(w io.Writer, level Level, tag, f string, args ...interface{}) {
	levelColor, ok := levelColors[level]
	if !ok {
		levelColor = color.New(color.Reset)
	}
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		fmt.Fprintf(w, "%s %s  %s\n",
			levelColor.Sprintf("%-5s", strings.ToUpper(level.String())),
			color.HiBlueString(tag),
			line)
	}
}
