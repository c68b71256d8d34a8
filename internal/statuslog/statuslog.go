// Package statuslog writes timestamped progress to the terminal, collapsing
// repetitive status lines into a single overwritten line, and mirrors every
// event to an optional append-only log file.
package statuslog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeLayout prefixes every line written to the terminal and the log file.
const TimeLayout = "2006-01-02 15:04:05"

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// Options configures a Logger.
type Options struct {
	Out     io.Writer
	Err     io.Writer
	LogFile string
	// Overwrite enables in-place status lines. When false every status is
	// written as its own line.
	Overwrite bool
	Now       func() time.Time
}

// Logger is safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	overwrite bool
	now       func() time.Time

	logFile string
	file    *zap.Logger
	sink    io.Closer

	statusOpen bool
	statusLen  int
}

// New builds a Logger. Nil writers default to the process's stdout/stderr.
func New(opts Options) *Logger {
	l := &Logger{
		out:       opts.Out,
		errOut:    opts.Err,
		overwrite: opts.Overwrite,
		now:       opts.Now,
		logFile:   strings.TrimSpace(opts.LogFile),
	}
	if l.out == nil {
		l.out = os.Stdout
	}
	if l.errOut == nil {
		l.errOut = os.Stderr
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.logFile != "" {
		l.file, l.sink = newFileLogger(l)
	}
	return l
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newFileLogger(l *Logger) (*zap.Logger, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:   l.logFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		LocalTime:  true,
	}
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(sink), zapcore.DebugLevel)
	logger := zap.New(core,
		zap.ErrorOutput(zapcore.AddSync(&writeFailureReporter{l: l})),
		zap.WithClock(clock{now: l.now}),
	)
	return logger, sink
}

// writeFailureReporter receives zap's internal write errors. zap calls it
// while l.mu is held by the logging method that triggered the write.
type writeFailureReporter struct {
	l *Logger
}

func (r *writeFailureReporter) Write(p []byte) (int, error) {
	r.l.finishStatusLocked()
	fmt.Fprintf(r.l.out, "unable to write to log file %s: %s\n", r.l.logFile, strings.TrimSpace(string(p)))
	return len(p), nil
}

type clock struct {
	now func() time.Time
}

func (c clock) Now() time.Time { return c.now() }

func (c clock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

// Log appends a timestamped line to standard output.
func (l *Logger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finishStatusLocked()
	fmt.Fprintln(l.out, l.stamp(msg))
	l.mirrorLocked(msg)
}

// Logf is Log with formatting.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Status overwrites the current terminal line with msg. The log file always
// receives it as a discrete line.
func (l *Logger) Status(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := l.stamp(msg)
	if !l.overwrite {
		fmt.Fprintln(l.out, line)
		l.mirrorLocked(msg)
		return
	}
	if l.statusOpen {
		fmt.Fprint(l.out, "\r"+strings.Repeat(" ", l.statusLen)+"\r")
	}
	fmt.Fprint(l.out, line)
	l.statusOpen = true
	l.statusLen = len(line)
	l.mirrorLocked(msg)
}

// Statusf is Status with formatting.
func (l *Logger) Statusf(format string, args ...any) {
	l.Status(fmt.Sprintf(format, args...))
}

// AfterStatus terminates an open status line so the next write starts fresh.
func (l *Logger) AfterStatus() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finishStatusLocked()
}

// Errorf writes a timestamped line to standard error.
func (l *Logger) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finishStatusLocked()
	fmt.Fprintln(l.errOut, l.stamp(msg))
	l.mirrorLocked(msg)
}

// Close flushes and releases the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finishStatusLocked()
	if l.file == nil {
		return nil
	}
	_ = l.file.Sync()
	err := l.sink.Close()
	l.file = nil
	l.sink = nil
	return err
}

func (l *Logger) finishStatusLocked() {
	if !l.statusOpen {
		return
	}
	fmt.Fprintln(l.out)
	l.statusOpen = false
	l.statusLen = 0
}

func (l *Logger) mirrorLocked(msg string) {
	if l.file == nil {
		return
	}
	l.file.Info(msg)
}

func (l *Logger) stamp(msg string) string {
	return l.now().Format(TimeLayout) + " " + msg
}
