package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	mu      sync.Mutex
	logger  *slog.Logger
	out     io.Writer = os.Stderr
	summary []summaryStatement
)

// Init installs the process logger. Console output goes through tint unless
// json is set.
func Init(verbose bool, json bool) {
	InitWriter(os.Stderr, verbose, json)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, verbose bool, json bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	mu.Lock()
	defer mu.Unlock()
	out = w
	if json {
		logger = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
		)
	} else {
		logger = slog.New(
			tint.NewHandler(w, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			}))
	}
	summary = nil
	slog.SetDefault(logger)
}

// Get returns the process logger.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

type summaryStatement struct {
	level slog.Level
	msg   string
	args  []any
}

// AddSummaryWarning logs a warning now and repeats it in the end-of-run summary.
func AddSummaryWarning(msg string, args ...any) {
	Get().Warn(msg, args...)
	mu.Lock()
	summary = append(summary, summaryStatement{slog.LevelWarn, msg, args})
	mu.Unlock()
}

// SummaryCount returns the number of statements waiting for Close.
func SummaryCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(summary)
}

// Close flushes the summary statements, framed by separator lines.
func Close() {
	mu.Lock()
	stmts := summary
	summary = nil
	w := out
	l := logger
	mu.Unlock()

	if len(stmts) == 0 {
		return
	}
	line := []byte("------------\n")
	w.Write(line)
	for _, s := range stmts {
		l.Log(context.TODO(), s.level, s.msg, s.args...)
	}
	w.Write(line)
}

func init() {
	Init(false, false)
}
