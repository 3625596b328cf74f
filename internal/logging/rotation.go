package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"
)

// FileOptions configures a rotating log file.
type FileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingWriter returns a writer that rotates the log file once it
// grows past MaxSizeMB. Zero values use lumberjack's defaults.
func NewRotatingWriter(opts FileOptions) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}

// NewLogger builds the application logger. Output goes to stdout and, when
// opts.Filename is set, to a rotating file as well. The returned closer
// releases the file and is never nil.
func NewLogger(level slog.Level, opts FileOptions) (*slog.Logger, io.Closer) {
	if opts.Filename == "" {
		return NewStructuredLogger(os.Stdout, level), nopCloser{}
	}
	file := NewRotatingWriter(opts)
	return NewStructuredLogger(io.MultiWriter(os.Stdout, file), level), file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
