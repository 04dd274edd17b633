// Package logger is the leveled logging sink shared by the resolvers and the
// CLI commands. A nil *Logger is valid and drops everything, so library-style
// callers can resolve configuration without wiring any output.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger wraps a charmbracelet logger with the two mode switches resolution
// needs: verbose (debug level) and interactive (styled terminal output).
type Logger struct {
	cl          *log.Logger
	verbose     bool
	interactive bool
}

// New returns a logger writing human-readable output to w.
func New(w io.Writer) *Logger {
	cl := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           log.InfoLevel,
	})
	return &Logger{cl: cl, interactive: true}
}

// Default returns a stderr logger, leaving stdout free for command output.
func Default() *Logger {
	return New(os.Stderr)
}

// SetVerbose toggles debug-level output.
func (l *Logger) SetVerbose(verbose bool) {
	if l == nil {
		return
	}
	l.verbose = verbose
	if verbose {
		l.cl.SetLevel(log.DebugLevel)
	} else {
		l.cl.SetLevel(log.InfoLevel)
	}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

// SetInteractive toggles styled terminal output. Non-interactive mode strips
// colors so logs stay clean in CI capture.
func (l *Logger) SetInteractive(on bool) {
	if l == nil {
		return
	}
	l.interactive = on
	if !on {
		l.cl.SetColorProfile(termenv.Ascii)
	}
}

// Interactive reports whether styled output is enabled.
func (l *Logger) Interactive() bool {
	return l != nil && l.interactive
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.cl.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.cl.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.cl.Warnf(format, args...)
}
