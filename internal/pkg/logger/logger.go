package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Debug and Info are only emitted in verbose mode; Warn and Error always are.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return NewWriter(os.Stderr, verbose)
}

// NewWriter creates a StdLogger writing to w.
func NewWriter(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{verbose: verbose, out: log.New(w, "readerstate ", log.LstdFlags)}
}

// Nop returns a logger that discards everything.
func Nop() *StdLogger {
	return NewWriter(io.Discard, false)
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.out.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.out.Println("[ERROR]", msg, err, fields)
}
