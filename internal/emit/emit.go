// Package emit provides the single outbound channel for warnings, errors,
// and notes that every other databayes component writes through instead of
// talking to process-level output directly (§4.7, §9's "no global emitter"
// design note). Grounded on the teacher's internal/debug: a verbosity gate
// plus plain writes, no structured-logging dependency — the teacher itself
// is stdlib-only on this concern.
package emit

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Emitter is the three-sink interface: error, warning, and note, each
// carrying a debug flag. It is constructed once by the hosting shell and
// threaded as an explicit dependency into the Index and Bayesian engines and
// the sqlite backend (the Filter engine emits nothing) — never held as
// process-global state.
type Emitter struct {
	mu        sync.Mutex
	w         io.Writer
	verbose   bool
	requestID string
}

// New returns an Emitter writing to w. When verbose is false, calls flagged
// isDebug are suppressed; non-debug calls always print.
func New(w io.Writer, verbose bool) *Emitter {
	if w == nil {
		w = os.Stderr
	}
	return &Emitter{w: w, verbose: verbose}
}

// NewStderr returns an Emitter writing to os.Stderr, matching the teacher's
// default CLI behavior.
func NewStderr(verbose bool) *Emitter {
	return New(os.Stderr, verbose)
}

// NewRotatingFile returns an Emitter writing to a size- and age-rotated log
// file at path, grounded on the teacher's daemon logger. cmd/databayes
// selects it when a log file path is configured and NewStderr otherwise.
func NewRotatingFile(path string, verbose bool) *Emitter {
	return New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}, verbose)
}

// WithCorrelationID returns a copy of e that prefixes every emitted line
// with a fresh request id, letting a caller trace one CLI invocation's
// emitted lines through the core without threading an explicit id
// parameter into every Index/Filter/Bayesian call.
func (e *Emitter) WithCorrelationID() *Emitter {
	return &Emitter{w: e.w, verbose: e.verbose, requestID: uuid.NewString()}
}

func (e *Emitter) emit(level, message string, isDebug bool) {
	if isDebug && !e.verbose {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.requestID != "" {
		fmt.Fprintf(e.w, "[%s][%s] %s\n", e.requestID, level, message)
		return
	}
	fmt.Fprintf(e.w, "[%s] %s\n", level, message)
}

// Error reports a validation or backend failure.
func (e *Emitter) Error(message string, isDebug bool) {
	e.emit("error", message, isDebug)
}

// Warning reports a recoverable condition — a clamped counter, an empty
// sample draw — that the caller should know about but that did not fail the
// operation.
func (e *Emitter) Warning(message string, isDebug bool) {
	e.emit("warning", message, isDebug)
}

// Note reports an informational message, such as a zero-probability debug
// note when the relation total is zero (§4.6).
func (e *Emitter) Note(message string, isDebug bool) {
	e.emit("note", message, isDebug)
}
