package report

import (
	"log/slog"
	"sync"
	"time"
)

// Handler receives errors reported by the engine.
type Handler interface {
	HandleError(err *Error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(err *Error)

// HandleError calls f(err).
func (f HandlerFunc) HandleError(err *Error) {
	f(err)
}

var (
	// DefaultHandler is the global error handler.
	DefaultHandler Handler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

func getHandler() Handler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to h, or to the global handler when h is nil.
// If err.Timestamp is zero, it is set to the current time.
func Report(h Handler, err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h == nil {
		h = getHandler()
	}
	if h != nil {
		h.HandleError(err)
	}
}

// LogHandler writes errors to a slog.Logger.
// Rejected operations are expected steady state and are not logged.
type LogHandler struct {
	// Logger is used for output; slog.Default() when nil.
	Logger *slog.Logger
}

// HandleError logs err at a level derived from its kind.
func (h *LogHandler) HandleError(err *Error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Field != "" {
		attrs = append(attrs, slog.String("field", err.Field))
	}
	if err.Err != nil {
		attrs = append(attrs, slog.String("error", err.Err.Error()))
	}
	switch err.Kind {
	case KindRejected:
		return
	case KindBackend, KindInvariant:
		logger.Error("coledit error", attrs...)
	default:
		logger.Warn("coledit warning", attrs...)
	}
}

// Recorder collects reported errors. It is useful in tests.
type Recorder struct {
	mu     sync.Mutex
	Errors []*Error
}

// HandleError records err.
func (r *Recorder) HandleError(err *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}

// Kinds returns the kinds of all recorded errors in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, 0, len(r.Errors))
	for _, e := range r.Errors {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Reset discards recorded errors.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = nil
}
