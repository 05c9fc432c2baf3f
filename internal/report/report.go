// Package report keeps the single error message currently shown to the user.
package report

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Reporter holds at most one message. A new report overwrites the previous one.
type Reporter struct {
	mu      sync.RWMutex
	message string
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{logger: logger}
}

// Report makes message the current error. Blank messages are ignored.
func (r *Reporter) Report(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	r.mu.Lock()
	previous := r.message
	r.message = message
	r.mu.Unlock()

	r.logger.Debug("error reported", zap.String("message", message), zap.String("replaced", previous))
}

// Clear drops the current error, if any.
func (r *Reporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.message = ""
}

// Current returns the active message and whether there is one.
func (r *Reporter) Current() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.message, r.message != ""
}
