// Package notify delivers short user-facing messages (progress, success,
// failure) produced while saving schemas and entries.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Level classifies a notice.
type Level string

// Notice levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one message for the user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives user-facing messages. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Info(string)    {}
func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Logger writes notices to a zap logger.
type Logger struct {
	l *zap.Logger
}

// NewLogger creates a Notifier backed by l.
func NewLogger(l *zap.Logger) *Logger {
	return &Logger{l: l.With(zap.String("component", "notify"))}
}

func (n *Logger) Info(msg string)    { n.l.Info("notice", zap.String("level", string(LevelInfo)), zap.String("message", msg)) }
func (n *Logger) Success(msg string) { n.l.Info("notice", zap.String("level", string(LevelSuccess)), zap.String("message", msg)) }
func (n *Logger) Error(msg string)   { n.l.Warn("notice", zap.String("level", string(LevelError)), zap.String("message", msg)) }

// Recorder collects notices in order, typically for one request.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: msg})
}

// Notices returns a copy of the collected notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Multi fans out to several notifiers in order.
type Multi []Notifier

func (m Multi) Info(msg string) {
	for _, n := range m {
		n.Info(msg)
	}
}

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}
