// Package logger provides a thread-safe, bounded in-memory activity log.
// Portals stream it over the activity websocket; it is UI telemetry, not
// the process log.
package logger

import (
	"sync"
	"time"
)

// Level classifies an activity message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a single activity-log line.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Level     Level     `json:"level"`
}

// Logger keeps the most recent messages up to a fixed capacity.
type Logger struct {
	mu       sync.RWMutex
	messages []Message
	maxSize  int
}

// New creates a logger that retains at most maxSize messages.
func New(maxSize int) *Logger {
	if maxSize <= 0 {
		maxSize = 200
	}
	return &Logger{
		messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

// Log appends a message, evicting the oldest once over capacity.
func (l *Logger) Log(level Level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, Message{
		Timestamp: time.Now(),
		Text:      text,
		Level:     level,
	})
	if len(l.messages) > l.maxSize {
		l.messages = l.messages[len(l.messages)-l.maxSize:]
	}
}

// Info logs an info-level message.
func (l *Logger) Info(text string) {
	l.Log(LevelInfo, text)
}

// Warning logs a warning-level message.
func (l *Logger) Warning(text string) {
	l.Log(LevelWarning, text)
}

// Error logs an error-level message.
func (l *Logger) Error(text string) {
	l.Log(LevelError, text)
}

// GetRecent returns the most recent n messages, newest first.
func (l *Logger) GetRecent(n int) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.messages) {
		n = len(l.messages)
	}
	result := make([]Message, n)
	for i := 0; i < n; i++ {
		result[i] = l.messages[len(l.messages)-1-i]
	}
	return result
}
