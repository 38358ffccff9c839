package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// EarlyLog covers the window before the real logger exists, i.e. config and
// logger construction failures. Output matches the zap JSON field layout so
// startup lines land in the same log pipeline as everything else.
type EarlyLog struct{}

func NewEarlyLog() *EarlyLog {
	return &EarlyLog{}
}

func (l *EarlyLog) Info(msg string, args ...interface{}) {
	l.emit(os.Stdout, "info", msg, args...)
}

func (l *EarlyLog) Warn(msg string, args ...interface{}) {
	l.emit(os.Stderr, "warn", msg, args...)
}

func (l *EarlyLog) Error(msg string, args ...interface{}) {
	l.emit(os.Stderr, "error", msg, args...)
}

func (l *EarlyLog) emit(out *os.File, level, msg string, args ...interface{}) {
	line, err := json.Marshal(map[string]string{
		"timestamp": time.Now().Format(time.RFC3339),
		"level":     level,
		"message":   fmt.Sprintf(msg, args...),
	})
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", level, fmt.Sprintf(msg, args...))
		return
	}
	fmt.Fprintf(out, "%s\n", line)
}
