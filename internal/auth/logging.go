package auth

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// AuthLogger appends authentication attempts to <dir>/auth.log and mirrors
// them to slog. The file is only written when enabled.
type AuthLogger struct {
	enabled bool
	path    string
	mu      sync.Mutex
}

// NewAuthLogger creates an AuthLogger writing under dir
func NewAuthLogger(enabled bool, dir string) *AuthLogger {
	return &AuthLogger{enabled: enabled, path: filepath.Join(dir, "auth.log")}
}

// LogAuthAttempt records one attempt.
// Line format: timestamp (RFC3339) | level | authType | status | identifier? | message?
// status: Success|Fail
func (l *AuthLogger) LogAuthAttempt(level string, authType string, status string, identifier string, message string) {
	slog.Debug("auth attempt",
		slog.String("type", authType),
		slog.String("status", status),
		slog.String("identifier", identifier),
		slog.String("message", message),
	)
	if l == nil || !l.enabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// best-effort: a logging failure never fails the request
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	ts := time.Now().UTC().Format(time.RFC3339)
	parts := []string{ts, level, authType, status}
	if identifier != "" {
		parts = append(parts, identifier)
	}
	if message != "" {
		parts = append(parts, message)
	}
	_, _ = f.WriteString(strings.Join(parts, " | ") + "\n")
}
