// Package audit records admin actions in an append-only text file that is
// shipped to admins with the periodic backup.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/m3rciful/lecturebot/core/logger"
)

// Log appends one line per admin action.
type Log struct {
	mu   sync.Mutex
	path string
}

// NewLog creates the audit log writer. An empty path disables file output;
// actions are still logged through the structured logger.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the audit file location, empty when disabled.
func (l *Log) Path() string {
	return l.path
}

// Record writes "[ts] Admin(id) -> action". File errors are logged and
// swallowed: auditing must never fail the admin's operation.
func (l *Log) Record(adminID int64, action string) {
	logger.SVCAdmins.Info("admin action",
		slog.String("event", "audit.record"),
		slog.Int64("admin_id", adminID),
		slog.String("payload", action),
	)
	if l == nil || l.path == "" {
		return
	}

	line := fmt.Sprintf("[%s] Admin(%d) -> %s\n",
		time.Now().Format("2006-01-02 15:04:05"), adminID, action)

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SVCAdmins.Warn("audit file open failed",
			slog.String("event", "audit.record"),
			slog.String("err", err.Error()),
		)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		logger.SVCAdmins.Warn("audit file write failed",
			slog.String("event", "audit.record"),
			slog.String("err", err.Error()),
		)
	}
}
