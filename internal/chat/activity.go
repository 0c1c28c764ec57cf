package chat

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// ActivityLog appends timestamped event lines to a durable text file. Every
// append is a self-contained open/write/close so the file handle is released
// even when a write fails. Logging is best-effort: failures are reported to
// the operational logger and never propagate to the caller.
type ActivityLog struct {
	path   string
	logger *slog.Logger
}

func NewActivityLog(path string, logger *slog.Logger) *ActivityLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLog{path: path, logger: logger}
}

// Append writes one "[yyyy-MM-dd HH:mm:ss] text" line. Safe on a nil
// receiver, which disables durable logging entirely.
func (l *ActivityLog) Append(text string) {
	if l == nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("activity log open failed", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(timeLayout), text)
	if _, err := f.WriteString(line); err != nil {
		l.logger.Error("activity log write failed", "path", l.path, "error", err)
	}
}
