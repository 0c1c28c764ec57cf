package chat

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultStatusInterval = 10 * time.Second

// StatusReporter periodically emits one formatted line with the registry
// size, process uptime, and last routed message. It runs independently of
// client activity and tolerates an empty server.
type StatusReporter struct {
	registry *Registry
	interval time.Duration
	started  time.Time
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func NewStatusReporter(registry *Registry, interval time.Duration, logger *slog.Logger) *StatusReporter {
	if interval <= 0 {
		interval = defaultStatusInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusReporter{
		registry: registry,
		interval: interval,
		started:  time.Now(),
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (sr *StatusReporter) Run() {
	defer close(sr.doneCh)

	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sr.logger.Info(sr.statusLine())
		case <-sr.stopCh:
			return
		}
	}
}

// Stop signals the Run loop to exit. Repeated calls are no-ops.
func (sr *StatusReporter) Stop() {
	sr.stopOnce.Do(func() {
		close(sr.stopCh)
	})
}

// Wait blocks until the Run loop has completely finished.
func (sr *StatusReporter) Wait() {
	<-sr.doneCh
}

func (sr *StatusReporter) statusLine() string {
	return fmt.Sprintf("INFO -> Usuarios conectados: %d | Tiempo activo: %s | Último mensaje: %s",
		sr.registry.Count(),
		formatUptime(time.Since(sr.started)),
		sr.registry.LastMessage())
}

func formatUptime(d time.Duration) string {
	s := int64(d.Seconds())
	return fmt.Sprintf("%02dh:%02dm:%02ds", s/3600, (s%3600)/60, s%60)
}
