package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-relay/observability"
)

// MonitorWorker periodically logs the server counters together with the
// process's own resource usage. Logs are the only metrics surface.
type MonitorWorker struct {
	log        *slog.Logger
	monitoring *observability.Monitoring
	interval   time.Duration
}

func NewMonitorWorker(log *slog.Logger, monitoring *observability.Monitoring, interval time.Duration) *MonitorWorker {
	return &MonitorWorker{log: log, monitoring: monitoring, interval: interval}
}

func (w *MonitorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitoring.Snapshot()
			w.log.Info("Server stats",
				"active_connections", stats.ActiveConnections,
				"connections_opened", stats.ConnectionsOpened,
				"private_relayed", stats.PrivateRelayed,
				"group_relayed", stats.GroupRelayed,
				"history_append_failed", stats.HistoryAppendFailed,
				"moderated_messages", stats.ModeratedMessages,
				"ignored_client_lines", stats.IgnoredClientLines,
				"ram_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
