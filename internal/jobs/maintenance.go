package jobs

import (
	"context"
	"log/slog"
)

// JobPruneLoginLogs is the metrics and log name of the login log retention job.
const JobPruneLoginLogs = "prune_login_logs"

// LoginLogPruner removes login logs past their retention.
type LoginLogPruner interface {
	PruneLoginLogs(ctx context.Context) (int64, error)
}

// PruneLoginLogs returns a job that applies the login log retention policy.
func PruneLoginLogs(pruner LoginLogPruner, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		removed, err := pruner.PruneLoginLogs(ctx)
		if err != nil {
			return err
		}
		logger.Info("Pruned login logs", slog.Int64("removed", removed))
		return nil
	}
}

// RegisterMaintenance schedules every maintenance job on s.
func RegisterMaintenance(s *Scheduler, spec string, pruner LoginLogPruner) error {
	return s.Register(JobPruneLoginLogs, spec, PruneLoginLogs(pruner, s.logger))
}
