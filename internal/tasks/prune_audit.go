package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultAuditRetentionDays applies when a task carries no retention.
const DefaultAuditRetentionDays = 90

// AuditPruner deletes audit events created before a cutoff.
type AuditPruner interface {
	PruneBefore(cutoff time.Time) (int64, error)
}

// PruneAuditTask asks the worker to drop audit events older than KeepDays.
type PruneAuditTask struct {
	KeepDays int `json:"keep_days"`
}

func (t PruneAuditTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_audit_events",
		MaxAttempts: 2,
		Backoff:     10 * time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration: 7 * 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Cutoff is the oldest creation time that survives the task run at now.
func (t PruneAuditTask) Cutoff(now time.Time) time.Time {
	days := t.KeepDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return now.UTC().AddDate(0, 0, -days)
}

type auditPruneWorker struct {
	pruner AuditPruner
	now    func() time.Time
}

func (w auditPruneWorker) process(ctx context.Context, task PruneAuditTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cutoff := task.Cutoff(w.now())
	deleted, err := w.pruner.PruneBefore(cutoff)
	if err != nil {
		return fmt.Errorf("prune audit events before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if deleted > 0 {
		log.Printf("[TASK] Pruned %d audit events created before %s", deleted, cutoff.Format(time.DateOnly))
	}
	return nil
}

// NewPruneAuditQueue registers the pruning worker for PruneAuditTask.
func NewPruneAuditQueue(pruner AuditPruner) backlite.Queue {
	w := auditPruneWorker{pruner: pruner, now: time.Now}
	return backlite.NewQueue[PruneAuditTask](w.process)
}
