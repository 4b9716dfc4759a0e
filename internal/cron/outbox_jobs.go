package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

const (
	OutboxRetentionJobName = "outbox_retention"
	defaultOutboxRetention = 30 * 24 * time.Hour
)

type publishedPruner interface {
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type outboxRetentionJob struct {
	logg      *logger.Logger
	repo      publishedPruner
	retention time.Duration
	now       func() time.Time
}

// NewOutboxRetentionJob deletes outbox rows published longer than retention ago.
// A zero retention falls back to 30 days.
func NewOutboxRetentionJob(logg *logger.Logger, repo publishedPruner, retention time.Duration) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if retention <= 0 {
		retention = defaultOutboxRetention
	}
	return &outboxRetentionJob{logg: logg, repo: repo, retention: retention, now: time.Now}, nil
}

func (j *outboxRetentionJob) Name() string { return OutboxRetentionJobName }

func (j *outboxRetentionJob) Run(ctx context.Context) (int, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeletePublishedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", OutboxRetentionJobName, err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "published outbox rows pruned")
	return int(deleted), nil
}
