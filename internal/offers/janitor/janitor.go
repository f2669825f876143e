package janitor

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/offerdesk/offer-backend/internal/offers/repository"
)

// Janitor periodically reconciles each user's draft catalog against the
// stored bodies. The KV store gives no cross-key transactions, so a crash
// between a body write and a catalog write can leave orphans; the sweep
// removes catalog entries without bodies and re-indexes bodies the catalog
// lost.
type Janitor struct {
	repo *repository.DraftRepository
	log  *zap.Logger
	cron *cron.Cron
}

func New(repo *repository.DraftRepository, log *zap.Logger) *Janitor {
	return &Janitor{repo: repo, log: log}
}

// Start schedules the hourly sweep.
func (j *Janitor) Start() {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		j.log.Error("failed to schedule catalog sweep", zap.Error(err))
		return
	}

	j.cron = c
	c.Start()
	j.log.Info("catalog janitor started (hourly sweep)")
}

// Stop halts the schedule. In-flight sweeps finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// RunOnce sweeps every known user's catalog once.
func (j *Janitor) RunOnce(ctx context.Context) {
	users, err := j.repo.Users(ctx)
	if err != nil {
		j.log.Warn("catalog sweep aborted", zap.Error(err))
		return
	}

	for _, user := range users {
		dropped, indexed, err := j.repo.RepairCatalog(ctx, user)
		if err != nil {
			j.log.Warn("catalog repair failed", zap.String("user_id", user), zap.Error(err))
			continue
		}
		if dropped > 0 || indexed > 0 {
			j.log.Info("catalog repaired",
				zap.String("user_id", user),
				zap.Int("dropped_metas", dropped),
				zap.Int("indexed_bodies", indexed))
		}
	}
}
