package app

import (
	"context"

	"job-portal/internal/usecase"
	"job-portal/internal/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type taskSubmitter interface {
	Submit(name string, t worker.Task) error
}

type fanOut interface {
	NotifyNewJob(ctx context.Context, jobID uuid.UUID) usecase.FanOutStats
	NotifyNewSkills(ctx context.Context, userID uuid.UUID) usecase.FanOutStats
}

// matchDispatcher turns database match triggers into queued fan-outs. The
// listener goroutine never waits for a fan-out to finish.
type matchDispatcher struct {
	queue    taskSubmitter
	notifier fanOut
	log      *zap.Logger
}

func newMatchDispatcher(queue taskSubmitter, notifier fanOut, log *zap.Logger) *matchDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &matchDispatcher{queue: queue, notifier: notifier, log: log.With(zap.String("component", "match_dispatcher"))}
}

func (d *matchDispatcher) JobApproved(_ context.Context, jobID uuid.UUID) {
	err := d.queue.Submit("notify_new_job", func(ctx context.Context) error {
		d.notifier.NotifyNewJob(ctx, jobID)
		return nil
	})
	if err != nil {
		d.log.Warn("job match fan-out not queued", zap.String("job_id", jobID.String()), zap.Error(err))
	}
}

func (d *matchDispatcher) UserSkillsAdded(_ context.Context, userID uuid.UUID) {
	err := d.queue.Submit("notify_new_skills", func(ctx context.Context) error {
		d.notifier.NotifyNewSkills(ctx, userID)
		return nil
	})
	if err != nil {
		d.log.Warn("skills match fan-out not queued", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
