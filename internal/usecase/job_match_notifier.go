package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/matching"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"
	"job-portal/internal/metrics"
	"job-portal/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	triggerJobApproved = "job_approved"
	triggerSkillsAdded = "skills_added"
)

var errNotificationsTableMissing = errors.New("notifications table missing")

// NotificationListener is told about every notification the notifier creates.
type NotificationListener interface {
	NotificationCreated(ctx context.Context, n notification.Notification)
}

// FanOutStats summarises one fan-out. Candidates counts every (user, job) pair
// that was scored.
type FanOutStats struct {
	Candidates int
	Qualified  int
	Created    int
	Skipped    int
	Failed     int
}

type MatchNotifierConfig struct {
	Threshold    float64
	RecentWindow time.Duration
	Clock        func() time.Time
}

type JobMatchNotifier struct {
	jobs          repository.JobRepository
	users         repository.UserSkillRepository
	notifications repository.NotificationRepository

	threshold    float64
	recentWindow time.Duration
	now          func() time.Time

	log       *zap.Logger
	listeners []NotificationListener
}

func NewJobMatchNotifier(
	jobs repository.JobRepository,
	users repository.UserSkillRepository,
	notifications repository.NotificationRepository,
	cfg MatchNotifierConfig,
	log *zap.Logger,
) *JobMatchNotifier {
	if cfg.Threshold <= 0 {
		cfg.Threshold = matching.DefaultThreshold
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 30 * 24 * time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JobMatchNotifier{
		jobs:          jobs,
		users:         users,
		notifications: notifications,
		threshold:     cfg.Threshold,
		recentWindow:  cfg.RecentWindow,
		now:           cfg.Clock,
		log:           log.With(zap.String("component", "job_match_notifier")),
	}
}

// AddListener registers l. Not safe to call concurrently with a fan-out.
func (n *JobMatchNotifier) AddListener(l NotificationListener) {
	if l != nil {
		n.listeners = append(n.listeners, l)
	}
}

// NotifyNewJob scores an approved job against every user with skills and
// notifies each qualifying user once.
func (n *JobMatchNotifier) NotifyNewJob(ctx context.Context, jobID uuid.UUID) FanOutStats {
	var stats FanOutStats
	log := n.log.With(zap.String("trigger", triggerJobApproved), zap.String("job_id", jobID.String()))
	defer n.observe(triggerJobApproved, time.Now(), &stats, log)

	j, err := n.jobs.FindWithCompany(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			log.Warn("job not found")
			return stats
		}
		log.Error("load job failed", zap.Error(err))
		return stats
	}
	if !j.IsApproved() {
		log.Info("job not approved, skipping", zap.String("status", string(j.Status)))
		return stats
	}

	users, err := n.users.ListUsersWithSkills(ctx)
	if err != nil {
		log.Error("load users failed", zap.Error(err))
		return stats
	}

	for _, u := range users {
		if ctx.Err() != nil {
			log.Warn("fan-out cancelled", zap.Error(ctx.Err()))
			return stats
		}
		if !u.HasSkills() {
			continue
		}
		if err := n.consider(ctx, u, j, &stats, log); errors.Is(err, errNotificationsTableMissing) {
			log.Warn("notifications table does not exist yet, skipping fan-out")
			return stats
		}
	}
	return stats
}

// NotifyNewSkills scores the user's full skill set against approved jobs
// created within the recent window.
func (n *JobMatchNotifier) NotifyNewSkills(ctx context.Context, userID uuid.UUID) FanOutStats {
	var stats FanOutStats
	log := n.log.With(zap.String("trigger", triggerSkillsAdded), zap.String("user_id", userID.String()))
	defer n.observe(triggerSkillsAdded, time.Now(), &stats, log)

	u, err := n.users.FindUserWithSkills(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("user not found")
			return stats
		}
		log.Error("load user skills failed", zap.Error(err))
		return stats
	}
	if !u.HasSkills() {
		log.Debug("user has no skills, skipping")
		return stats
	}

	since := n.now().Add(-n.recentWindow)
	jobs, err := n.jobs.ListApprovedSince(ctx, since)
	if err != nil {
		log.Error("load recent jobs failed", zap.Error(err))
		return stats
	}

	for _, j := range jobs {
		if ctx.Err() != nil {
			log.Warn("fan-out cancelled", zap.Error(ctx.Err()))
			return stats
		}
		if err := n.consider(ctx, u, j, &stats, log); errors.Is(err, errNotificationsTableMissing) {
			log.Warn("notifications table does not exist yet, skipping fan-out")
			return stats
		}
	}
	return stats
}

// consider scores one (user, job) pair and creates the notification when it
// qualifies and none exists. Only errNotificationsTableMissing is returned;
// other failures are logged and counted.
func (n *JobMatchNotifier) consider(ctx context.Context, u user.WithSkills, j job.WithCompany, stats *FanOutStats, log *zap.Logger) error {
	stats.Candidates++

	res := matching.Score(u.SkillNames(), matching.JobText{
		Title:        j.Title,
		Requirements: j.Requirements,
		Description:  j.Description,
	})
	if !matching.Qualifies(res.MatchPercentage, n.threshold) {
		return nil
	}
	stats.Qualified++

	exists, err := n.notifications.ExistsJobMatch(ctx, u.ID, j.ID)
	if err != nil {
		return n.candidateFailed(err, "check existing notification failed", u, j, stats, log)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	created, err := n.notifications.Create(ctx, newJobMatchNotification(u.ID, j, res))
	if err != nil {
		return n.candidateFailed(err, "create notification failed", u, j, stats, log)
	}
	stats.Created++
	log.Debug("job match notification created",
		zap.String("user_id", u.ID.String()),
		zap.String("job_id", j.ID.String()),
		zap.Float64("match_percentage", res.MatchPercentage),
	)
	n.publish(ctx, created)
	return nil
}

func (n *JobMatchNotifier) candidateFailed(err error, msg string, u user.WithSkills, j job.WithCompany, stats *FanOutStats, log *zap.Logger) error {
	if database.IsUndefinedTable(err) {
		return errNotificationsTableMissing
	}
	stats.Failed++
	log.Error(msg,
		zap.String("user_id", u.ID.String()),
		zap.String("job_id", j.ID.String()),
		zap.Error(err),
	)
	return nil
}

func (n *JobMatchNotifier) publish(ctx context.Context, created notification.Notification) {
	for _, l := range n.listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					n.log.Error("notification listener panicked", zap.Any("panic", r))
				}
			}()
			l.NotificationCreated(ctx, created)
		}()
	}
}

func (n *JobMatchNotifier) observe(trigger string, start time.Time, stats *FanOutStats, log *zap.Logger) {
	metrics.FanOutsTotal.WithLabelValues(trigger).Inc()
	metrics.FanOutDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	metrics.NotificationsCreated.WithLabelValues(trigger).Add(float64(stats.Created))
	metrics.MatchCandidateFailures.WithLabelValues(trigger).Add(float64(stats.Failed))

	log.Info("fan-out finished",
		zap.Int("candidates", stats.Candidates),
		zap.Int("qualified", stats.Qualified),
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Duration("took", time.Since(start)),
	)
}

func newJobMatchNotification(userID uuid.UUID, j job.WithCompany, res matching.Result) notification.Notification {
	score, pct := res.MatchScore, res.MatchPercentage
	return notification.Notification{
		UserID:          userID,
		JobID:           j.ID,
		Type:            notification.TypeJobMatch,
		Title:           "New Job Match: " + j.Title,
		Message:         fmt.Sprintf("A new job at %s matches your skills! Match percentage: %.1f%%", j.Company.Name, pct),
		MatchScore:      &score,
		MatchPercentage: &pct,
		MatchedSkills:   res.MatchedSkills,
	}
}
