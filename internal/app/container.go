package app

import (
	"context"
	"errors"
	"time"

	"job-portal/internal/config"
	dbpostgres "job-portal/internal/database/postgres"
	"job-portal/internal/infrastructure/cache"
	"job-portal/internal/infrastructure/events"
	"job-portal/internal/repository"
	"job-portal/internal/usecase"
	"job-portal/internal/usecase/retention"
	"job-portal/internal/worker"
	"job-portal/internal/ws"

	"go.uber.org/zap"
)

const (
	connectTimeout  = 10 * time.Second
	listenerBackoff = 5 * time.Second
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Log    *zap.Logger

	DB    *dbpostgres.Pool
	Cache *cache.Redis

	Jobs          *repository.PostgresJobRepository
	UserSkills    *repository.PostgresUserSkillRepository
	Notifications *repository.PostgresNotificationRepository
	ResetTokens   *repository.PostgresPasswordResetTokenRepository

	Notifier         *usecase.JobMatchNotifier
	Mailbox          *usecase.Mailbox
	PersonalizedJobs *usecase.PersonalizedJobs

	Hub      *ws.Hub
	Queue    *worker.Queue
	Listener *events.Listener
	Sweeper  *retention.Sweeper
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  cache.NewRedis(ctx, cfg.Redis, log),

		Jobs:          repository.NewPostgresJobRepository(db),
		UserSkills:    repository.NewPostgresUserSkillRepository(db),
		Notifications: repository.NewPostgresNotificationRepository(db),
		ResetTokens:   repository.NewPostgresPasswordResetTokenRepository(db),
	}

	c.Notifier = usecase.NewJobMatchNotifier(c.Jobs, c.UserSkills, c.Notifications, usecase.MatchNotifierConfig{
		Threshold:    cfg.Matching.Threshold,
		RecentWindow: cfg.Matching.RecentWindow,
	}, log)
	c.Mailbox = usecase.NewMailbox(c.Notifications, c.Cache, log)
	c.PersonalizedJobs = usecase.NewPersonalizedJobs(c.Jobs, c.UserSkills, log)

	c.Hub = ws.NewHub(log)
	c.Notifier.AddListener(c.Mailbox)
	c.Notifier.AddListener(ws.NewPusher(c.Hub, log))

	c.Queue = worker.NewQueue(cfg.Worker.Workers, cfg.Worker.QueueSize, cfg.Worker.TaskTimeout, log)
	c.Listener = events.NewListener(db.PGX(), newMatchDispatcher(c.Queue, c.Notifier, log), listenerBackoff, log)

	c.Sweeper = retention.NewSweeper(
		c.ResetTokens,
		c.Notifications,
		retention.NewCronScheduler(log),
		c.Cache,
		retention.Config{
			NotificationMaxAge:     cfg.Retention.NotificationMaxAge,
			TokenSweepSpec:         cfg.Retention.TokenSweepSpec,
			NotificationSweepSpec:  cfg.Retention.NotificationSweepSpec,
			NotificationSweepDelay: cfg.Retention.NotificationSweepDelay,
			LockTTL:                cfg.Retention.LockTTL,
		},
		log,
	).WithUnreadCache(c.Cache)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
