package retention

import (
	"context"
	"errors"
	"time"

	"job-portal/internal/metrics"

	"go.uber.org/zap"
)

const (
	KindTokens        = "tokens"
	KindNotifications = "notifications"

	lockKeyPrefix = "sweeper:lock:"
)

// ErrLocked is returned when another instance holds the sweep lock.
var ErrLocked = errors.New("sweep already running elsewhere")

type TokenPruner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Locker grants a short-lived exclusive lock across instances. release is
// only valid when ok is true.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// UnreadInvalidator drops every cached unread count.
type UnreadInvalidator interface {
	InvalidateAllUnread(ctx context.Context) error
}

type Config struct {
	NotificationMaxAge     time.Duration
	TokenSweepSpec         string
	NotificationSweepSpec  string
	NotificationSweepDelay time.Duration
	LockTTL                time.Duration
	RunTimeout             time.Duration
	Clock                  func() time.Time
}

func (c Config) withDefaults() Config {
	if c.NotificationMaxAge <= 0 {
		c.NotificationMaxAge = 90 * 24 * time.Hour
	}
	if c.TokenSweepSpec == "" {
		c.TokenSweepSpec = "0 * * * *"
	}
	if c.NotificationSweepSpec == "" {
		c.NotificationSweepSpec = "@every 24h"
	}
	if c.NotificationSweepDelay <= 0 {
		c.NotificationSweepDelay = 5 * time.Second
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Minute
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 5 * time.Minute
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

type Sweeper struct {
	tokens        TokenPruner
	notifications NotificationPruner
	scheduler     Scheduler
	locker        Locker
	unread        UnreadInvalidator
	cfg           Config
	log           *zap.Logger
}

// NewSweeper builds a Sweeper. locker may be nil, in which case sweeps run
// unlocked.
func NewSweeper(tokens TokenPruner, notifications NotificationPruner, scheduler Scheduler, locker Locker, cfg Config, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		tokens:        tokens,
		notifications: notifications,
		scheduler:     scheduler,
		locker:        locker,
		cfg:           cfg.withDefaults(),
		log:           log.With(zap.String("component", "retention_sweeper")),
	}
}

// WithUnreadCache makes notification sweeps that delete rows drop the cached
// unread counts, since swept rows may have been unread.
func (s *Sweeper) WithUnreadCache(c UnreadInvalidator) *Sweeper {
	s.unread = c
	return s
}

// SweepExpiredTokens deletes password reset tokens that expired before now.
func (s *Sweeper) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return s.sweep(ctx, KindTokens, func(ctx context.Context, now time.Time) (int64, error) {
		return s.tokens.DeleteExpired(ctx, now)
	})
}

// SweepOldNotifications deletes notifications older than the retention age.
func (s *Sweeper) SweepOldNotifications(ctx context.Context) (int64, error) {
	n, err := s.sweep(ctx, KindNotifications, func(ctx context.Context, now time.Time) (int64, error) {
		return s.notifications.DeleteOlderThan(ctx, now.Add(-s.cfg.NotificationMaxAge))
	})
	if err == nil && n > 0 && s.unread != nil {
		if ierr := s.unread.InvalidateAllUnread(ctx); ierr != nil {
			s.log.Warn("invalidate unread cache failed", zap.Error(ierr))
		}
	}
	return n, err
}

func (s *Sweeper) sweep(ctx context.Context, kind string, run func(context.Context, time.Time) (int64, error)) (int64, error) {
	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, lockKeyPrefix+kind, s.cfg.LockTTL)
		switch {
		case err != nil:
			s.log.Warn("sweep lock unavailable, running unlocked", zap.String("kind", kind), zap.Error(err))
		case !ok:
			return 0, ErrLocked
		default:
			defer release()
		}
	}

	n, err := run(ctx, s.cfg.Clock().UTC())
	if err != nil {
		metrics.SweepFailures.WithLabelValues(kind).Inc()
		return 0, err
	}
	metrics.SweepDeleted.WithLabelValues(kind).Add(float64(n))
	return n, nil
}

// Start registers both sweeps on the scheduler, queues the delayed first
// notification sweep and starts the scheduler. Runs derive their context
// from ctx.
func (s *Sweeper) Start(ctx context.Context) error {
	if err := s.scheduler.Every(s.cfg.TokenSweepSpec, func() { s.runScheduled(ctx, KindTokens) }); err != nil {
		return err
	}
	if err := s.scheduler.Every(s.cfg.NotificationSweepSpec, func() { s.runScheduled(ctx, KindNotifications) }); err != nil {
		return err
	}
	s.scheduler.After(s.cfg.NotificationSweepDelay, func() { s.runScheduled(ctx, KindNotifications) })
	s.scheduler.Start()

	s.log.Info("retention sweeps scheduled",
		zap.String("token_spec", s.cfg.TokenSweepSpec),
		zap.String("notification_spec", s.cfg.NotificationSweepSpec),
		zap.Duration("notification_first_run", s.cfg.NotificationSweepDelay),
		zap.Duration("notification_max_age", s.cfg.NotificationMaxAge),
	)
	return nil
}

// Stop halts scheduling and waits for running sweeps up to ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.scheduler.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("timed out waiting for running sweeps")
	}
}

func (s *Sweeper) runScheduled(parent context.Context, kind string) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.cfg.RunTimeout)
	defer cancel()

	var (
		n   int64
		err error
	)
	switch kind {
	case KindTokens:
		n, err = s.SweepExpiredTokens(ctx)
	case KindNotifications:
		n, err = s.SweepOldNotifications(ctx)
	}

	switch {
	case errors.Is(err, ErrLocked):
		s.log.Debug("sweep skipped, lock held elsewhere", zap.String("kind", kind))
	case err != nil:
		s.log.Error("sweep failed", zap.String("kind", kind), zap.Error(err))
	default:
		s.log.Info("sweep finished", zap.String("kind", kind), zap.Int64("deleted", n))
	}
}
