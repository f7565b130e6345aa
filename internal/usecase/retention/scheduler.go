package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs functions on cron specs and after one-off delays.
type Scheduler interface {
	Every(spec string, fn func()) error
	After(d time.Duration, fn func())
	Start()
	Stop() context.Context
}

// CronScheduler is the robfig/cron backed Scheduler. Specs are evaluated in
// UTC and a run is skipped while the previous run of the same entry is still
// going.
type CronScheduler struct {
	cron *cron.Cron

	mu     sync.Mutex
	timers []*time.Timer
}

func NewCronScheduler(log *zap.Logger) *CronScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log: log.Sugar()}
	return &CronScheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

func (s *CronScheduler) Every(spec string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", spec, err)
	}
	return nil
}

func (s *CronScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, time.AfterFunc(d, fn))
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop cancels pending delayed runs and stops the cron. The returned context
// is done once running jobs have finished.
func (s *CronScheduler) Stop() context.Context {
	s.mu.Lock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.mu.Unlock()
	return s.cron.Stop()
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
