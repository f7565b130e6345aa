package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	ChannelJobApproved     = "job_approved"
	ChannelUserSkillsAdded = "user_skills_added"

	defaultBackoff = 5 * time.Second
)

var errMalformedPayload = errors.New("malformed payload")

// Sink receives decoded match triggers. Implementations must not block.
type Sink interface {
	JobApproved(ctx context.Context, jobID uuid.UUID)
	UserSkillsAdded(ctx context.Context, userID uuid.UUID)
}

type jobApprovedPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

type userSkillsAddedPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// Listener holds a dedicated connection that LISTENs for match triggers
// raised by database triggers and hands them to a Sink.
type Listener struct {
	pool    *pgxpool.Pool
	sink    Sink
	backoff time.Duration
	log     *zap.Logger
}

func NewListener(pool *pgxpool.Pool, sink Sink, backoff time.Duration, log *zap.Logger) *Listener {
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{
		pool:    pool,
		sink:    sink,
		backoff: backoff,
		log:     log.With(zap.String("component", "pg_listener")),
	}
}

// Run listens until ctx is cancelled, reconnecting after connection loss.
func (l *Listener) Run(ctx context.Context) {
	for ctx.Err() == nil {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn("listener connection lost, reconnecting", zap.Duration("backoff", l.backoff), zap.Error(err))

		t := time.NewTimer(l.backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	pc, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	// LISTEN state is per connection; keep it out of the pool.
	conn := pc.Hijack()
	defer conn.Close(context.Background())

	for _, ch := range []string{ChannelJobApproved, ChannelUserSkillsAdded} {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("listen %s: %w", ch, err)
		}
	}
	l.log.Info("listening for match triggers")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := l.Dispatch(ctx, n.Channel, n.Payload); err != nil {
			l.log.Warn("ignoring notification",
				zap.String("channel", n.Channel),
				zap.String("payload", n.Payload),
				zap.Error(err),
			)
		}
	}
}

// Dispatch decodes one notification and forwards it to the sink.
func (l *Listener) Dispatch(ctx context.Context, channel, payload string) error {
	switch channel {
	case ChannelJobApproved:
		var p jobApprovedPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil || p.JobID == uuid.Nil {
			return fmt.Errorf("%w: %s", errMalformedPayload, channel)
		}
		l.sink.JobApproved(ctx, p.JobID)
	case ChannelUserSkillsAdded:
		var p userSkillsAddedPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil || p.UserID == uuid.Nil {
			return fmt.Errorf("%w: %s", errMalformedPayload, channel)
		}
		l.sink.UserSkillsAdded(ctx, p.UserID)
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
	return nil
}
