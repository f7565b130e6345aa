package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/skill"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func approvedJob(title, requirements, description string, created time.Time) job.WithCompany {
	return job.WithCompany{
		Listing: job.Listing{
			ID:           uuid.New(),
			Title:        title,
			Requirements: requirements,
			Description:  description,
			Status:       job.StatusApproved,
			CreatedAt:    created,
		},
		Company: job.Company{ID: uuid.New(), Name: "Acme"},
	}
}

func userWith(names ...string) user.WithSkills {
	u := user.WithSkills{ID: uuid.New(), Skills: []skill.Ref{}}
	for _, n := range names {
		u.Skills = append(u.Skills, skill.Ref{Name: n, Level: skill.LevelIntermediate})
	}
	return u
}

type recordingListener struct {
	got []notification.Notification
}

func (r *recordingListener) NotificationCreated(_ context.Context, n notification.Notification) {
	r.got = append(r.got, n)
}

type panickingListener struct{}

func (panickingListener) NotificationCreated(context.Context, notification.Notification) {
	panic("boom")
}

func newTestNotifier(t *testing.T, jobs *fakeJobRepo, users *fakeUserSkillRepo, notes *fakeNotificationRepo) *JobMatchNotifier {
	t.Helper()
	return NewJobMatchNotifier(jobs, users, notes, MatchNotifierConfig{Clock: fixedClock}, zaptest.NewLogger(t))
}

func TestNotifyNewJob_CreatesForQualifyingUsers(t *testing.T) {
	j := approvedJob("Senior Python Engineer", "django", "", fixedNow)
	match := userWith("python")
	partial := userWith("go", "python") // "go" is found inside "django"
	miss := userWith("haskell")
	noSkills := userWith()

	notes := newFakeNotificationRepo()
	listener := &recordingListener{}
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{match, partial, miss, noSkills}},
		notes,
	)
	n.AddListener(listener)

	stats := n.NotifyNewJob(context.Background(), j.ID)

	assert.Equal(t, FanOutStats{Candidates: 3, Qualified: 2, Created: 2}, stats)
	all := notes.all()
	require.Len(t, all, 2)

	got := all[0]
	assert.Equal(t, match.ID, got.UserID)
	assert.Equal(t, j.ID, got.JobID)
	assert.Equal(t, notification.TypeJobMatch, got.Type)
	assert.Equal(t, "New Job Match: Senior Python Engineer", got.Title)
	assert.Equal(t, "A new job at Acme matches your skills! Match percentage: 100.0%", got.Message)
	require.NotNil(t, got.MatchScore)
	assert.Equal(t, 2.0, *got.MatchScore)
	require.NotNil(t, got.MatchPercentage)
	assert.Equal(t, 100.0, *got.MatchPercentage)
	assert.Equal(t, []string{"python"}, got.MatchedSkills)
	assert.False(t, got.IsRead)

	assert.Len(t, listener.got, 2)
}

func TestNotifyNewJob_Idempotent(t *testing.T) {
	j := approvedJob("Go Developer", "", "", fixedNow)
	u := userWith("go")
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		notes,
	)

	first := n.NotifyNewJob(context.Background(), j.ID)
	second := n.NotifyNewJob(context.Background(), j.ID)

	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, notes.all(), 1)
}

func TestNotifyNewJob_ThresholdBoundary(t *testing.T) {
	// one of four skills in requirements: 1.0/4 = 25%
	j := approvedJob("Engineer", "kotlin", "", fixedNow)
	atThreshold := userWith("kotlin", "swift", "dart", "elixir")
	// one of five: 1.0/5 = 20%
	below := userWith("kotlin", "swift", "dart", "elixir", "scala")

	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{atThreshold, below}},
		notes,
	)

	stats := n.NotifyNewJob(context.Background(), j.ID)
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 1, stats.Created)
	require.Len(t, notes.all(), 1)
	assert.Equal(t, atThreshold.ID, notes.all()[0].UserID)
	assert.Equal(t, "A new job at Acme matches your skills! Match percentage: 25.0%", notes.all()[0].Message)
}

func TestNotifyNewJob_NotApprovedOrMissing(t *testing.T) {
	pending := approvedJob("Go Developer", "", "", fixedNow)
	pending.Status = job.StatusPending
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{pending}},
		&fakeUserSkillRepo{users: []user.WithSkills{userWith("go")}},
		notes,
	)

	assert.Equal(t, FanOutStats{}, n.NotifyNewJob(context.Background(), pending.ID))
	assert.Equal(t, FanOutStats{}, n.NotifyNewJob(context.Background(), uuid.New()))
	assert.Empty(t, notes.all())
}

func TestNotifyNewJob_CandidateFailureIsolated(t *testing.T) {
	j := approvedJob("Go Developer", "", "", fixedNow)
	bad, good := userWith("go"), userWith("go")
	notes := newFakeNotificationRepo()
	notes.createErr = errors.New("write failed")
	notes.failUsers = map[uuid.UUID]bool{bad.ID: true}

	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{bad, good}},
		notes,
	)

	stats := n.NotifyNewJob(context.Background(), j.ID)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Created)
	require.Len(t, notes.all(), 1)
	assert.Equal(t, good.ID, notes.all()[0].UserID)
}

func TestNotifyNewJob_TableMissingStopsQuietly(t *testing.T) {
	j := approvedJob("Go Developer", "", "", fixedNow)
	notes := newFakeNotificationRepo()
	notes.existsErr = &pgconn.PgError{Code: "42P01", Message: `relation "notifications" does not exist`}

	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{userWith("go"), userWith("go")}},
		notes,
	)

	stats := n.NotifyNewJob(context.Background(), j.ID)
	assert.Equal(t, 1, stats.Candidates)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 0, notes.createCalls)
}

func TestNotifyNewJob_ListenerPanicDoesNotStopFanOut(t *testing.T) {
	j := approvedJob("Go Developer", "", "", fixedNow)
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{userWith("go"), userWith("go")}},
		notes,
	)
	n.AddListener(panickingListener{})

	stats := n.NotifyNewJob(context.Background(), j.ID)
	assert.Equal(t, 2, stats.Created)
}

func TestNotifyNewSkills_RecentWindow(t *testing.T) {
	recent := approvedJob("Go Developer", "", "", fixedNow.Add(-29*24*time.Hour))
	old := approvedJob("Go Engineer", "", "", fixedNow.Add(-31*24*time.Hour))
	pending := approvedJob("Go Lead", "", "", fixedNow)
	pending.Status = job.StatusPending

	u := userWith("go")
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{recent, old, pending}},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		notes,
	)

	stats := n.NotifyNewSkills(context.Background(), u.ID)
	assert.Equal(t, FanOutStats{Candidates: 1, Qualified: 1, Created: 1}, stats)
	require.Len(t, notes.all(), 1)
	assert.Equal(t, recent.ID, notes.all()[0].JobID)
}

func TestNotifyNewSkills_UsesFullSkillSet(t *testing.T) {
	// go alone: 2.0/1 = 100; with three unmatched skills: 2.0/4 = 50
	j := approvedJob("Go Developer", "", "", fixedNow)
	u := userWith("go", "rust", "zig", "ocaml")
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		notes,
	)

	n.NotifyNewSkills(context.Background(), u.ID)
	require.Len(t, notes.all(), 1)
	assert.Equal(t, 50.0, *notes.all()[0].MatchPercentage)
}

func TestNotifyNewSkills_NoSkillsOrUnknownUser(t *testing.T) {
	j := approvedJob("Go Developer", "", "", fixedNow)
	empty := userWith()
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{empty}},
		notes,
	)

	assert.Equal(t, FanOutStats{}, n.NotifyNewSkills(context.Background(), empty.ID))
	assert.Equal(t, FanOutStats{}, n.NotifyNewSkills(context.Background(), uuid.New()))
	assert.Empty(t, notes.all())
}

func TestNotifyNewSkills_Idempotent(t *testing.T) {
	j := approvedJob("Go Developer", "", "", fixedNow)
	u := userWith("go")
	notes := newFakeNotificationRepo()
	n := newTestNotifier(t,
		&fakeJobRepo{jobs: []job.WithCompany{j}},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		notes,
	)

	n.NotifyNewJob(context.Background(), j.ID)
	stats := n.NotifyNewSkills(context.Background(), u.ID)
	assert.Equal(t, 1, stats.Skipped)
	assert.Len(t, notes.all(), 1)
}

func TestNotifyNewSkills_LoadFailure(t *testing.T) {
	u := userWith("go")
	n := newTestNotifier(t,
		&fakeJobRepo{listErr: errors.New("db down")},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		newFakeNotificationRepo(),
	)

	assert.Equal(t, FanOutStats{}, n.NotifyNewSkills(context.Background(), u.ID))
}
