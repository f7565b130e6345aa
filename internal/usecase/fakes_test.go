package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"
	"job-portal/internal/repository"

	"github.com/google/uuid"
)

type fakeJobRepo struct {
	jobs    []job.WithCompany
	findErr error
	listErr error
}

func (f *fakeJobRepo) FindWithCompany(_ context.Context, id uuid.UUID) (job.WithCompany, error) {
	if f.findErr != nil {
		return job.WithCompany{}, f.findErr
	}
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return job.WithCompany{}, repository.ErrJobNotFound
}

func (f *fakeJobRepo) ListApprovedSince(_ context.Context, since time.Time) ([]job.WithCompany, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []job.WithCompany{}
	for _, j := range f.jobs {
		if j.IsApproved() && !j.CreatedAt.Before(since) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ListApproved(_ context.Context) ([]job.WithCompany, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []job.WithCompany{}
	for _, j := range f.jobs {
		if j.IsApproved() {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeUserSkillRepo struct {
	users []user.WithSkills
	err   error
}

func (f *fakeUserSkillRepo) ListUsersWithSkills(context.Context) ([]user.WithSkills, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []user.WithSkills{}
	for _, u := range f.users {
		if u.HasSkills() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserSkillRepo) FindUserWithSkills(_ context.Context, id uuid.UUID) (user.WithSkills, error) {
	if f.err != nil {
		return user.WithSkills{}, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.WithSkills{}, repository.ErrUserNotFound
}

// fakeNotificationRepo is an in-memory store. existsErr and createErr, when
// set, are returned for the listed users only (or for everyone when the set is
// empty).
type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []notification.Notification
	views map[uuid.UUID]notification.View

	existsErr   error
	createErr   error
	failUsers   map[uuid.UUID]bool
	countErr    error
	countCalls  int
	createCalls int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{views: map[uuid.UUID]notification.View{}}
}

func (f *fakeNotificationRepo) failsFor(userID uuid.UUID) bool {
	return len(f.failUsers) == 0 || f.failUsers[userID]
}

func (f *fakeNotificationRepo) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil && f.failsFor(n.UserID) {
		return notification.Notification{}, f.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeNotificationRepo) ExistsJobMatch(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil && f.failsFor(userID) {
		return false, f.existsErr
	}
	for _, n := range f.items {
		if n.UserID == userID && n.JobID == jobID && n.Type == notification.TypeJobMatch {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) byUser(userID uuid.UUID) []notification.Notification {
	out := []notification.Notification{}
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]notification.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.byUser(userID)
	out := []notification.View{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		v := f.views[all[i].ID]
		v.Notification = all[i]
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byUser(userID)), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	c := 0
	for _, n := range f.items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].IsRead {
			f.items[i].IsRead = true
			c++
		}
	}
	return c, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) DeleteAll(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var c int64
	for _, n := range f.items {
		if n.UserID == userID {
			c++
			continue
		}
		kept = append(kept, n)
	}
	f.items = kept
	return c, nil
}

func (f *fakeNotificationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var c int64
	for _, n := range f.items {
		if n.CreatedAt.Before(cutoff) {
			c++
			continue
		}
		kept = append(kept, n)
	}
	f.items = kept
	return c, nil
}

func (f *fakeNotificationRepo) all() []notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.Notification(nil), f.items...)
}
