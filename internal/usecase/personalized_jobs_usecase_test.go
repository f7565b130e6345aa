package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPersonalizedJobs_RanksAndSummarises(t *testing.T) {
	title := approvedJob("Go Developer", "", "", fixedNow)           // go: 2.0 -> 50%
	both := approvedJob("Go Developer", "postgres", "", fixedNow)    // 3.0 -> 75%
	desc := approvedJob("Engineer", "", "we use postgres", fixedNow) // 0.5 -> 12.5%
	none := approvedJob("Designer", "figma", "", fixedNow)           // 0
	pending := approvedJob("Go Developer", "postgres", "", fixedNow)
	pending.Status = job.StatusPending

	u := userWith("go", "postgres", "rust", "zig")
	uc := NewPersonalizedJobs(
		&fakeJobRepo{jobs: []job.WithCompany{title, desc, both, none, pending}},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		zaptest.NewLogger(t),
	)

	page, err := uc.Suggest(context.Background(), u.ID, 1, 10)
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, both.ID, page.Items[0].Job.ID)
	assert.Equal(t, title.ID, page.Items[1].Job.ID)
	assert.Equal(t, desc.ID, page.Items[2].Job.ID)
	assert.Equal(t, 75.0, page.Items[0].Match.MatchPercentage)

	assert.Equal(t, 3, page.Summary.TotalRelevantJobs)
	assert.Equal(t, 4, page.Summary.UserSkillCount)
	// (75 + 50 + 12.5) / 3 = 45.83
	assert.Equal(t, 46, page.Summary.AverageMatchPercentage)
	assert.Equal(t, u.Skills, page.UserSkills)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestPersonalizedJobs_Paginates(t *testing.T) {
	jobs := make([]job.WithCompany, 0, 12)
	for i := 0; i < 12; i++ {
		jobs = append(jobs, approvedJob("Go Developer", "", "", fixedNow))
	}
	u := userWith("go")
	uc := NewPersonalizedJobs(&fakeJobRepo{jobs: jobs}, &fakeUserSkillRepo{users: []user.WithSkills{u}}, nil)

	p2, err := uc.Suggest(context.Background(), u.ID, 2, 5)
	require.NoError(t, err)
	assert.Len(t, p2.Items, 5)
	assert.Equal(t, jobs[5].ID, p2.Items[0].Job.ID)
	assert.Equal(t, 3, p2.Pagination.TotalPages)
	assert.True(t, p2.Pagination.HasNextPage)
	assert.True(t, p2.Pagination.HasPrevPage)

	beyond, err := uc.Suggest(context.Background(), u.ID, 9, 5)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 12, beyond.Summary.TotalRelevantJobs)
}

func TestPersonalizedJobs_EmptyProfile(t *testing.T) {
	u := userWith()
	uc := NewPersonalizedJobs(&fakeJobRepo{}, &fakeUserSkillRepo{users: []user.WithSkills{u}}, nil)

	_, err := uc.Suggest(context.Background(), u.ID, 1, 10)
	assert.ErrorIs(t, err, ErrUserSkillProfileEmpty)
}

func TestPersonalizedJobs_Errors(t *testing.T) {
	u := userWith("go")

	_, err := NewPersonalizedJobs(&fakeJobRepo{}, &fakeUserSkillRepo{}, nil).Suggest(context.Background(), uuid.Nil, 1, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewPersonalizedJobs(&fakeJobRepo{listErr: errors.New("db")}, &fakeUserSkillRepo{users: []user.WithSkills{u}}, nil).
		Suggest(context.Background(), u.ID, 1, 10)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = NewPersonalizedJobs(&fakeJobRepo{}, &fakeUserSkillRepo{err: errors.New("db")}, nil).
		Suggest(context.Background(), u.ID, 1, 10)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestPersonalizedJobs_NoRelevantJobs(t *testing.T) {
	u := userWith("cobol")
	uc := NewPersonalizedJobs(
		&fakeJobRepo{jobs: []job.WithCompany{approvedJob("Go Developer", "", "", fixedNow)}},
		&fakeUserSkillRepo{users: []user.WithSkills{u}},
		nil,
	)

	page, err := uc.Suggest(context.Background(), u.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Summary.AverageMatchPercentage)
}

func TestPersonalizedJobs_HugePage(t *testing.T) {
	u := userWith("go")
	jobs := []job.WithCompany{approvedJob("Go Developer", "", "", fixedNow)}
	uc := NewPersonalizedJobs(&fakeJobRepo{jobs: jobs}, &fakeUserSkillRepo{users: []user.WithSkills{u}}, nil)

	var (
		page PersonalizedJobsPage
		err  error
	)
	require.NotPanics(t, func() {
		page, err = uc.Suggest(context.Background(), u.ID, math.MaxInt/10+2, 10)
	})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, maxPage, page.Pagination.CurrentPage)
	assert.False(t, page.Pagination.HasNextPage)
}
