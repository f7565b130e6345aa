package usecase

import (
	"context"
	"errors"
	"math"
	"sort"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/matching"
	"job-portal/internal/domain/skill"
	"job-portal/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PersonalizedJob struct {
	Job   job.WithCompany
	Match matching.Result
}

type PersonalizedSummary struct {
	TotalRelevantJobs      int
	UserSkillCount         int
	AverageMatchPercentage int
}

type PersonalizedJobsPage struct {
	Items      []PersonalizedJob
	UserSkills []skill.Ref
	Pagination Pagination
	Summary    PersonalizedSummary
}

type PersonalizedJobsUsecase interface {
	Suggest(ctx context.Context, userID uuid.UUID, page, limit int) (PersonalizedJobsPage, error)
}

type PersonalizedJobs struct {
	jobs  repository.JobRepository
	users repository.UserSkillRepository
	log   *zap.Logger
}

func NewPersonalizedJobs(jobs repository.JobRepository, users repository.UserSkillRepository, log *zap.Logger) *PersonalizedJobs {
	if log == nil {
		log = zap.NewNop()
	}
	return &PersonalizedJobs{jobs: jobs, users: users, log: log.With(zap.String("component", "personalized_jobs"))}
}

// Suggest scores every approved job against the user's skills and returns the
// requested page of jobs with a positive score, best first.
func (u *PersonalizedJobs) Suggest(ctx context.Context, userID uuid.UUID, page, limit int) (PersonalizedJobsPage, error) {
	if userID == uuid.Nil {
		return PersonalizedJobsPage{}, ErrUnauthorized
	}
	page, limit = normalizePage(page, limit)

	profile, err := u.users.FindUserWithSkills(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return PersonalizedJobsPage{}, ErrUnauthorized
		}
		u.log.Error("load user skills failed", zap.String("user_id", userID.String()), zap.Error(err))
		return PersonalizedJobsPage{}, ErrInternal
	}
	if !profile.HasSkills() {
		return PersonalizedJobsPage{}, ErrUserSkillProfileEmpty
	}

	jobs, err := u.jobs.ListApproved(ctx)
	if err != nil {
		u.log.Error("load approved jobs failed", zap.Error(err))
		return PersonalizedJobsPage{}, ErrInternal
	}

	names := profile.SkillNames()
	relevant := make([]PersonalizedJob, 0, len(jobs))
	var pctSum float64
	for _, j := range jobs {
		res := matching.Score(names, matching.JobText{
			Title:        j.Title,
			Requirements: j.Requirements,
			Description:  j.Description,
		})
		if res.MatchScore <= 0 {
			continue
		}
		pctSum += res.MatchPercentage
		relevant = append(relevant, PersonalizedJob{Job: j, Match: res})
	}

	sort.SliceStable(relevant, func(a, b int) bool {
		return relevant[a].Match.MatchScore > relevant[b].Match.MatchScore
	})

	summary := PersonalizedSummary{
		TotalRelevantJobs: len(relevant),
		UserSkillCount:    len(profile.Skills),
	}
	if len(relevant) > 0 {
		summary.AverageMatchPercentage = int(math.Round(pctSum / float64(len(relevant))))
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(relevant) {
		start = len(relevant)
	}
	if end > len(relevant) {
		end = len(relevant)
	}

	return PersonalizedJobsPage{
		Items:      relevant[start:end],
		UserSkills: profile.Skills,
		Pagination: newPagination(page, limit, len(relevant)),
		Summary:    summary,
	}, nil
}
