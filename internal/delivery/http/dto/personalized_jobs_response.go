package dto

import (
	"time"

	"job-portal/internal/usecase"

	"github.com/google/uuid"
)

type CompanyResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type PersonalizedJobResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements"`
	Location        string          `json:"location"`
	Salary          string          `json:"salary"`
	JobType         string          `json:"jobType"`
	Deadline        *time.Time      `json:"deadline"`
	CreatedAt       time.Time       `json:"createdAt"`
	Company         CompanyResponse `json:"company"`
	MatchScore      float64         `json:"matchScore"`
	MatchPercentage float64         `json:"matchPercentage"`
	MatchedSkills   []string        `json:"matchedSkills"`
}

type UserSkillRef struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type JobsPaginationResponse struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalJobs   int  `json:"totalJobs"`
	JobsPerPage int  `json:"jobsPerPage"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type PersonalizedSummaryResponse struct {
	TotalRelevantJobs      int `json:"totalRelevantJobs"`
	UserSkillCount         int `json:"userSkillCount"`
	AverageMatchPercentage int `json:"averageMatchPercentage"`
}

type PersonalizedJobsResponse struct {
	Jobs       []PersonalizedJobResponse   `json:"jobs"`
	UserSkills []UserSkillRef              `json:"userSkills"`
	Pagination JobsPaginationResponse      `json:"pagination"`
	Summary    PersonalizedSummaryResponse `json:"summary"`
}

// EmptyProfileResponse tells the client what to do when there is nothing to
// match against.
type EmptyProfileResponse struct {
	Action string `json:"action"`
}

func NewPersonalizedJobsResponse(page usecase.PersonalizedJobsPage) PersonalizedJobsResponse {
	jobs := make([]PersonalizedJobResponse, 0, len(page.Items))
	for _, it := range page.Items {
		j := it.Job
		matched := it.Match.MatchedSkills
		if matched == nil {
			matched = []string{}
		}
		jobs = append(jobs, PersonalizedJobResponse{
			ID:              j.ID,
			Title:           j.Title,
			Description:     j.Description,
			Requirements:    j.Requirements,
			Location:        j.Location,
			Salary:          j.Salary,
			JobType:         j.Type,
			Deadline:        j.Deadline,
			CreatedAt:       j.CreatedAt,
			Company:         CompanyResponse{ID: j.Company.ID, Name: j.Company.Name},
			MatchScore:      it.Match.MatchScore,
			MatchPercentage: it.Match.MatchPercentage,
			MatchedSkills:   matched,
		})
	}

	skills := make([]UserSkillRef, 0, len(page.UserSkills))
	for _, s := range page.UserSkills {
		skills = append(skills, UserSkillRef{Name: s.Name, Level: string(s.Level)})
	}

	p := page.Pagination
	return PersonalizedJobsResponse{
		Jobs:       jobs,
		UserSkills: skills,
		Pagination: JobsPaginationResponse{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			TotalJobs:   p.Total,
			JobsPerPage: p.PerPage,
			HasNextPage: p.HasNextPage,
			HasPrevPage: p.HasPrevPage,
		},
		Summary: PersonalizedSummaryResponse{
			TotalRelevantJobs:      page.Summary.TotalRelevantJobs,
			UserSkillCount:         page.Summary.UserSkillCount,
			AverageMatchPercentage: page.Summary.AverageMatchPercentage,
		},
	}
}
