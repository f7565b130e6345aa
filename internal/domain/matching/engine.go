package matching

import (
	"math"
	"strings"
)

// Field weights. A skill is credited once, through the heaviest field it appears in.
const (
	TitleWeight        = 2.0
	RequirementsWeight = 1.0
	DescriptionWeight  = 0.5

	// DefaultThreshold is the minimum match percentage that earns a notification.
	DefaultThreshold = 25.0
)

// JobText is the part of a job listing the engine reads.
type JobText struct {
	Title        string
	Requirements string
	Description  string
}

type Result struct {
	MatchScore      float64
	MatchedSkills   []string
	MatchPercentage float64
}

// Score matches skills against the job by case-insensitive substring containment.
// Containment is not word-bounded: "go" matches "mongo" and "java" matches
// "javascript".
func Score(skills []string, job JobText) Result {
	names := normalizeSkills(skills)

	res := Result{MatchedSkills: make([]string, 0, len(names))}
	if len(names) == 0 {
		return res
	}

	matched := make(map[string]bool, len(names))
	fields := []struct {
		text   string
		weight float64
	}{
		{strings.ToLower(job.Title), TitleWeight},
		{strings.ToLower(job.Requirements), RequirementsWeight},
		{strings.ToLower(job.Description), DescriptionWeight},
	}

	for _, f := range fields {
		if f.text == "" {
			continue
		}
		for _, name := range names {
			if matched[name] || !strings.Contains(f.text, name) {
				continue
			}
			matched[name] = true
			res.MatchScore += f.weight
			res.MatchedSkills = append(res.MatchedSkills, name)
		}
	}

	res.MatchPercentage = math.Min(res.MatchScore/float64(len(names))*100, 100)
	return res
}

// Qualifies reports whether pct reaches threshold; the threshold itself qualifies.
func Qualifies(pct, threshold float64) bool {
	return pct >= threshold
}

// normalizeSkills lowercases and trims names, drops empties and duplicates,
// and keeps first-seen order.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		n := strings.ToLower(strings.TrimSpace(s))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
