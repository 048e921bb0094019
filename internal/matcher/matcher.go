package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/khrees2412/jobportal/pkg/models"
)

// IsEligible reports whether candidate lies within the inclusive tier range
// [min, max]. A value missing from the tier list is never eligible.
func IsEligible(candidate, min, max models.Qualification) bool {
	ci, lo, hi := candidate.Index(), min.Index(), max.Index()
	if ci < 0 || lo < 0 || hi < 0 {
		return false
	}
	return lo <= ci && ci <= hi
}

// JobEligible is IsEligible applied to a job's qualification range.
func JobEligible(candidate models.Qualification, job models.Job) bool {
	return IsEligible(candidate, job.MinQualification, job.MaxQualification)
}

// MatchResult is a 0-100 fit score with the factors behind it.
type MatchResult struct {
	Score              int      `json:"matchScore"`
	Reasoning          []string `json:"reasoning"`
	QualificationMatch int      `json:"qualificationMatch"`
	ExperienceMatch    int      `json:"experienceMatch"`
	LocationMatch      int      `json:"locationMatch"`
}

// Score calculates how well a job fits a candidate.
// Qualification weighs 60%, experience 30% and location 10%.
func Score(user models.User, job models.Job) MatchResult {
	result := MatchResult{LocationMatch: 50}

	qual := matchQualification(user.Qualification, job)
	result.QualificationMatch = qual
	switch {
	case qual >= 80:
		result.Reasoning = append(result.Reasoning, "Strong qualification match")
	case qual >= 60:
		result.Reasoning = append(result.Reasoning, "Moderate qualification match")
	default:
		result.Reasoning = append(result.Reasoning, "Weak qualification match")
	}

	exp := matchExperience(user, job)
	result.ExperienceMatch = exp
	if exp >= 70 {
		result.Reasoning = append(result.Reasoning, "Experience well-aligned with role")
	}
	result.Reasoning = append(result.Reasoning, "Location available")

	score := float64(qual)*0.6 + float64(exp)*0.3 + float64(result.LocationMatch)*0.1
	result.Score = int(math.RoundToEven(score))
	return result
}

// matchQualification scores the candidate's tier against the job's range
func matchQualification(candidate models.Qualification, job models.Job) int {
	ci, lo, hi := candidate.Index(), job.MinQualification.Index(), job.MaxQualification.Index()
	if ci < 0 || lo < 0 || hi < 0 {
		return 50
	}
	switch {
	case ci < lo:
		return 30
	case ci > hi:
		return 70
	default:
		return 90
	}
}

// matchExperience looks for experience requirements in the job's list
func matchExperience(user models.User, job models.Job) int {
	for _, req := range job.Requirements {
		reqLower := strings.ToLower(req)
		if strings.Contains(reqLower, "years") || strings.Contains(reqLower, "experience") {
			if user.Experience >= 2 {
				return 85
			}
			return 75
		}
	}
	return 60
}

// Ranked is an eligible job with its recommendation score.
type Ranked struct {
	Job   models.Job
	Score int
}

// Rank returns the jobs the user is eligible for, best first. Jobs with equal
// scores keep their input order.
func Rank(user models.User, jobs []models.Job) []Ranked {
	ranked := []Ranked{}
	ci := user.Qualification.Index()
	for _, job := range jobs {
		if job.Status != "Active" {
			continue
		}
		if !JobEligible(user.Qualification, job) {
			continue
		}
		ranked = append(ranked, Ranked{Job: job, Score: recommendationScore(ci, job, user.Experience)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func recommendationScore(ci int, job models.Job, experience int) int {
	score := 70
	lo, hi := job.MinQualification.Index(), job.MaxQualification.Index()
	if ci == lo || ci == hi {
		score += 15
	} else {
		score += 5
	}
	if experience >= 2 {
		score += 3
	}
	if score > 100 {
		score = 100
	}
	return score
}
