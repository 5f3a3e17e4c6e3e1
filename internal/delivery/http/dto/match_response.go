package dto

import "github.com/google/uuid"

type MatchExplanationResponse struct {
	Overall         float64 `json:"overall"`
	SkillsMatch     float64 `json:"skills_match"`
	LocationFit     float64 `json:"location_fit"`
	ExperienceLevel float64 `json:"experience_level"`
	SalaryFit       float64 `json:"salary_fit"`
	BenefitsFit     float64 `json:"benefits_fit"`
	Explore         bool    `json:"explore,omitempty"`
}

type MatchItemResponse struct {
	JobID       uuid.UUID                `json:"job_id"`
	CandidateID uuid.UUID                `json:"candidate_id"`
	Score       float64                  `json:"score"`
	Explanation MatchExplanationResponse `json:"explanation"`
}

type MatchListResponse struct {
	Success       bool                `json:"success"`
	Matches       []MatchItemResponse `json:"matches"`
	TotalEligible int                 `json:"total_eligible"`
	Returned      int                 `json:"returned"`

	// Error is set when the result-cache write failed but the computed
	// matches are still worth returning.
	Error string `json:"error,omitempty"`
}

type CachedMatchResponse struct {
	Success bool              `json:"success"`
	Match   MatchItemResponse `json:"match"`
}
