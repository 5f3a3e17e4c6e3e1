package handler

import (
	"errors"
	"strconv"

	"talentmatch/internal/delivery/http/dto"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/pkg/response"
	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/candidates")
	grp.Get("/:candidate_id/matches", h.GetMatches)
	grp.Get("/:candidate_id/matches/:job_id", h.GetCachedMatch)
}

func (h *MatchHandler) GetMatches(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest,
			response.KindInvalidInput+": malformed candidate id", err)
	}

	limit := parseQueryInt(c, "limit", 0)
	if raw := c.Query("limit"); raw != "" && limit <= 0 {
		return middleware.NewAppError(fiber.StatusBadRequest,
			response.KindInvalidInput+": limit must be a positive integer", nil)
	}

	out, err := h.uc.MatchCandidate(c.Context(), candidateID, usecase.MatchParams{Limit: limit})
	if err != nil && !errors.Is(err, usecase.ErrCacheWrite) {
		return mapMatchingError(err)
	}

	resp := dto.MatchListResponse{
		Success:       true,
		Matches:       make([]dto.MatchItemResponse, 0, len(out.Matches)),
		TotalEligible: out.TotalEligible,
		Returned:      out.Returned,
	}
	for _, m := range out.Matches {
		resp.Matches = append(resp.Matches, toMatchItem(m))
	}
	if err != nil {
		// Cache write failed; the ranked list is still valid, so the
		// caller gets the matches plus the persistence error.
		resp.Error = err.Error()
	}

	return response.OK(c, fiber.StatusOK, resp)
}

func (h *MatchHandler) GetCachedMatch(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest,
			response.KindInvalidInput+": malformed candidate id", err)
	}
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest,
			response.KindInvalidInput+": malformed job id", err)
	}

	m, found, err := h.uc.CachedMatch(c.Context(), candidateID, jobID)
	if err != nil {
		return mapMatchingError(err)
	}
	if !found {
		return middleware.NewAppError(fiber.StatusNotFound,
			response.KindNotFound+": no cached match for candidate "+candidateID.String()+" and job "+jobID.String(), nil)
	}

	return response.OK(c, fiber.StatusOK, dto.CachedMatchResponse{
		Success: true,
		Match: dto.MatchItemResponse{
			JobID:       m.JobID,
			CandidateID: m.CandidateID,
			Score:       m.Score,
			Explanation: dto.MatchExplanationResponse{
				Overall:         m.Explanation.Overall,
				SkillsMatch:     m.Explanation.SkillsMatch,
				LocationFit:     m.Explanation.LocationFit,
				ExperienceLevel: m.Explanation.ExperienceLevel,
				SalaryFit:       m.Explanation.SalaryFit,
				BenefitsFit:     m.Explanation.BenefitsFit,
				Explore:         m.Explore,
			},
		},
	})
}

func toMatchItem(m matching.Result) dto.MatchItemResponse {
	return dto.MatchItemResponse{
		JobID:       m.JobID,
		CandidateID: m.CandidateID,
		Score:       m.Score,
		Explanation: dto.MatchExplanationResponse{
			Overall:         m.Explanation.Overall,
			SkillsMatch:     m.Explanation.Skills,
			LocationFit:     m.Explanation.Location,
			ExperienceLevel: m.Explanation.Experience,
			SalaryFit:       m.Explanation.Salary,
			BenefitsFit:     m.Explanation.Benefits,
			Explore:         m.Explore,
		},
	}
}

func mapMatchingError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), err)
	case errors.Is(err, usecase.ErrDimensionMismatch):
		return middleware.NewAppError(fiber.StatusInternalServerError, err.Error(), err)
	case errors.Is(err, usecase.ErrStore):
		return middleware.NewAppError(fiber.StatusInternalServerError, err.Error(), err)
	case errors.Is(err, repository.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.KindNotFound+": "+err.Error(), err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
