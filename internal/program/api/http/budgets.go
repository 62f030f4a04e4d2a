package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	apperrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

type milestoneRequest struct {
	Description       string `json:"description"`
	ReleasePercentage uint16 `json:"release_percentage"`
	UnlockDate        int64  `json:"unlock_date"`
}

func toMilestoneInputs(milestones []milestoneRequest) []domain.MilestoneInput {
	inputs := make([]domain.MilestoneInput, 0, len(milestones))
	for _, m := range milestones {
		inputs = append(inputs, domain.MilestoneInput{
			Description:       m.Description,
			ReleasePercentage: m.ReleasePercentage,
			UnlockDate:        m.UnlockDate,
		})
	}
	return inputs
}

func (s *Server) submitBudget(c echo.Context) error {
	var req struct {
		Signer              domain.Address     `json:"signer"`
		Campaign            domain.Address     `json:"campaign"`
		TotalAmount         uint64             `json:"total_amount"`
		Description         string             `json:"description"`
		Milestones          []milestoneRequest `json:"milestones"`
		VotingPeriodSeconds int64              `json:"voting_period_seconds"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	budget, err := s.svc.SubmitBudget(c.Request().Context(), req.Signer, req.Campaign, req.TotalAmount, req.Description, toMilestoneInputs(req.Milestones), req.VotingPeriodSeconds)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

func (s *Server) getBudget(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	budget, err := s.svc.GetBudget(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) voteOnBudget(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Voter   domain.Address `json:"voter"`
		Approve bool           `json:"approve"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	vote, err := s.svc.VoteOnBudget(c.Request().Context(), req.Voter, addr, req.Approve)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toVoteResponse(vote))
}

func (s *Server) finalizeBudgetVote(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Signer domain.Address `json:"signer"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	status, err := s.svc.FinalizeBudgetVote(c.Request().Context(), req.Signer, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status.String()})
}

func (s *Server) reviseBudget(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Signer              domain.Address     `json:"signer"`
		TotalAmount         uint64             `json:"total_amount"`
		Description         string             `json:"description"`
		Milestones          []milestoneRequest `json:"milestones"`
		VotingPeriodSeconds int64              `json:"voting_period_seconds"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	budget, err := s.svc.ReviseBudget(c.Request().Context(), req.Signer, addr, req.TotalAmount, req.Description, toMilestoneInputs(req.Milestones), req.VotingPeriodSeconds)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

func (s *Server) releaseMilestone(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	index, err := strconv.Atoi(c.PathParam("index"))
	if err != nil {
		return writeErr(c, apperrors.Newf(apperrors.CodeInvalidRequest, "invalid milestone index %q", c.PathParam("index")))
	}
	var req struct {
		Signer domain.Address `json:"signer"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	amount, err := s.svc.ReleaseMilestone(c.Request().Context(), req.Signer, addr, index)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": amount})
}
