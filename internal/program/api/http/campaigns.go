package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

func (s *Server) createCampaign(c echo.Context) error {
	var req struct {
		Signer      domain.Address `json:"signer"`
		Event       domain.Address `json:"event"`
		FundingGoal uint64         `json:"funding_goal"`
		Deadline    int64          `json:"deadline"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	campaign, err := s.svc.CreateCampaign(c.Request().Context(), req.Signer, req.Event, req.FundingGoal, req.Deadline)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toCampaignResponse(campaign))
}

func (s *Server) getCampaign(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	campaign, err := s.svc.GetCampaign(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

func (s *Server) contribute(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Contributor domain.Address `json:"contributor"`
		Amount      uint64         `json:"amount"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	contribution, err := s.svc.Contribute(c.Request().Context(), req.Contributor, addr, req.Amount)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toContributionResponse(contribution))
}

func (s *Server) finalizeCampaign(c echo.Context) error {
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

	status, err := s.svc.FinalizeCampaign(c.Request().Context(), req.Signer, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status.String()})
}

func (s *Server) claimRefund(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Contributor domain.Address `json:"contributor"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	amount, err := s.svc.ClaimRefund(c.Request().Context(), req.Contributor, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": amount})
}

func (s *Server) calculateDistribution(c echo.Context) error {
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

	campaign, err := s.svc.CalculateDistribution(c.Request().Context(), req.Signer, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

func (s *Server) claimBackerProfit(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Contributor domain.Address `json:"contributor"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	share, err := s.svc.ClaimBackerProfit(c.Request().Context(), req.Contributor, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": share})
}

func (s *Server) claimOrganizerProfit(c echo.Context) error {
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

	amount, err := s.svc.ClaimOrganizerProfit(c.Request().Context(), req.Signer, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": amount})
}
