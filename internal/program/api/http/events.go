package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

func (s *Server) createEvent(c echo.Context) error {
	var req struct {
		Organizer        domain.Address `json:"organizer"`
		EventID          string         `json:"event_id"`
		MetadataURI      string         `json:"metadata_uri"`
		StartTS          int64          `json:"start_ts"`
		EndTS            int64          `json:"end_ts"`
		TotalSupply      uint32         `json:"total_supply"`
		PlatformSplitBPS uint16         `json:"platform_split_bps"`
		Treasury         domain.Address `json:"treasury"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	event, err := s.svc.CreateEvent(c.Request().Context(), domain.CreateEventInput{
		Organizer:        req.Organizer,
		EventID:          req.EventID,
		MetadataURI:      req.MetadataURI,
		StartTS:          req.StartTS,
		EndTS:            req.EndTS,
		TotalSupply:      req.TotalSupply,
		PlatformSplitBPS: req.PlatformSplitBPS,
		Treasury:         req.Treasury,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(event))
}

func (s *Server) getEvent(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	event, err := s.svc.GetEvent(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (s *Server) updateEvent(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Signer           domain.Address  `json:"signer"`
		MetadataURI      *string         `json:"metadata_uri"`
		EndTS            *int64          `json:"end_ts"`
		PlatformSplitBPS *uint16         `json:"platform_split_bps"`
		Treasury         *domain.Address `json:"treasury"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	event, err := s.svc.UpdateEvent(c.Request().Context(), req.Signer, addr, domain.UpdateEventParams{
		MetadataURI:      req.MetadataURI,
		EndTS:            req.EndTS,
		PlatformSplitBPS: req.PlatformSplitBPS,
		Treasury:         req.Treasury,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (s *Server) closeEvent(c echo.Context) error {
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
	if err := s.svc.CloseEvent(c.Request().Context(), req.Signer, addr); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) withdrawFunds(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Signer domain.Address `json:"signer"`
		Amount uint64         `json:"amount"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}
	if err := s.svc.WithdrawFunds(c.Request().Context(), req.Signer, addr, req.Amount); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": req.Amount})
}
