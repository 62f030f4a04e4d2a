package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

func (s *Server) deposit(c echo.Context) error {
	var req struct {
		To     domain.Address `json:"to"`
		Amount uint64         `json:"amount"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}
	if err := s.svc.Deposit(c.Request().Context(), req.To, req.Amount); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": req.Amount})
}

func (s *Server) balance(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	balance, err := s.svc.Balance(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"balance": balance})
}

func (s *Server) mintAsset(c echo.Context) error {
	var req struct {
		Authority domain.Address `json:"authority"`
		Mint      domain.Address `json:"mint"`
		Owner     domain.Address `json:"owner"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}
	if err := s.svc.MintAsset(c.Request().Context(), req.Authority, req.Mint, req.Owner); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"mint": req.Mint.String()})
}
