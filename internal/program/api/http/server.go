// Package httpapi exposes the program operations over a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/gategrant"
	"github.com/Ah-Riz/mythra-program/internal/program/service"
)

// Server holds the HTTP handlers for the program service.
type Server struct {
	svc  *service.Service
	gate gategrant.Config
}

// New builds a Server around the program service. The gate config verifies
// check-in grants; with a zero config every grant is rejected.
func New(svc *service.Service, gate gategrant.Config) *Server {
	return &Server{svc: svc, gate: gate}
}

// Routes registers all API routes on the echo instance.
func (s *Server) Routes(e *echo.Echo) {
	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")

	v1.POST("/events", s.createEvent)
	v1.GET("/events/:address", s.getEvent)
	v1.PATCH("/events/:address", s.updateEvent)
	v1.DELETE("/events/:address", s.closeEvent)
	v1.POST("/events/:address/withdrawals", s.withdrawFunds)

	v1.POST("/tiers", s.createTier)
	v1.GET("/tiers/:address", s.getTier)

	v1.POST("/tickets/purchase", s.purchaseTicket)
	v1.POST("/tickets/register", s.registerMint)
	v1.GET("/tickets/:address", s.getTicket)
	v1.POST("/tickets/:address/transfer", s.transferTicket)
	v1.POST("/tickets/:address/use", s.markTicketUsed)
	v1.POST("/tickets/:address/checkin", s.checkInTicket)
	v1.POST("/tickets/:address/refund", s.refundTicket)

	v1.POST("/campaigns", s.createCampaign)
	v1.GET("/campaigns/:address", s.getCampaign)
	v1.POST("/campaigns/:address/contributions", s.contribute)
	v1.POST("/campaigns/:address/finalize", s.finalizeCampaign)
	v1.POST("/campaigns/:address/refunds", s.claimRefund)
	v1.POST("/campaigns/:address/distribution", s.calculateDistribution)
	v1.POST("/campaigns/:address/claims/backer", s.claimBackerProfit)
	v1.POST("/campaigns/:address/claims/organizer", s.claimOrganizerProfit)

	v1.POST("/budgets", s.submitBudget)
	v1.GET("/budgets/:address", s.getBudget)
	v1.POST("/budgets/:address/votes", s.voteOnBudget)
	v1.POST("/budgets/:address/finalize", s.finalizeBudgetVote)
	v1.POST("/budgets/:address/revisions", s.reviseBudget)
	v1.POST("/budgets/:address/milestones/:index/release", s.releaseMilestone)

	v1.POST("/accounts/deposits", s.deposit)
	v1.GET("/accounts/:address/balance", s.balance)
	v1.POST("/assets/mint", s.mintAsset)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeErr(c echo.Context, err error) error {
	return c.JSON(apperrors.HTTPStatus(err), errorBody{
		Code:    string(apperrors.CodeOf(err)),
		Message: err.Error(),
	})
}

func pathAddress(c echo.Context) (domain.Address, error) {
	addr, err := domain.ParseAddress(c.PathParam("address"))
	if err != nil {
		return domain.Address{}, apperrors.Newf(apperrors.CodeInvalidAddress, "invalid address %q", c.PathParam("address"))
	}
	return addr, nil
}

func bind(c echo.Context, target any) error {
	if err := c.Bind(target); err != nil {
		return apperrors.New(apperrors.CodeInvalidRequest, "malformed request body")
	}
	return nil
}
