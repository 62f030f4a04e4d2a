package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	apperrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/program/checkin"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/gategrant"
)

func (s *Server) createTier(c echo.Context) error {
	var req struct {
		Signer        domain.Address `json:"signer"`
		Event         domain.Address `json:"event"`
		TierID        string         `json:"tier_id"`
		MetadataURI   string         `json:"metadata_uri"`
		PriceLamports uint64         `json:"price_lamports"`
		MaxSupply     uint32         `json:"max_supply"`
		RoyaltyBPS    uint16         `json:"royalty_bps"`
		TierIndex     uint8          `json:"tier_index"`
		ResaleEnabled bool           `json:"resale_enabled"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	tier, err := s.svc.CreateTier(c.Request().Context(), req.Signer, domain.CreateTierInput{
		Event:         req.Event,
		TierID:        req.TierID,
		MetadataURI:   req.MetadataURI,
		PriceLamports: req.PriceLamports,
		MaxSupply:     req.MaxSupply,
		RoyaltyBPS:    req.RoyaltyBPS,
		TierIndex:     req.TierIndex,
		ResaleEnabled: req.ResaleEnabled,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTierResponse(tier))
}

func (s *Server) getTier(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	tier, err := s.svc.GetTier(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toTierResponse(tier))
}

func (s *Server) purchaseTicket(c echo.Context) error {
	var req struct {
		Buyer   domain.Address `json:"buyer"`
		Tier    domain.Address `json:"tier"`
		Mint    domain.Address `json:"mint"`
		OrderID string         `json:"order_id"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	ticket, err := s.svc.PurchaseTicket(c.Request().Context(), req.Buyer, req.Tier, req.Mint, req.OrderID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (s *Server) registerMint(c echo.Context) error {
	var req struct {
		Owner domain.Address `json:"owner"`
		Tier  domain.Address `json:"tier"`
		Mint  domain.Address `json:"mint"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	ticket, err := s.svc.RegisterMint(c.Request().Context(), req.Owner, req.Tier, req.Mint)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (s *Server) getTicket(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	ticket, err := s.svc.GetTicket(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (s *Server) transferTicket(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Signer    domain.Address `json:"signer"`
		To        domain.Address `json:"to"`
		SalePrice uint64         `json:"sale_price"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	ticket, err := s.svc.TransferTicket(c.Request().Context(), req.Signer, addr, req.To, req.SalePrice)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (s *Server) markTicketUsed(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Signer       domain.Address `json:"signer"`
		GateOperator domain.Address `json:"gate_operator"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}

	ticket, err := s.svc.MarkTicketUsed(c.Request().Context(), req.Signer, addr, req.GateOperator)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// checkInTicket verifies the holder's signed nonce and marks the ticket
// used. The gate operator authenticates with a bearer grant scoped to the
// ticket's event.
func (s *Server) checkInTicket(c echo.Context) error {
	addr, err := pathAddress(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		GateOperator domain.Address `json:"gate_operator"`
		PublicKey    []byte         `json:"public_key"`
		Signature    []byte         `json:"signature"`
		NonceHash    []byte         `json:"nonce_hash"`
		NonceValue   uint64         `json:"nonce_value"`
	}
	if err := bind(c, &req); err != nil {
		return writeErr(c, err)
	}
	if len(req.NonceHash) != 32 {
		return writeErr(c, apperrors.New(apperrors.CodeInvalidRequest, "nonce_hash must be 32 bytes"))
	}
	var nonceHash [32]byte
	copy(nonceHash[:], req.NonceHash)

	ticket, err := s.svc.GetTicket(c.Request().Context(), addr)
	if err != nil {
		return writeErr(c, err)
	}
	grant := bearerToken(c)
	expected := gategrant.Expectation{
		Event:    ticket.Event.String(),
		Operator: req.GateOperator.String(),
	}
	if _, err := gategrant.Validate(grant, expected, s.gate); err != nil {
		return writeErr(c, err)
	}

	proof := checkin.Proof{
		PublicKey: req.PublicKey,
		Message:   checkin.EncodeMessage(nonceHash, req.NonceValue),
		Signature: req.Signature,
	}
	ticket, err = s.svc.MarkTicketUsedSigned(c.Request().Context(), req.GateOperator, addr, proof, nonceHash, req.NonceValue)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (s *Server) refundTicket(c echo.Context) error {
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

	ticket, err := s.svc.RefundTicket(c.Request().Context(), req.Signer, addr)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
