package service

import (
	"context"
	"errors"

	progerrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/monitoring"
	"github.com/Ah-Riz/mythra-program/internal/program/checkin"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CreateTier creates a priced allocation bucket within an event, reserving
// its max supply against the event total.
func (s *Service) CreateTier(ctx context.Context, signer domain.Address, input domain.CreateTierInput) (domain.TicketTier, error) {
	var tier domain.TicketTier
	err := s.run(ctx, "create_tier", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		event, err := tx.GetEvent(ctx, input.Event)
		if err != nil {
			return err
		}
		if event.Authority != signer {
			return progerrors.New(progerrors.CodeUnauthorizedTierCreation, "only the event authority may create tiers")
		}
		created, err := domain.NewTicketTier(input)
		if err != nil {
			return err
		}
		if err := event.AllocateSupply(input.MaxSupply); err != nil {
			return err
		}
		if err := tx.CreateTier(ctx, created); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeDuplicateTier, "tier already exists")
			}
			return err
		}
		if err := tx.UpdateEvent(ctx, event); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditTierCreated, created.Address, signer, 0, now); err != nil {
			return err
		}
		tier = created
		return nil
	})
	return tier, mapStorageErr(err)
}

// GetTier returns one ticket tier.
func (s *Service) GetTier(ctx context.Context, address domain.Address) (domain.TicketTier, error) {
	var tier domain.TicketTier
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		tier, err = tx.GetTier(ctx, address)
		return err
	})
	return tier, mapStorageErr(err)
}

// GetTicket returns one ticket.
func (s *Service) GetTicket(ctx context.Context, address domain.Address) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		ticket, err = tx.GetTicket(ctx, address)
		return err
	})
	return ticket, mapStorageErr(err)
}

// PurchaseTicket sells one ticket from a tier: the price moves from buyer
// to the event escrow, and a ticket plus an immutable order receipt are
// written against the buyer's asset mint.
func (s *Service) PurchaseTicket(ctx context.Context, buyer, tierAddr, mint domain.Address, orderID string) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.run(ctx, "purchase_ticket", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		tier, err := tx.GetTier(ctx, tierAddr)
		if err != nil {
			return err
		}
		event, err := tx.GetEvent(ctx, tier.Event)
		if err != nil {
			return err
		}
		if !tier.IsAvailable() {
			return progerrors.Newf(progerrors.CodeExceedsTotalSupply, "tier is sold out at %d tickets", tier.MaxSupply)
		}
		if err := requireNFT(ctx, tx, mint, buyer); err != nil {
			return err
		}

		escrow := domain.EventEscrowAddress(event.Address)
		if err := tx.Transfer(ctx, buyer, escrow, tier.PriceLamports); err != nil {
			return err
		}
		if err := tier.TakeOne(); err != nil {
			return err
		}
		if err := event.RecordRevenue(tier.PriceLamports); err != nil {
			return err
		}

		created := domain.NewTicket(buyer, event.Address, tier.Address, mint)
		if err := tx.CreateTicket(ctx, created); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeTicketAlreadyExists, "ticket already exists for this mint")
			}
			return err
		}
		order, err := domain.NewOrder(buyer, event.Address, tier.Address, mint, orderID, tier.PriceLamports, now)
		if err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeDuplicateOrder, "order id already used by this buyer")
			}
			return err
		}
		if err := tx.UpdateTier(ctx, tier); err != nil {
			return err
		}
		if err := tx.UpdateEvent(ctx, event); err != nil {
			return err
		}

		balance, err := tx.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		monitoring.SetEscrowBalance(escrow.String(), balance)
		monitoring.IncTicketsSold(event.Address.String())

		if err := audit(ctx, tx, storage.AuditTicketPurchased, created.Address, buyer, tier.PriceLamports, now); err != nil {
			return err
		}
		ticket = created
		return nil
	})
	return ticket, mapStorageErr(err)
}

// RegisterMint records a ticket for an externally pre-minted asset. Same
// supply and ownership checks as a purchase, without the payment.
func (s *Service) RegisterMint(ctx context.Context, owner, tierAddr, mint domain.Address) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.run(ctx, "register_mint", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		tier, err := tx.GetTier(ctx, tierAddr)
		if err != nil {
			return err
		}
		event, err := tx.GetEvent(ctx, tier.Event)
		if err != nil {
			return err
		}
		if !tier.IsAvailable() {
			return progerrors.Newf(progerrors.CodeExceedsTotalSupply, "tier is sold out at %d tickets", tier.MaxSupply)
		}
		if err := requireNFT(ctx, tx, mint, owner); err != nil {
			return err
		}
		if err := tier.TakeOne(); err != nil {
			return err
		}

		created := domain.NewTicket(owner, event.Address, tier.Address, mint)
		if err := tx.CreateTicket(ctx, created); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeTicketAlreadyExists, "ticket already exists for this mint")
			}
			return err
		}
		if err := tx.UpdateTier(ctx, tier); err != nil {
			return err
		}
		monitoring.IncTicketsSold(event.Address.String())
		if err := audit(ctx, tx, storage.AuditTicketRegistered, created.Address, owner, 0, now); err != nil {
			return err
		}
		ticket = created
		return nil
	})
	return ticket, mapStorageErr(err)
}

// TransferTicket moves a ticket to a new owner. Resale must be enabled on
// the tier; a non-zero sale price owes a royalty to the platform treasury
// before the asset moves.
func (s *Service) TransferTicket(ctx context.Context, signer, ticketAddr, to domain.Address, salePrice uint64) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.run(ctx, "transfer_ticket", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		loaded, err := tx.GetTicket(ctx, ticketAddr)
		if err != nil {
			return err
		}
		if loaded.Owner != signer {
			return progerrors.New(progerrors.CodeTicketNotOwned, "only the ticket owner may transfer it")
		}
		if err := loaded.Transferable(); err != nil {
			return err
		}
		tier, err := tx.GetTier(ctx, loaded.Tier)
		if err != nil {
			return err
		}
		if !tier.ResaleEnabled {
			return progerrors.New(progerrors.CodeResaleDisabled, "resale is disabled for this tier")
		}

		if salePrice > 0 {
			royalty, err := tier.Royalty(salePrice)
			if err != nil {
				return err
			}
			if royalty > 0 {
				if err := tx.Transfer(ctx, signer, s.platformTreasury, royalty); err != nil {
					return err
				}
			}
		}
		if err := tx.TransferToken(ctx, loaded.Mint, signer, to, 1); err != nil {
			return err
		}

		loaded.Owner = to
		if err := tx.UpdateTicket(ctx, loaded); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditTicketTransferred, loaded.Address, signer, salePrice, now); err != nil {
			return err
		}
		ticket = loaded
		return nil
	})
	return ticket, mapStorageErr(err)
}

// MarkTicketUsed checks a ticket in with the owner signing directly.
func (s *Service) MarkTicketUsed(ctx context.Context, signer, ticketAddr, gateOperator domain.Address) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.run(ctx, "mark_ticket_used", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		loaded, err := tx.GetTicket(ctx, ticketAddr)
		if err != nil {
			return err
		}
		if loaded.Owner != signer {
			return progerrors.New(progerrors.CodeUnauthorizedTicketUse, "only the ticket owner may use the ticket")
		}
		if err := requireNFT(ctx, tx, loaded.Mint, signer); err != nil {
			return err
		}
		if err := loaded.MarkUsed(gateOperator, now); err != nil {
			return err
		}
		if err := tx.UpdateTicket(ctx, loaded); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditTicketUsed, loaded.Address, signer, 0, now); err != nil {
			return err
		}
		ticket = loaded
		return nil
	})
	return ticket, mapStorageErr(err)
}

// MarkTicketUsedSigned checks a ticket in on behalf of its owner. The gate
// operator presents a proof signed by the owner over (nonceHash,
// nonceValue); the nonce record is single use, so a replayed proof collides
// and fails closed.
func (s *Service) MarkTicketUsedSigned(ctx context.Context, gateOperator, ticketAddr domain.Address, proof checkin.Proof, nonceHash [32]byte, nonceValue uint64) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.run(ctx, "mark_ticket_used_signed", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		loaded, err := tx.GetTicket(ctx, ticketAddr)
		if err != nil {
			return err
		}
		if err := checkin.Verify(proof, loaded.Owner, nonceHash, nonceValue); err != nil {
			return err
		}

		nonce := domain.NewNonce(loaded.Address, nonceHash, now)
		if err := tx.CreateNonce(ctx, nonce); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeNonceUsed, "nonce already exists")
			}
			return err
		}
		if nonce.IsExpired(now) {
			return progerrors.New(progerrors.CodeNonceExpired, "nonce has expired")
		}
		if nonce.Used {
			return progerrors.New(progerrors.CodeNonceUsed, "nonce has already been used")
		}
		if err := loaded.MarkUsed(gateOperator, now); err != nil {
			return err
		}
		nonce.Used = true
		if err := tx.UpdateNonce(ctx, nonce); err != nil {
			return err
		}
		if err := tx.UpdateTicket(ctx, loaded); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditTicketUsed, loaded.Address, gateOperator, 0, now); err != nil {
			return err
		}
		ticket = loaded
		return nil
	})
	return ticket, mapStorageErr(err)
}

// RefundTicket returns the tier price to the ticket owner and burns the
// underlying asset. Only the event authority may refund, and only before
// the event starts.
func (s *Service) RefundTicket(ctx context.Context, signer, ticketAddr domain.Address) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := s.run(ctx, "refund_ticket", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		loaded, err := tx.GetTicket(ctx, ticketAddr)
		if err != nil {
			return err
		}
		event, err := tx.GetEvent(ctx, loaded.Event)
		if err != nil {
			return err
		}
		if event.Authority != signer {
			return progerrors.New(progerrors.CodeUnauthorizedRefund, "only the event authority may refund tickets")
		}
		if event.Started(now) {
			return progerrors.New(progerrors.CodeEventAlreadyStarted, "cannot refund after the event has started")
		}
		tier, err := tx.GetTier(ctx, loaded.Tier)
		if err != nil {
			return err
		}
		if err := loaded.MarkRefunded(now); err != nil {
			return err
		}

		escrow := domain.EventEscrowAddress(event.Address)
		balance, err := tx.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		available, err := domain.CheckedSub(balance, domain.RentExemptMinimum)
		if err != nil || available < tier.PriceLamports {
			return progerrors.Newf(progerrors.CodeInsufficientBalance, "escrow holds %d lamports, cannot refund %d", balance, tier.PriceLamports)
		}
		if err := tx.BurnToken(ctx, loaded.Mint, loaded.Owner, 1); err != nil {
			return err
		}
		if err := tx.Transfer(ctx, escrow, loaded.Owner, tier.PriceLamports); err != nil {
			return err
		}
		if err := tx.UpdateTicket(ctx, loaded); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditTicketRefunded, loaded.Address, signer, tier.PriceLamports, now); err != nil {
			return err
		}
		ticket = loaded
		return nil
	})
	return ticket, mapStorageErr(err)
}
