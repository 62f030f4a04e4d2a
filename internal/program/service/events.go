package service

import (
	"context"
	"errors"

	progerrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/monitoring"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CreateEvent creates an event owned by the organizer in the input.
func (s *Service) CreateEvent(ctx context.Context, input domain.CreateEventInput) (domain.Event, error) {
	var event domain.Event
	err := s.run(ctx, "create_event", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		created, err := domain.NewEvent(input, now)
		if err != nil {
			return err
		}
		if err := tx.CreateEvent(ctx, created); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeDuplicateEvent, "event already exists")
			}
			return err
		}
		if err := audit(ctx, tx, storage.AuditEventCreated, created.Address, created.Authority, 0, now); err != nil {
			return err
		}
		event = created
		return nil
	})
	return event, mapStorageErr(err)
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, address domain.Address) (domain.Event, error) {
	var event domain.Event
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		event, err = tx.GetEvent(ctx, address)
		return err
	})
	return event, mapStorageErr(err)
}

// UpdateEvent applies organizer-updatable fields to an event.
func (s *Service) UpdateEvent(ctx context.Context, signer, address domain.Address, params domain.UpdateEventParams) (domain.Event, error) {
	var event domain.Event
	err := s.run(ctx, "update_event", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		loaded, err := tx.GetEvent(ctx, address)
		if err != nil {
			return err
		}
		if loaded.Authority != signer {
			return progerrors.New(progerrors.CodeUnauthorizedUpdate, "only the event authority may update the event")
		}
		if _, err := loaded.ApplyUpdate(params, now); err != nil {
			return err
		}
		if err := tx.UpdateEvent(ctx, loaded); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditEventUpdated, loaded.Address, signer, 0, now); err != nil {
			return err
		}
		event = loaded
		return nil
	})
	return event, mapStorageErr(err)
}

// CloseEvent reclaims an event's storage. The event must have ended, its
// escrow must hold no more than the rent-exempt reserve, and a linked
// campaign's escrow must be equally drained.
func (s *Service) CloseEvent(ctx context.Context, signer, address domain.Address) error {
	err := s.run(ctx, "close_event", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		event, err := tx.GetEvent(ctx, address)
		if err != nil {
			return err
		}
		if event.Authority != signer {
			return progerrors.New(progerrors.CodeUnauthorizedUpdate, "only the event authority may close the event")
		}
		if !event.Ended(now) {
			return progerrors.New(progerrors.CodeEventNotEnded, "event has not ended")
		}
		escrowBalance, err := tx.Balance(ctx, domain.EventEscrowAddress(event.Address))
		if err != nil {
			return err
		}
		if escrowBalance > domain.RentExemptMinimum {
			return progerrors.Newf(progerrors.CodeOutstandingFunds, "event escrow still holds %d lamports", escrowBalance)
		}
		if event.HasCampaign() {
			campaignEscrow, err := tx.Balance(ctx, domain.CampaignEscrowAddress(event.Campaign))
			if err != nil {
				return err
			}
			if campaignEscrow > domain.RentExemptMinimum {
				return progerrors.Newf(progerrors.CodeOutstandingFunds, "campaign escrow still holds %d lamports", campaignEscrow)
			}
		}
		if err := tx.DeleteEvent(ctx, event.Address); err != nil {
			return err
		}
		return audit(ctx, tx, storage.AuditEventClosed, event.Address, signer, 0, now)
	})
	return mapStorageErr(err)
}

// WithdrawFunds moves ticket proceeds from the event escrow to the event
// treasury, always leaving the rent-exempt reserve behind.
func (s *Service) WithdrawFunds(ctx context.Context, signer, address domain.Address, amount uint64) error {
	err := s.run(ctx, "withdraw_funds", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		event, err := tx.GetEvent(ctx, address)
		if err != nil {
			return err
		}
		if event.Authority != signer {
			return progerrors.New(progerrors.CodeUnauthorizedWithdrawal, "only the event authority may withdraw funds")
		}
		escrow := domain.EventEscrowAddress(event.Address)
		balance, err := tx.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		available, err := domain.CheckedSub(balance, domain.RentExemptMinimum)
		if err != nil || amount > available {
			return progerrors.Newf(progerrors.CodeInsufficientBalance, "escrow holds %d lamports, cannot withdraw %d", balance, amount)
		}
		if err := tx.Transfer(ctx, escrow, event.Treasury, amount); err != nil {
			return err
		}
		remaining, err := tx.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		monitoring.SetEscrowBalance(escrow.String(), remaining)
		return audit(ctx, tx, storage.AuditFundsWithdrawn, event.Address, signer, amount, now)
	})
	return mapStorageErr(err)
}
