package service

import (
	"context"
	"errors"

	progerrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/monitoring"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CreateCampaign attaches a crowdfunding campaign to an event. One campaign
// per event; the deadline must fall strictly before the event starts.
func (s *Service) CreateCampaign(ctx context.Context, signer, eventAddr domain.Address, fundingGoal uint64, deadline int64) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := s.run(ctx, "create_campaign", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		event, err := tx.GetEvent(ctx, eventAddr)
		if err != nil {
			return err
		}
		if event.Authority != signer {
			return progerrors.New(progerrors.CodeUnauthorizedCampaignAction, "only the event authority may create a campaign")
		}
		if event.HasCampaign() {
			return progerrors.New(progerrors.CodeAlreadyExists, "event already has a campaign")
		}
		created, err := domain.NewCampaign(event, fundingGoal, deadline, now)
		if err != nil {
			return err
		}
		if err := tx.CreateCampaign(ctx, created); err != nil {
			return err
		}
		event.LinkCampaign(created.Address)
		if err := tx.UpdateEvent(ctx, event); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditCampaignCreated, created.Address, signer, fundingGoal, now); err != nil {
			return err
		}
		campaign = created
		return nil
	})
	return campaign, mapStorageErr(err)
}

// GetCampaign returns one campaign.
func (s *Service) GetCampaign(ctx context.Context, address domain.Address) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		campaign, err = tx.GetCampaign(ctx, address)
		return err
	})
	return campaign, mapStorageErr(err)
}

// Contribute stakes funds on a pending campaign. One contribution per
// backer; the funds move into the campaign escrow.
func (s *Service) Contribute(ctx context.Context, contributor, campaignAddr domain.Address, amount uint64) (domain.Contribution, error) {
	var contribution domain.Contribution
	err := s.run(ctx, "contribute", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		campaign, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		if !campaign.IsActive() {
			return progerrors.New(progerrors.CodeCampaignNotActive, "campaign is not accepting contributions")
		}
		if campaign.DeadlinePassed(now) {
			return progerrors.New(progerrors.CodeCampaignDeadlinePassed, "campaign deadline has passed")
		}
		if amount == 0 {
			return progerrors.New(progerrors.CodeInvalidContributionAmount, "contribution amount must be greater than zero")
		}

		escrow := domain.CampaignEscrowAddress(campaign.Address)
		if err := tx.Transfer(ctx, contributor, escrow, amount); err != nil {
			return err
		}
		created := domain.NewContribution(campaign.Address, contributor, amount, now)
		if err := tx.CreateContribution(ctx, created); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeInvalidContribution, "backer has already contributed to this campaign")
			}
			return err
		}
		if err := campaign.AddContribution(amount); err != nil {
			return err
		}
		if err := tx.UpdateCampaign(ctx, campaign); err != nil {
			return err
		}

		balance, err := tx.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		monitoring.SetEscrowBalance(escrow.String(), balance)
		if err := audit(ctx, tx, storage.AuditContributed, created.Address, contributor, amount, now); err != nil {
			return err
		}
		contribution = created
		return nil
	})
	return contribution, mapStorageErr(err)
}

// FinalizeCampaign settles a pending campaign to Funded or Failed. Callable
// by anyone once the goal is reached or the deadline has passed.
func (s *Service) FinalizeCampaign(ctx context.Context, signer, campaignAddr domain.Address) (domain.CampaignStatus, error) {
	var status domain.CampaignStatus
	err := s.run(ctx, "finalize_campaign", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		campaign, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		settled, err := campaign.Finalize(now)
		if err != nil {
			return err
		}
		if err := tx.UpdateCampaign(ctx, campaign); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditCampaignFinalized, campaign.Address, signer, campaign.TotalRaised, now); err != nil {
			return err
		}
		status = settled
		return nil
	})
	return status, mapStorageErr(err)
}

// ClaimRefund returns a backer's full stake from the campaign escrow after
// a campaign fails.
func (s *Service) ClaimRefund(ctx context.Context, contributor, campaignAddr domain.Address) (uint64, error) {
	var refunded uint64
	err := s.run(ctx, "claim_refund", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		campaign, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		if !campaign.RefundsAvailable() {
			return progerrors.New(progerrors.CodeCannotRefundFundedCampaign, "refunds are only available on failed campaigns")
		}
		contribution, err := tx.GetContribution(ctx, domain.ContributionAddress(campaign.Address, contributor))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return progerrors.New(progerrors.CodeNotAContributor, "no contribution found for this backer")
			}
			return err
		}
		if !contribution.CanRefund() {
			return progerrors.New(progerrors.CodeContributionAlreadyRefunded, "contribution has already been refunded")
		}

		escrow := domain.CampaignEscrowAddress(campaign.Address)
		if err := tx.Transfer(ctx, escrow, contributor, contribution.Amount); err != nil {
			return err
		}
		contribution.Refunded = true
		campaign.RefundContribution(contribution.Amount)
		if err := tx.UpdateContribution(ctx, contribution); err != nil {
			return err
		}
		if err := tx.UpdateCampaign(ctx, campaign); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditRefundClaimed, contribution.Address, contributor, contribution.Amount, now); err != nil {
			return err
		}
		refunded = contribution.Amount
		return nil
	})
	return refunded, mapStorageErr(err)
}
