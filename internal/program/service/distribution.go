package service

import (
	"context"
	"errors"

	progerrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/monitoring"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CalculateDistribution settles a funded campaign after its event ends. On
// profit, the profit amount moves from the event escrow into the campaign
// escrow, the pools split 60/35/5, and the platform pool pays out to the
// platform treasury immediately; the other two pools wait in the campaign
// escrow for their claim operations. On loss or break-even all pools are
// zero and no funds move.
func (s *Service) CalculateDistribution(ctx context.Context, signer, campaignAddr domain.Address) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := s.run(ctx, "calculate_distribution", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		loaded, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		if loaded.DistributionComplete {
			return progerrors.New(progerrors.CodeDistributionAlreadyComplete, "distribution has already been calculated")
		}
		if loaded.Status != domain.CampaignFunded {
			return progerrors.New(progerrors.CodeCampaignNotFunded, "distribution requires a funded campaign")
		}
		event, err := tx.GetEvent(ctx, loaded.Event)
		if err != nil {
			return err
		}
		if !event.Ended(now) {
			return progerrors.New(progerrors.CodeEventNotEnded, "distribution requires the event to have ended")
		}
		if err := loaded.SettleDistribution(event.TicketRevenue); err != nil {
			return err
		}

		campaignEscrow := domain.CampaignEscrowAddress(loaded.Address)
		if profit := loaded.Profit(); profit > 0 {
			eventEscrow := domain.EventEscrowAddress(event.Address)
			if err := tx.Transfer(ctx, eventEscrow, campaignEscrow, profit); err != nil {
				return err
			}
			if err := tx.Transfer(ctx, campaignEscrow, s.platformTreasury, loaded.PlatformPool); err != nil {
				return err
			}
		}
		if err := tx.UpdateCampaign(ctx, loaded); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditDistributionCalc, loaded.Address, signer, loaded.Profit(), now); err != nil {
			return err
		}

		balance, err := tx.Balance(ctx, campaignEscrow)
		if err != nil {
			return err
		}
		monitoring.SetEscrowBalance(campaignEscrow.String(), balance)
		campaign = loaded
		return nil
	})
	return campaign, mapStorageErr(err)
}

// ClaimBackerProfit pays one backer their proportional slice of the backer
// pool. Rounding is floor-per-backer, so the pool never overdraws; a backer
// whose share floors to zero still completes the claim.
func (s *Service) ClaimBackerProfit(ctx context.Context, contributor, campaignAddr domain.Address) (uint64, error) {
	var share uint64
	err := s.run(ctx, "claim_backer_profit", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		campaign, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		if campaign.Status != domain.CampaignCompleted || !campaign.DistributionComplete {
			return progerrors.New(progerrors.CodeDistributionNotComplete, "profit distribution has not been calculated")
		}
		contribution, err := tx.GetContribution(ctx, domain.ContributionAddress(campaign.Address, contributor))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return progerrors.New(progerrors.CodeNotAContributor, "only campaign backers may claim profit")
			}
			return err
		}
		if contribution.ProfitClaimed {
			return progerrors.New(progerrors.CodeProfitAlreadyClaimed, "backer has already claimed their profit share")
		}

		amount := contribution.CalculateShare(campaign.BackerPool, campaign.TotalRaised)
		if amount > 0 {
			if err := tx.Transfer(ctx, domain.CampaignEscrowAddress(campaign.Address), contributor, amount); err != nil {
				return err
			}
		}
		contribution.ProfitShare = amount
		contribution.ProfitClaimed = true
		if err := tx.UpdateContribution(ctx, contribution); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditProfitClaimed, contribution.Address, contributor, amount, now); err != nil {
			return err
		}
		share = amount
		return nil
	})
	return share, mapStorageErr(err)
}

// ClaimOrganizerProfit pays the organizer pool out of the campaign escrow,
// once.
func (s *Service) ClaimOrganizerProfit(ctx context.Context, signer, campaignAddr domain.Address) (uint64, error) {
	var paid uint64
	err := s.run(ctx, "claim_organizer_profit", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		campaign, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		if campaign.Status != domain.CampaignCompleted || !campaign.DistributionComplete {
			return progerrors.New(progerrors.CodeDistributionNotComplete, "profit distribution has not been calculated")
		}
		if campaign.Organizer != signer {
			return progerrors.New(progerrors.CodeUnauthorizedClaim, "only the campaign organizer may claim the organizer pool")
		}
		if campaign.OrganizerClaimed {
			return progerrors.New(progerrors.CodeOrganizerAlreadyClaimed, "organizer pool has already been claimed")
		}

		if campaign.OrganizerPool > 0 {
			if err := tx.Transfer(ctx, domain.CampaignEscrowAddress(campaign.Address), campaign.Organizer, campaign.OrganizerPool); err != nil {
				return err
			}
		}
		campaign.OrganizerClaimed = true
		if err := tx.UpdateCampaign(ctx, campaign); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditProfitClaimed, campaign.Address, signer, campaign.OrganizerPool, now); err != nil {
			return err
		}
		paid = campaign.OrganizerPool
		return nil
	})
	return paid, mapStorageErr(err)
}
