package service

import (
	"context"
	"errors"

	progerrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// SubmitBudget submits the initial spending plan for a funded campaign and
// opens its voting window.
func (s *Service) SubmitBudget(ctx context.Context, signer, campaignAddr domain.Address, totalAmount uint64, description string, milestones []domain.MilestoneInput, votingPeriodSeconds int64) (domain.Budget, error) {
	var budget domain.Budget
	err := s.run(ctx, "submit_budget", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		campaign, err := tx.GetCampaign(ctx, campaignAddr)
		if err != nil {
			return err
		}
		if campaign.Organizer != signer {
			return progerrors.New(progerrors.CodeUnauthorizedCampaignAction, "only the campaign organizer may submit a budget")
		}
		if campaign.Status != domain.CampaignFunded {
			return progerrors.New(progerrors.CodeCampaignNotFunded, "budgets require a funded campaign")
		}
		created, err := domain.NewBudget(campaign, 0, totalAmount, description, milestones, votingPeriodSeconds, now)
		if err != nil {
			return err
		}
		if err := tx.CreateBudget(ctx, created); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditBudgetSubmitted, created.Address, signer, totalAmount, now); err != nil {
			return err
		}
		budget = created
		return nil
	})
	return budget, mapStorageErr(err)
}

// GetBudget returns one budget with its milestones.
func (s *Service) GetBudget(ctx context.Context, address domain.Address) (domain.Budget, error) {
	var budget domain.Budget
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		budget, err = tx.GetBudget(ctx, address)
		return err
	})
	return budget, mapStorageErr(err)
}

// VoteOnBudget casts one backer's stake-weighted vote. A backer votes at
// most once per budget.
func (s *Service) VoteOnBudget(ctx context.Context, voter, budgetAddr domain.Address, approve bool) (domain.BudgetVote, error) {
	var vote domain.BudgetVote
	err := s.run(ctx, "vote_on_budget", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		budget, err := tx.GetBudget(ctx, budgetAddr)
		if err != nil {
			return err
		}
		if budget.Status != domain.BudgetPending {
			return progerrors.New(progerrors.CodeBudgetNotPending, "budget is not open for voting")
		}
		if budget.VotingEnded(now) {
			return progerrors.New(progerrors.CodeVotingPeriodEnded, "voting period has ended")
		}
		contribution, err := tx.GetContribution(ctx, domain.ContributionAddress(budget.Campaign, voter))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return progerrors.New(progerrors.CodeNotAContributor, "only campaign backers may vote")
			}
			return err
		}

		cast := domain.NewBudgetVote(budget, contribution, approve, now)
		if err := tx.CreateVote(ctx, cast); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return progerrors.New(progerrors.CodeAlreadyVoted, "backer has already voted on this budget")
			}
			return err
		}
		if err := budget.RecordVote(approve, cast.VotingPower); err != nil {
			return err
		}
		if err := tx.UpdateBudget(ctx, budget); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditBudgetVoted, cast.Address, voter, cast.VotingPower, now); err != nil {
			return err
		}
		vote = cast
		return nil
	})
	return vote, mapStorageErr(err)
}

// FinalizeBudgetVote settles a budget vote after its window closes.
// Approved iff strictly more stake voted for than against and at least some
// stake voted for.
func (s *Service) FinalizeBudgetVote(ctx context.Context, signer, budgetAddr domain.Address) (domain.BudgetStatus, error) {
	var status domain.BudgetStatus
	err := s.run(ctx, "finalize_budget_vote", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		budget, err := tx.GetBudget(ctx, budgetAddr)
		if err != nil {
			return err
		}
		settled, err := budget.FinalizeVote(now)
		if err != nil {
			return err
		}
		if err := tx.UpdateBudget(ctx, budget); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditBudgetFinalized, budget.Address, signer, 0, now); err != nil {
			return err
		}
		status = settled
		return nil
	})
	return status, mapStorageErr(err)
}

// ReviseBudget submits a fresh budget after a rejection, capped at two
// revisions. The rejected budget stays behind as a historical record.
func (s *Service) ReviseBudget(ctx context.Context, signer, budgetAddr domain.Address, totalAmount uint64, description string, milestones []domain.MilestoneInput, votingPeriodSeconds int64) (domain.Budget, error) {
	var budget domain.Budget
	err := s.run(ctx, "revise_budget", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		previous, err := tx.GetBudget(ctx, budgetAddr)
		if err != nil {
			return err
		}
		campaign, err := tx.GetCampaign(ctx, previous.Campaign)
		if err != nil {
			return err
		}
		if campaign.Organizer != signer {
			return progerrors.New(progerrors.CodeUnauthorizedCampaignAction, "only the campaign organizer may revise a budget")
		}
		if previous.Status != domain.BudgetRejected {
			return progerrors.New(progerrors.CodeCannotReviseBudget, "only rejected budgets can be revised")
		}
		if !previous.CanRevise() {
			return progerrors.New(progerrors.CodeMaxRevisionsReached, "budget revision limit reached")
		}
		created, err := domain.NewBudget(campaign, previous.RevisionCount+1, totalAmount, description, milestones, votingPeriodSeconds, now)
		if err != nil {
			return err
		}
		if err := tx.CreateBudget(ctx, created); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditBudgetSubmitted, created.Address, signer, totalAmount, now); err != nil {
			return err
		}
		budget = created
		return nil
	})
	return budget, mapStorageErr(err)
}

// ReleaseMilestone pays one unlocked milestone of an approved budget from
// the campaign escrow to the organizer, recording the exact amount as a
// campaign expense.
func (s *Service) ReleaseMilestone(ctx context.Context, signer, budgetAddr domain.Address, index int) (uint64, error) {
	var released uint64
	err := s.run(ctx, "release_milestone", func(ctx context.Context, tx storage.Tx) error {
		now := s.now()
		budget, err := tx.GetBudget(ctx, budgetAddr)
		if err != nil {
			return err
		}
		campaign, err := tx.GetCampaign(ctx, budget.Campaign)
		if err != nil {
			return err
		}
		if campaign.Organizer != signer {
			return progerrors.New(progerrors.CodeUnauthorizedCampaignAction, "only the campaign organizer may release milestones")
		}
		amount, err := budget.ReleaseAmount(index)
		if err != nil {
			return err
		}
		if err := budget.ReleaseMilestone(index, amount, now); err != nil {
			return err
		}
		if err := tx.Transfer(ctx, domain.CampaignEscrowAddress(campaign.Address), campaign.Organizer, amount); err != nil {
			return err
		}
		if err := campaign.AddExpense(amount); err != nil {
			return err
		}
		if err := tx.UpdateBudget(ctx, budget); err != nil {
			return err
		}
		if err := tx.UpdateCampaign(ctx, campaign); err != nil {
			return err
		}
		if err := audit(ctx, tx, storage.AuditMilestoneReleased, budget.Address, signer, amount, now); err != nil {
			return err
		}
		released = amount
		return nil
	})
	return released, mapStorageErr(err)
}
