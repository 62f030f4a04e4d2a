package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CreateCampaign inserts one campaign record. The unique event column
// enforces the 1:1 campaign-per-event invariant.
func (t *Tx) CreateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO campaigns (
		   address, event, organizer, funding_goal, total_raised, deadline,
		   status, total_contributors, created_at, total_expenses, total_revenue,
		   backer_pool, organizer_pool, platform_pool, distribution_complete, organizer_claimed
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.Address.String(),
		campaign.Event.String(),
		campaign.Organizer.String(),
		int64(campaign.FundingGoal),
		int64(campaign.TotalRaised),
		campaign.Deadline,
		int(campaign.Status),
		int64(campaign.TotalContributors),
		campaign.CreatedAt,
		int64(campaign.TotalExpenses),
		int64(campaign.TotalRevenue),
		int64(campaign.BackerPool),
		int64(campaign.OrganizerPool),
		int64(campaign.PlatformPool),
		boolToInt(campaign.DistributionComplete),
		boolToInt(campaign.OrganizerClaimed),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// GetCampaign returns one campaign by address.
func (t *Tx) GetCampaign(ctx context.Context, address domain.Address) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, event, organizer, funding_goal, total_raised, deadline,
		        status, total_contributors, created_at, total_expenses, total_revenue,
		        backer_pool, organizer_pool, platform_pool, distribution_complete, organizer_claimed
		   FROM campaigns
		  WHERE address = ?`,
		address.String(),
	)

	var campaign domain.Campaign
	var addr, event, organizer string
	var status int
	err := row.Scan(
		&addr,
		&event,
		&organizer,
		&campaign.FundingGoal,
		&campaign.TotalRaised,
		&campaign.Deadline,
		&status,
		&campaign.TotalContributors,
		&campaign.CreatedAt,
		&campaign.TotalExpenses,
		&campaign.TotalRevenue,
		&campaign.BackerPool,
		&campaign.OrganizerPool,
		&campaign.PlatformPool,
		&campaign.DistributionComplete,
		&campaign.OrganizerClaimed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	campaign.Status = domain.CampaignStatus(status)
	if campaign.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	if campaign.Event, err = domain.ParseAddress(event); err != nil {
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	if campaign.Organizer, err = domain.ParseAddress(organizer); err != nil {
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

// UpdateCampaign rewrites the mutable fields of one campaign record.
func (t *Tx) UpdateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE campaigns
		    SET total_raised = ?, status = ?, total_contributors = ?,
		        total_expenses = ?, total_revenue = ?,
		        backer_pool = ?, organizer_pool = ?, platform_pool = ?,
		        distribution_complete = ?, organizer_claimed = ?
		  WHERE address = ?`,
		int64(campaign.TotalRaised),
		int(campaign.Status),
		int64(campaign.TotalContributors),
		int64(campaign.TotalExpenses),
		int64(campaign.TotalRevenue),
		int64(campaign.BackerPool),
		int64(campaign.OrganizerPool),
		int64(campaign.PlatformPool),
		boolToInt(campaign.DistributionComplete),
		boolToInt(campaign.OrganizerClaimed),
		campaign.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateContribution inserts one backer stake record, unique per
// (campaign, contributor).
func (t *Tx) CreateContribution(ctx context.Context, contribution domain.Contribution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO contributions (
		   address, campaign, contributor, amount, contributed_at,
		   refunded, profit_share, profit_claimed
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contribution.Address.String(),
		contribution.Campaign.String(),
		contribution.Contributor.String(),
		int64(contribution.Amount),
		contribution.ContributedAt,
		boolToInt(contribution.Refunded),
		int64(contribution.ProfitShare),
		boolToInt(contribution.ProfitClaimed),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create contribution: %w", err)
	}
	return nil
}

// GetContribution returns one backer stake by address.
func (t *Tx) GetContribution(ctx context.Context, address domain.Address) (domain.Contribution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Contribution{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, campaign, contributor, amount, contributed_at,
		        refunded, profit_share, profit_claimed
		   FROM contributions
		  WHERE address = ?`,
		address.String(),
	)

	var contribution domain.Contribution
	var addr, campaign, contributor string
	err := row.Scan(
		&addr,
		&campaign,
		&contributor,
		&contribution.Amount,
		&contribution.ContributedAt,
		&contribution.Refunded,
		&contribution.ProfitShare,
		&contribution.ProfitClaimed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contribution{}, storage.ErrNotFound
		}
		return domain.Contribution{}, fmt.Errorf("get contribution: %w", err)
	}
	if contribution.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.Contribution{}, fmt.Errorf("get contribution: %w", err)
	}
	if contribution.Campaign, err = domain.ParseAddress(campaign); err != nil {
		return domain.Contribution{}, fmt.Errorf("get contribution: %w", err)
	}
	if contribution.Contributor, err = domain.ParseAddress(contributor); err != nil {
		return domain.Contribution{}, fmt.Errorf("get contribution: %w", err)
	}
	return contribution, nil
}

// UpdateContribution rewrites the mutable fields of one stake record.
func (t *Tx) UpdateContribution(ctx context.Context, contribution domain.Contribution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE contributions
		    SET refunded = ?, profit_share = ?, profit_claimed = ?
		  WHERE address = ?`,
		boolToInt(contribution.Refunded),
		int64(contribution.ProfitShare),
		boolToInt(contribution.ProfitClaimed),
		contribution.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update contribution: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contribution: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateBudget inserts one budget record with its three milestones.
func (t *Tx) CreateBudget(ctx context.Context, budget domain.Budget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO budgets (
		   address, campaign, total_amount, description, status,
		   voting_end, votes_for, votes_against, revision_count, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.Address.String(),
		budget.Campaign.String(),
		int64(budget.TotalAmount),
		budget.Description,
		int(budget.Status),
		budget.VotingEnd,
		int64(budget.VotesFor),
		int64(budget.VotesAgainst),
		int64(budget.RevisionCount),
		budget.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create budget: %w", err)
	}
	for i, milestone := range budget.Milestones {
		_, err := t.tx.ExecContext(
			ctx,
			`INSERT INTO budget_milestones (
			   budget, idx, description, release_percentage,
			   unlock_date, released, released_amount
			 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			budget.Address.String(),
			i,
			milestone.Description,
			int64(milestone.ReleasePercentage),
			milestone.UnlockDate,
			boolToInt(milestone.Released),
			int64(milestone.ReleasedAmount),
		)
		if err != nil {
			return fmt.Errorf("create budget milestone %d: %w", i, err)
		}
	}
	return nil
}

// GetBudget returns one budget with its milestones by address.
func (t *Tx) GetBudget(ctx context.Context, address domain.Address) (domain.Budget, error) {
	if err := ctx.Err(); err != nil {
		return domain.Budget{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, campaign, total_amount, description, status,
		        voting_end, votes_for, votes_against, revision_count, created_at
		   FROM budgets
		  WHERE address = ?`,
		address.String(),
	)

	var budget domain.Budget
	var addr, campaign string
	var status int
	err := row.Scan(
		&addr,
		&campaign,
		&budget.TotalAmount,
		&budget.Description,
		&status,
		&budget.VotingEnd,
		&budget.VotesFor,
		&budget.VotesAgainst,
		&budget.RevisionCount,
		&budget.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Budget{}, storage.ErrNotFound
		}
		return domain.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	budget.Status = domain.BudgetStatus(status)
	if budget.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	if budget.Campaign, err = domain.ParseAddress(campaign); err != nil {
		return domain.Budget{}, fmt.Errorf("get budget: %w", err)
	}

	rows, err := t.tx.QueryContext(
		ctx,
		`SELECT idx, description, release_percentage, unlock_date, released, released_amount
		   FROM budget_milestones
		  WHERE budget = ?
		  ORDER BY idx ASC`,
		address.String(),
	)
	if err != nil {
		return domain.Budget{}, fmt.Errorf("get budget milestones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var milestone domain.Milestone
		if err := rows.Scan(
			&idx,
			&milestone.Description,
			&milestone.ReleasePercentage,
			&milestone.UnlockDate,
			&milestone.Released,
			&milestone.ReleasedAmount,
		); err != nil {
			return domain.Budget{}, fmt.Errorf("scan budget milestone: %w", err)
		}
		if idx < 0 || idx >= domain.MilestoneCount {
			return domain.Budget{}, fmt.Errorf("budget milestone index %d out of range", idx)
		}
		budget.Milestones[idx] = milestone
	}
	if err := rows.Err(); err != nil {
		return domain.Budget{}, fmt.Errorf("get budget milestones: %w", err)
	}
	return budget, nil
}

// UpdateBudget rewrites the mutable fields of one budget and its milestones.
func (t *Tx) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE budgets
		    SET status = ?, votes_for = ?, votes_against = ?
		  WHERE address = ?`,
		int(budget.Status),
		int64(budget.VotesFor),
		int64(budget.VotesAgainst),
		budget.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	for i, milestone := range budget.Milestones {
		if _, err := t.tx.ExecContext(
			ctx,
			`UPDATE budget_milestones
			    SET released = ?, released_amount = ?
			  WHERE budget = ? AND idx = ?`,
			boolToInt(milestone.Released),
			int64(milestone.ReleasedAmount),
			budget.Address.String(),
			i,
		); err != nil {
			return fmt.Errorf("update budget milestone %d: %w", i, err)
		}
	}
	return nil
}

// CreateVote inserts one immutable budget vote. A second vote by the same
// backer collides on the (budget, voter) unique key.
func (t *Tx) CreateVote(ctx context.Context, vote domain.BudgetVote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO budget_votes (
		   address, budget, voter, approve, voting_power, voted_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		vote.Address.String(),
		vote.Budget.String(),
		vote.Voter.String(),
		boolToInt(vote.Approve),
		int64(vote.VotingPower),
		vote.VotedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create vote: %w", err)
	}
	return nil
}
