package domain

import (
	"github.com/Ah-Riz/mythra-program/internal/errors"
)

const (
	// MaxBudgetDescriptionLength bounds the budget description.
	MaxBudgetDescriptionLength = 200
	// MaxMilestoneDescriptionLength bounds each milestone description.
	MaxMilestoneDescriptionLength = 100
	// MilestoneCount is the fixed number of milestones per budget.
	MilestoneCount = 3
	// MaxBudgetRevisions caps how many times a rejected budget can be revised.
	MaxBudgetRevisions = 2
)

// BudgetStatus is the budget lifecycle state.
type BudgetStatus int

const (
	// BudgetPending is submitted and open for votes.
	BudgetPending BudgetStatus = iota
	// BudgetApproved passed the vote; milestones can be released.
	BudgetApproved
	// BudgetRejected failed the vote; it can be revised up to the cap.
	BudgetRejected
	// BudgetExecuted has had all milestones released.
	BudgetExecuted
)

// String returns the status name.
func (s BudgetStatus) String() string {
	switch s {
	case BudgetPending:
		return "pending"
	case BudgetApproved:
		return "approved"
	case BudgetRejected:
		return "rejected"
	case BudgetExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// canTransition encodes the budget state machine:
// Pending -> {Approved | Rejected}; Approved -> Executed.
func (s BudgetStatus) canTransition(to BudgetStatus) bool {
	switch s {
	case BudgetPending:
		return to == BudgetApproved || to == BudgetRejected
	case BudgetApproved:
		return to == BudgetExecuted
	default:
		return false
	}
}

// Milestone is one tranche of a budget, released once its unlock date passes.
type Milestone struct {
	Description       string
	ReleasePercentage uint16 // basis points
	UnlockDate        int64
	Released          bool
	ReleasedAmount    uint64
}

// IsUnlocked reports whether the milestone is ready to be released.
func (m *Milestone) IsUnlocked(nowUnix int64) bool {
	return nowUnix >= m.UnlockDate && !m.Released
}

// MilestoneInput carries caller-supplied milestone fields.
type MilestoneInput struct {
	Description       string
	ReleasePercentage uint16
	UnlockDate        int64
}

// Budget is an organizer's spending plan for a funded campaign, gated by a
// backer vote and released in three milestone tranches.
type Budget struct {
	Address       Address
	Campaign      Address
	TotalAmount   uint64
	Description   string
	Milestones    [MilestoneCount]Milestone
	Status        BudgetStatus
	VotingEnd     int64
	VotesFor      uint64
	VotesAgainst  uint64
	RevisionCount uint8
	CreatedAt     int64
}

// NewBudget validates input and builds a budget record for the given
// revision number (0 for the initial submission).
func NewBudget(campaign Campaign, revision uint8, totalAmount uint64, description string, milestones []MilestoneInput, votingPeriodSeconds, nowUnix int64) (Budget, error) {
	if totalAmount > campaign.TotalRaised {
		return Budget{}, errors.Newf(errors.CodeBudgetExceedsFunds, "budget %d exceeds campaign funds %d", totalAmount, campaign.TotalRaised)
	}
	if len(description) > MaxBudgetDescriptionLength {
		return Budget{}, errors.Newf(errors.CodeBudgetDescriptionTooLong, "description is %d chars, max %d", len(description), MaxBudgetDescriptionLength)
	}
	if len(milestones) != MilestoneCount {
		return Budget{}, errors.Newf(errors.CodeInvalidMilestonePercentages, "exactly %d milestones required", MilestoneCount)
	}
	var totalPercentage uint32
	for _, m := range milestones {
		if len(m.Description) > MaxMilestoneDescriptionLength {
			return Budget{}, errors.Newf(errors.CodeMilestoneDescriptionTooLong, "milestone description is %d chars, max %d", len(m.Description), MaxMilestoneDescriptionLength)
		}
		totalPercentage += uint32(m.ReleasePercentage)
	}
	if totalPercentage != BpsDenominator {
		return Budget{}, errors.Newf(errors.CodeInvalidMilestonePercentages, "milestone percentages sum to %d, must be %d", totalPercentage, BpsDenominator)
	}

	budget := Budget{
		Address:       BudgetAddress(campaign.Address, revision),
		Campaign:      campaign.Address,
		TotalAmount:   totalAmount,
		Description:   description,
		Status:        BudgetPending,
		VotingEnd:     nowUnix + votingPeriodSeconds,
		RevisionCount: revision,
		CreatedAt:     nowUnix,
	}
	for i, m := range milestones {
		budget.Milestones[i] = Milestone{
			Description:       m.Description,
			ReleasePercentage: m.ReleasePercentage,
			UnlockDate:        m.UnlockDate,
		}
	}
	return budget, nil
}

// transition moves the budget to a new status, rejecting invalid moves.
func (b *Budget) transition(to BudgetStatus) error {
	if !b.Status.canTransition(to) {
		return errors.Newf(errors.CodeInvalidStatusTransition, "cannot move budget from %s to %s", b.Status, to)
	}
	b.Status = to
	return nil
}

// VotingEnded reports whether the voting window has closed.
func (b *Budget) VotingEnded(nowUnix int64) bool {
	return nowUnix >= b.VotingEnd
}

// IsApproved reports whether the vote tally approves the budget: strictly
// more stake for than against, and at least some stake in favor. A tie or a
// zero-vote tally rejects.
func (b *Budget) IsApproved() bool {
	return b.VotesFor > b.VotesAgainst && b.VotesFor > 0
}

// RecordVote tallies one backer's stake-weighted vote.
func (b *Budget) RecordVote(approve bool, votingPower uint64) error {
	if approve {
		votes, err := CheckedAdd(b.VotesFor, votingPower)
		if err != nil {
			return err
		}
		b.VotesFor = votes
		return nil
	}
	votes, err := CheckedAdd(b.VotesAgainst, votingPower)
	if err != nil {
		return err
	}
	b.VotesAgainst = votes
	return nil
}

// FinalizeVote settles the vote to Approved or Rejected.
func (b *Budget) FinalizeVote(nowUnix int64) (BudgetStatus, error) {
	if b.Status != BudgetPending {
		return b.Status, errors.New(errors.CodeBudgetNotPending, "budget is not pending")
	}
	if !b.VotingEnded(nowUnix) {
		return b.Status, errors.New(errors.CodeVotingPeriodNotEnded, "voting period has not ended")
	}
	if b.IsApproved() {
		return BudgetApproved, b.transition(BudgetApproved)
	}
	return BudgetRejected, b.transition(BudgetRejected)
}

// CanRevise reports whether a rejected budget has revisions left.
func (b *Budget) CanRevise() bool {
	return b.Status == BudgetRejected && b.RevisionCount < MaxBudgetRevisions
}

// ReleaseAmount computes the payout for one milestone with a 128-bit
// intermediate. Floor rounding keeps the three payouts at or below
// TotalAmount.
func (b *Budget) ReleaseAmount(index int) (uint64, error) {
	if index < 0 || index >= MilestoneCount {
		return 0, errors.Newf(errors.CodeMilestoneNotReady, "milestone index %d out of range", index)
	}
	return MulBps(b.TotalAmount, b.Milestones[index].ReleasePercentage)
}

// ReleaseMilestone marks a milestone released with the exact amount paid,
// moving the budget to Executed once all milestones are released.
func (b *Budget) ReleaseMilestone(index int, amount uint64, nowUnix int64) error {
	if b.Status != BudgetApproved {
		return errors.New(errors.CodeBudgetNotApproved, "budget is not approved")
	}
	if index < 0 || index >= MilestoneCount {
		return errors.Newf(errors.CodeMilestoneNotReady, "milestone index %d out of range", index)
	}
	milestone := &b.Milestones[index]
	if milestone.Released {
		return errors.New(errors.CodeMilestoneAlreadyReleased, "milestone already released")
	}
	if nowUnix < milestone.UnlockDate {
		return errors.New(errors.CodeMilestoneNotReady, "milestone is not unlocked yet")
	}
	milestone.Released = true
	milestone.ReleasedAmount = amount
	for i := range b.Milestones {
		if !b.Milestones[i].Released {
			return nil
		}
	}
	return b.transition(BudgetExecuted)
}
