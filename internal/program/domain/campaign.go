package domain

import (
	"github.com/Ah-Riz/mythra-program/internal/errors"
)

// MinimumFundingGoal is the smallest allowed campaign goal (0.1 SOL).
const MinimumFundingGoal uint64 = 100_000_000

// Profit split percentages applied when a completed campaign turns a profit.
const (
	BackerPoolPercent    = 60
	OrganizerPoolPercent = 35
	PlatformPoolPercent  = 5
)

// CampaignStatus is the crowdfunding lifecycle state.
type CampaignStatus int

const (
	// CampaignPending accepts contributions until finalized.
	CampaignPending CampaignStatus = iota
	// CampaignFunded reached its goal; the event can proceed.
	CampaignFunded
	// CampaignFailed missed its goal by the deadline; refunds are open.
	CampaignFailed
	// CampaignCompleted has had its profit distribution calculated.
	CampaignCompleted
)

// String returns the status name.
func (s CampaignStatus) String() string {
	switch s {
	case CampaignPending:
		return "pending"
	case CampaignFunded:
		return "funded"
	case CampaignFailed:
		return "failed"
	case CampaignCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// canTransition encodes the one-way, total-order campaign state machine:
// Pending -> {Funded | Failed}; Funded -> Completed.
func (s CampaignStatus) canTransition(to CampaignStatus) bool {
	switch s {
	case CampaignPending:
		return to == CampaignFunded || to == CampaignFailed
	case CampaignFunded:
		return to == CampaignCompleted
	default:
		return false
	}
}

// Campaign is the crowdfunding vehicle tied 1:1 to an event.
type Campaign struct {
	Address              Address
	Event                Address
	Organizer            Address
	FundingGoal          uint64
	TotalRaised          uint64
	Deadline             int64
	Status               CampaignStatus
	TotalContributors    uint32
	CreatedAt            int64
	TotalExpenses        uint64
	TotalRevenue         uint64
	BackerPool           uint64
	OrganizerPool        uint64
	PlatformPool         uint64
	DistributionComplete bool
	OrganizerClaimed     bool
}

// NewCampaign validates input and builds a campaign record. The deadline must
// be strictly in the future and strictly before the event start.
func NewCampaign(event Event, fundingGoal uint64, deadline, nowUnix int64) (Campaign, error) {
	if deadline <= nowUnix {
		return Campaign{}, errors.New(errors.CodeDeadlineInPast, "campaign deadline must be in the future")
	}
	if deadline >= event.StartTS {
		return Campaign{}, errors.New(errors.CodeDeadlineAfterEventStart, "campaign deadline must be before event start")
	}
	if fundingGoal < MinimumFundingGoal {
		return Campaign{}, errors.Newf(errors.CodeInvalidContributionAmount, "funding goal must be at least %d lamports", MinimumFundingGoal)
	}
	return Campaign{
		Address:     CampaignAddress(event.Address),
		Event:       event.Address,
		Organizer:   event.Authority,
		FundingGoal: fundingGoal,
		Deadline:    deadline,
		Status:      CampaignPending,
		CreatedAt:   nowUnix,
	}, nil
}

// transition moves the campaign to a new status, rejecting invalid moves.
func (c *Campaign) transition(to CampaignStatus) error {
	if !c.Status.canTransition(to) {
		return errors.Newf(errors.CodeInvalidStatusTransition, "cannot move campaign from %s to %s", c.Status, to)
	}
	c.Status = to
	return nil
}

// IsActive reports whether the campaign still accepts contributions.
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignPending
}

// GoalReached reports whether the funding goal has been met.
func (c *Campaign) GoalReached() bool {
	return c.TotalRaised >= c.FundingGoal
}

// DeadlinePassed reports whether the funding deadline has passed.
func (c *Campaign) DeadlinePassed(nowUnix int64) bool {
	return nowUnix > c.Deadline
}

// CanFinalize reports whether the campaign is ready to be finalized: still
// pending, and either funded (early finalize allowed) or past its deadline.
func (c *Campaign) CanFinalize(nowUnix int64) bool {
	return c.Status == CampaignPending && (c.GoalReached() || c.DeadlinePassed(nowUnix))
}

// Finalize settles the campaign to Funded or Failed. The goal check takes
// priority over the deadline so a funded campaign can be settled early.
func (c *Campaign) Finalize(nowUnix int64) (CampaignStatus, error) {
	if !c.CanFinalize(nowUnix) {
		return c.Status, errors.New(errors.CodeAlreadyFinalized, "campaign cannot be finalized")
	}
	if c.GoalReached() {
		return CampaignFunded, c.transition(CampaignFunded)
	}
	return CampaignFailed, c.transition(CampaignFailed)
}

// AddContribution accounts for a new backer's stake.
func (c *Campaign) AddContribution(amount uint64) error {
	raised, err := CheckedAdd(c.TotalRaised, amount)
	if err != nil {
		return err
	}
	contributors, err := CheckedAddU32(c.TotalContributors, 1)
	if err != nil {
		return err
	}
	c.TotalRaised = raised
	c.TotalContributors = contributors
	return nil
}

// RefundContribution removes a refunded stake from the raised total. The
// subtraction saturates so historical rounding can never underflow.
func (c *Campaign) RefundContribution(amount uint64) {
	if amount > c.TotalRaised {
		c.TotalRaised = 0
		return
	}
	c.TotalRaised -= amount
}

// RefundsAvailable reports whether backers may claim refunds.
func (c *Campaign) RefundsAvailable() bool {
	return c.Status == CampaignFailed
}

// AddExpense accounts for a released milestone payout.
func (c *Campaign) AddExpense(amount uint64) error {
	expenses, err := CheckedAdd(c.TotalExpenses, amount)
	if err != nil {
		return err
	}
	c.TotalExpenses = expenses
	return nil
}

// CanDistribute reports whether the profit distribution can be calculated.
func (c *Campaign) CanDistribute(eventEnded bool) bool {
	return c.Status == CampaignFunded && eventEnded && !c.DistributionComplete
}

// SettleDistribution computes the three profit pools from the recorded
// revenue and expenses and moves the campaign to Completed. On profit the
// pools split 60/35/5 with the integer-division remainder assigned to the
// backer pool, so the pools always sum exactly to the profit. On loss or
// break-even all pools are zero.
func (c *Campaign) SettleDistribution(ticketRevenue uint64) error {
	c.TotalRevenue = ticketRevenue
	if c.TotalRevenue > c.TotalExpenses {
		profit, err := CheckedSub(c.TotalRevenue, c.TotalExpenses)
		if err != nil {
			return err
		}
		backerPool, err := MulDiv(profit, BackerPoolPercent, 100)
		if err != nil {
			return err
		}
		organizerPool, err := MulDiv(profit, OrganizerPoolPercent, 100)
		if err != nil {
			return err
		}
		platformPool, err := MulDiv(profit, PlatformPoolPercent, 100)
		if err != nil {
			return err
		}
		distributed := backerPool + organizerPool + platformPool
		remainder, err := CheckedSub(profit, distributed)
		if err != nil {
			return err
		}
		backerPool, err = CheckedAdd(backerPool, remainder)
		if err != nil {
			return err
		}
		c.BackerPool = backerPool
		c.OrganizerPool = organizerPool
		c.PlatformPool = platformPool
	} else {
		c.BackerPool = 0
		c.OrganizerPool = 0
		c.PlatformPool = 0
	}
	c.DistributionComplete = true
	return c.transition(CampaignCompleted)
}

// Profit returns the distributable profit once distribution is complete.
func (c *Campaign) Profit() uint64 {
	if c.TotalRevenue <= c.TotalExpenses {
		return 0
	}
	return c.TotalRevenue - c.TotalExpenses
}
