package domain

// Contribution is one backer's stake in a campaign, 1:1 per
// (campaign, contributor) pair. refunded and profit_claimed are mutually
// exclusive outcomes: refunds happen only on failed campaigns, profit claims
// only on completed ones.
type Contribution struct {
	Address       Address
	Campaign      Address
	Contributor   Address
	Amount        uint64
	ContributedAt int64
	Refunded      bool
	ProfitShare   uint64
	ProfitClaimed bool
}

// NewContribution builds a backer's stake record.
func NewContribution(campaign, contributor Address, amount uint64, nowUnix int64) Contribution {
	return Contribution{
		Address:       ContributionAddress(campaign, contributor),
		Campaign:      campaign,
		Contributor:   contributor,
		Amount:        amount,
		ContributedAt: nowUnix,
	}
}

// VotingPower returns the stake-weighted voting power (linear).
func (c *Contribution) VotingPower() uint64 {
	return c.Amount
}

// CalculateShare computes this backer's proportional slice of a profit pool
// using a 128-bit intermediate. Returns 0 when totalRaised is 0.
func (c *Contribution) CalculateShare(poolAmount, totalRaised uint64) uint64 {
	return ProportionalShare(c.Amount, poolAmount, totalRaised)
}

// CanRefund reports whether this stake can still be refunded.
func (c *Contribution) CanRefund() bool {
	return !c.Refunded
}

// CanClaimProfit reports whether a positive profit share remains claimable.
func (c *Contribution) CanClaimProfit() bool {
	return !c.ProfitClaimed && c.ProfitShare > 0
}
