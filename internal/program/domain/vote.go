package domain

// BudgetVote records one backer's vote on a budget. A backer votes at most
// once per budget; the vote address is derived from budget and voter so a
// duplicate collides on insert.
type BudgetVote struct {
	Address     Address
	Budget      Address
	Voter       Address
	Approve     bool
	VotingPower uint64
	VotedAt     int64
}

// NewBudgetVote builds a vote record weighted by the backer's contribution.
func NewBudgetVote(budget Budget, contribution Contribution, approve bool, nowUnix int64) BudgetVote {
	return BudgetVote{
		Address:     VoteAddress(budget.Address, contribution.Contributor),
		Budget:      budget.Address,
		Voter:       contribution.Contributor,
		Approve:     approve,
		VotingPower: contribution.VotingPower(),
		VotedAt:     nowUnix,
	}
}
