package domain

import "testing"

func TestContributionShareIsProportional(t *testing.T) {
	campaignAddr := CampaignAddress(EventAddress(testAddr(1), "summer-fest"))
	backerPool := uint64(36_000_000)
	totalRaised := uint64(100_000_000)

	tests := []struct {
		name   string
		amount uint64
		want   uint64
	}{
		{name: "sixty percent stake", amount: 60_000_000, want: 21_600_000},
		{name: "forty percent stake", amount: 40_000_000, want: 14_400_000},
		{name: "full stake", amount: 100_000_000, want: 36_000_000},
		{name: "tiny stake floors", amount: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contribution := NewContribution(campaignAddr, testAddr(2), tt.amount, 1_500)
			if got := contribution.CalculateShare(backerPool, totalRaised); got != tt.want {
				t.Fatalf("expected share %d, got %d", tt.want, got)
			}
		})
	}
}

func TestContributionVotingPowerEqualsAmount(t *testing.T) {
	campaignAddr := CampaignAddress(EventAddress(testAddr(1), "summer-fest"))
	contribution := NewContribution(campaignAddr, testAddr(2), 75_000_000, 1_500)
	if contribution.VotingPower() != 75_000_000 {
		t.Fatalf("expected voting power 75000000, got %d", contribution.VotingPower())
	}
}

func TestNewBudgetVoteWeightsByContribution(t *testing.T) {
	campaign := fundedCampaign(t, MinimumFundingGoal)
	budget := testBudget(t, campaign)
	contribution := NewContribution(campaign.Address, testAddr(2), 50_000_000, 1_500)

	vote := NewBudgetVote(budget, contribution, true, 2_100)
	if vote.Address != VoteAddress(budget.Address, contribution.Contributor) {
		t.Fatalf("unexpected vote address %s", vote.Address)
	}
	if vote.VotingPower != 50_000_000 {
		t.Fatalf("expected voting power 50000000, got %d", vote.VotingPower)
	}
	if !vote.Approve || vote.Voter != contribution.Contributor || vote.Budget != budget.Address {
		t.Fatalf("vote fields not bound: %+v", vote)
	}
}
