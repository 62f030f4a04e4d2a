package domain

import (
	"testing"

	"github.com/Ah-Riz/mythra-program/internal/errors"
)

func testEventWithStart(startTS int64) Event {
	input := validEventInput()
	input.StartTS = startTS
	input.EndTS = startTS + 1_000
	event, err := NewEvent(input, 100)
	if err != nil {
		panic(err)
	}
	return event
}

func testCampaign(t *testing.T) Campaign {
	t.Helper()
	campaign, err := NewCampaign(testEventWithStart(10_000), MinimumFundingGoal, 5_000, 1_000)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	return campaign
}

func TestNewCampaignValidation(t *testing.T) {
	event := testEventWithStart(10_000)

	tests := []struct {
		name     string
		goal     uint64
		deadline int64
		now      int64
		code     errors.Code
	}{
		{name: "deadline in past", goal: MinimumFundingGoal, deadline: 900, now: 1_000, code: errors.CodeDeadlineInPast},
		{name: "deadline equals now", goal: MinimumFundingGoal, deadline: 1_000, now: 1_000, code: errors.CodeDeadlineInPast},
		{name: "deadline at event start", goal: MinimumFundingGoal, deadline: 10_000, now: 1_000, code: errors.CodeDeadlineAfterEventStart},
		{name: "goal below minimum", goal: MinimumFundingGoal - 1, deadline: 5_000, now: 1_000, code: errors.CodeInvalidContributionAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCampaign(event, tt.goal, tt.deadline, tt.now)
			if !errors.Is(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestNewCampaignBindsOrganizer(t *testing.T) {
	event := testEventWithStart(10_000)
	campaign, err := NewCampaign(event, MinimumFundingGoal, 5_000, 1_000)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	if campaign.Organizer != event.Authority {
		t.Fatalf("expected organizer %s, got %s", event.Authority, campaign.Organizer)
	}
	if campaign.Address != CampaignAddress(event.Address) {
		t.Fatalf("unexpected campaign address %s", campaign.Address)
	}
	if campaign.Status != CampaignPending {
		t.Fatalf("expected pending status, got %s", campaign.Status)
	}
}

func TestFinalizeFundedBeforeDeadline(t *testing.T) {
	campaign := testCampaign(t)
	if err := campaign.AddContribution(MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}

	status, err := campaign.Finalize(2_000)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if status != CampaignFunded {
		t.Fatalf("expected funded, got %s", status)
	}
}

func TestFinalizeGoalTakesPriorityOverDeadline(t *testing.T) {
	campaign := testCampaign(t)
	if err := campaign.AddContribution(MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}

	// Goal reached and deadline passed at the same time: funded wins.
	status, err := campaign.Finalize(6_000)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if status != CampaignFunded {
		t.Fatalf("expected funded, got %s", status)
	}
}

func TestFinalizeFailsPastDeadline(t *testing.T) {
	campaign := testCampaign(t)
	if err := campaign.AddContribution(MinimumFundingGoal - 1); err != nil {
		t.Fatalf("add contribution: %v", err)
	}

	status, err := campaign.Finalize(6_000)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if status != CampaignFailed {
		t.Fatalf("expected failed, got %s", status)
	}
	if !campaign.RefundsAvailable() {
		t.Fatalf("expected refunds available after failure")
	}
}

func TestFinalizeRejectsEarlyAndRepeated(t *testing.T) {
	campaign := testCampaign(t)

	// Underfunded before the deadline: nothing to settle yet.
	if _, err := campaign.Finalize(2_000); !errors.Is(err, errors.CodeAlreadyFinalized) {
		t.Fatalf("expected already finalized, got %v", err)
	}

	if _, err := campaign.Finalize(6_000); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := campaign.Finalize(6_100); !errors.Is(err, errors.CodeAlreadyFinalized) {
		t.Fatalf("expected already finalized, got %v", err)
	}
}

func TestAddAndRefundContribution(t *testing.T) {
	campaign := testCampaign(t)

	if err := campaign.AddContribution(60_000_000); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if err := campaign.AddContribution(40_000_000); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if campaign.TotalRaised != 100_000_000 || campaign.TotalContributors != 2 {
		t.Fatalf("unexpected totals: raised %d contributors %d", campaign.TotalRaised, campaign.TotalContributors)
	}

	campaign.RefundContribution(60_000_000)
	if campaign.TotalRaised != 40_000_000 {
		t.Fatalf("expected 40000000 raised, got %d", campaign.TotalRaised)
	}
	campaign.RefundContribution(50_000_000)
	if campaign.TotalRaised != 0 {
		t.Fatalf("over-refund must saturate to zero, got %d", campaign.TotalRaised)
	}
}

func TestSettleDistributionSplitsProfit(t *testing.T) {
	campaign := testCampaign(t)
	if err := campaign.AddContribution(MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if _, err := campaign.Finalize(2_000); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := campaign.AddExpense(40_000_000); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	// Revenue 100_000_000 against expenses 40_000_000: profit 60_000_000.
	if err := campaign.SettleDistribution(100_000_000); err != nil {
		t.Fatalf("settle distribution: %v", err)
	}
	if campaign.BackerPool != 36_000_000 {
		t.Fatalf("expected backer pool 36000000, got %d", campaign.BackerPool)
	}
	if campaign.OrganizerPool != 21_000_000 {
		t.Fatalf("expected organizer pool 21000000, got %d", campaign.OrganizerPool)
	}
	if campaign.PlatformPool != 3_000_000 {
		t.Fatalf("expected platform pool 3000000, got %d", campaign.PlatformPool)
	}
	if campaign.Status != CampaignCompleted || !campaign.DistributionComplete {
		t.Fatalf("expected completed campaign, got %s", campaign.Status)
	}
}

func TestSettleDistributionRemainderGoesToBackers(t *testing.T) {
	campaign := testCampaign(t)
	if err := campaign.AddContribution(MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if _, err := campaign.Finalize(2_000); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// Profit 101: 60% = 60, 35% = 35 (floor of 35.35), 5% = 5 (floor of
	// 5.05); remainder 1 lamport lands in the backer pool.
	if err := campaign.SettleDistribution(101); err != nil {
		t.Fatalf("settle distribution: %v", err)
	}
	if campaign.BackerPool != 61 || campaign.OrganizerPool != 35 || campaign.PlatformPool != 5 {
		t.Fatalf("unexpected pools: %d/%d/%d", campaign.BackerPool, campaign.OrganizerPool, campaign.PlatformPool)
	}
	if campaign.BackerPool+campaign.OrganizerPool+campaign.PlatformPool != campaign.Profit() {
		t.Fatalf("pools must sum to profit")
	}
}

func TestSettleDistributionOnLoss(t *testing.T) {
	campaign := testCampaign(t)
	if err := campaign.AddContribution(MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if _, err := campaign.Finalize(2_000); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := campaign.AddExpense(50_000_000); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if err := campaign.SettleDistribution(30_000_000); err != nil {
		t.Fatalf("settle distribution: %v", err)
	}
	if campaign.BackerPool != 0 || campaign.OrganizerPool != 0 || campaign.PlatformPool != 0 {
		t.Fatalf("expected zero pools on loss, got %d/%d/%d", campaign.BackerPool, campaign.OrganizerPool, campaign.PlatformPool)
	}
	if campaign.Profit() != 0 {
		t.Fatalf("expected zero profit on loss, got %d", campaign.Profit())
	}
	if campaign.Status != CampaignCompleted {
		t.Fatalf("expected completed campaign, got %s", campaign.Status)
	}
}

func TestCanDistribute(t *testing.T) {
	campaign := testCampaign(t)
	if campaign.CanDistribute(true) {
		t.Fatalf("pending campaign must not distribute")
	}

	if err := campaign.AddContribution(MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if _, err := campaign.Finalize(2_000); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if campaign.CanDistribute(false) {
		t.Fatalf("must not distribute before the event ends")
	}
	if !campaign.CanDistribute(true) {
		t.Fatalf("funded campaign with ended event must distribute")
	}

	if err := campaign.SettleDistribution(0); err != nil {
		t.Fatalf("settle distribution: %v", err)
	}
	if campaign.CanDistribute(true) {
		t.Fatalf("completed campaign must not distribute again")
	}
}

func TestCampaignStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from CampaignStatus
		to   CampaignStatus
		ok   bool
	}{
		{name: "pending to funded", from: CampaignPending, to: CampaignFunded, ok: true},
		{name: "pending to failed", from: CampaignPending, to: CampaignFailed, ok: true},
		{name: "funded to completed", from: CampaignFunded, to: CampaignCompleted, ok: true},
		{name: "pending to completed", from: CampaignPending, to: CampaignCompleted, ok: false},
		{name: "failed to funded", from: CampaignFailed, to: CampaignFunded, ok: false},
		{name: "completed is terminal", from: CampaignCompleted, to: CampaignFunded, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.canTransition(tt.to); got != tt.ok {
				t.Fatalf("transition %s -> %s: expected %v, got %v", tt.from, tt.to, tt.ok, got)
			}
		})
	}
}
