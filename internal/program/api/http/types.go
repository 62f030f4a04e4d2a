package httpapi

import (
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

type eventResponse struct {
	Address             string `json:"address"`
	Authority           string `json:"authority"`
	MetadataURI         string `json:"metadata_uri"`
	StartTS             int64  `json:"start_ts"`
	EndTS               int64  `json:"end_ts"`
	TotalSupply         uint32 `json:"total_supply"`
	AllocatedSupply     uint32 `json:"allocated_supply"`
	Treasury            string `json:"treasury"`
	PlatformSplitBPS    uint16 `json:"platform_split_bps"`
	CrowdfundingEnabled bool   `json:"crowdfunding_enabled"`
	Campaign            string `json:"campaign,omitempty"`
	TicketRevenue       uint64 `json:"ticket_revenue"`
	CreatedAt           int64  `json:"created_at"`
}

func toEventResponse(event domain.Event) eventResponse {
	resp := eventResponse{
		Address:             event.Address.String(),
		Authority:           event.Authority.String(),
		MetadataURI:         event.MetadataURI,
		StartTS:             event.StartTS,
		EndTS:               event.EndTS,
		TotalSupply:         event.TotalSupply,
		AllocatedSupply:     event.AllocatedSupply,
		Treasury:            event.Treasury.String(),
		PlatformSplitBPS:    event.PlatformSplitBPS,
		CrowdfundingEnabled: event.CrowdfundingEnabled,
		TicketRevenue:       event.TicketRevenue,
		CreatedAt:           event.CreatedAt,
	}
	if event.HasCampaign() {
		resp.Campaign = event.Campaign.String()
	}
	return resp
}

type tierResponse struct {
	Address       string `json:"address"`
	Event         string `json:"event"`
	PriceLamports uint64 `json:"price_lamports"`
	MaxSupply     uint32 `json:"max_supply"`
	CurrentSupply uint32 `json:"current_supply"`
	MetadataURI   string `json:"metadata_uri"`
	RoyaltyBPS    uint16 `json:"royalty_bps"`
	ResaleEnabled bool   `json:"resale_enabled"`
	TierIndex     uint8  `json:"tier_index"`
}

func toTierResponse(tier domain.TicketTier) tierResponse {
	return tierResponse{
		Address:       tier.Address.String(),
		Event:         tier.Event.String(),
		PriceLamports: tier.PriceLamports,
		MaxSupply:     tier.MaxSupply,
		CurrentSupply: tier.CurrentSupply,
		MetadataURI:   tier.MetadataURI,
		RoyaltyBPS:    tier.RoyaltyBPS,
		ResaleEnabled: tier.ResaleEnabled,
		TierIndex:     tier.TierIndex,
	}
}

type ticketResponse struct {
	Address      string `json:"address"`
	Owner        string `json:"owner"`
	Event        string `json:"event"`
	Tier         string `json:"tier"`
	Mint         string `json:"mint"`
	Used         bool   `json:"used"`
	Refunded     bool   `json:"refunded"`
	CheckedInTS  int64  `json:"checked_in_ts,omitempty"`
	GateOperator string `json:"gate_operator,omitempty"`
	RefundTS     int64  `json:"refund_ts,omitempty"`
}

func toTicketResponse(ticket domain.Ticket) ticketResponse {
	resp := ticketResponse{
		Address:     ticket.Address.String(),
		Owner:       ticket.Owner.String(),
		Event:       ticket.Event.String(),
		Tier:        ticket.Tier.String(),
		Mint:        ticket.Mint.String(),
		Used:        ticket.Used,
		Refunded:    ticket.Refunded,
		CheckedInTS: ticket.CheckedInTS,
		RefundTS:    ticket.RefundTS,
	}
	if !ticket.GateOperator.IsZero() {
		resp.GateOperator = ticket.GateOperator.String()
	}
	return resp
}

type campaignResponse struct {
	Address              string `json:"address"`
	Event                string `json:"event"`
	Organizer            string `json:"organizer"`
	FundingGoal          uint64 `json:"funding_goal"`
	TotalRaised          uint64 `json:"total_raised"`
	Deadline             int64  `json:"deadline"`
	Status               string `json:"status"`
	TotalContributors    uint32 `json:"total_contributors"`
	TotalExpenses        uint64 `json:"total_expenses"`
	TotalRevenue         uint64 `json:"total_revenue"`
	BackerPool           uint64 `json:"backer_pool"`
	OrganizerPool        uint64 `json:"organizer_pool"`
	PlatformPool         uint64 `json:"platform_pool"`
	DistributionComplete bool   `json:"distribution_complete"`
	OrganizerClaimed     bool   `json:"organizer_claimed"`
	CreatedAt            int64  `json:"created_at"`
}

func toCampaignResponse(campaign domain.Campaign) campaignResponse {
	return campaignResponse{
		Address:              campaign.Address.String(),
		Event:                campaign.Event.String(),
		Organizer:            campaign.Organizer.String(),
		FundingGoal:          campaign.FundingGoal,
		TotalRaised:          campaign.TotalRaised,
		Deadline:             campaign.Deadline,
		Status:               campaign.Status.String(),
		TotalContributors:    campaign.TotalContributors,
		TotalExpenses:        campaign.TotalExpenses,
		TotalRevenue:         campaign.TotalRevenue,
		BackerPool:           campaign.BackerPool,
		OrganizerPool:        campaign.OrganizerPool,
		PlatformPool:         campaign.PlatformPool,
		DistributionComplete: campaign.DistributionComplete,
		OrganizerClaimed:     campaign.OrganizerClaimed,
		CreatedAt:            campaign.CreatedAt,
	}
}

type contributionResponse struct {
	Address       string `json:"address"`
	Campaign      string `json:"campaign"`
	Contributor   string `json:"contributor"`
	Amount        uint64 `json:"amount"`
	ContributedAt int64  `json:"contributed_at"`
	Refunded      bool   `json:"refunded"`
	ProfitShare   uint64 `json:"profit_share"`
	ProfitClaimed bool   `json:"profit_claimed"`
}

func toContributionResponse(contribution domain.Contribution) contributionResponse {
	return contributionResponse{
		Address:       contribution.Address.String(),
		Campaign:      contribution.Campaign.String(),
		Contributor:   contribution.Contributor.String(),
		Amount:        contribution.Amount,
		ContributedAt: contribution.ContributedAt,
		Refunded:      contribution.Refunded,
		ProfitShare:   contribution.ProfitShare,
		ProfitClaimed: contribution.ProfitClaimed,
	}
}

type milestoneResponse struct {
	Description       string `json:"description"`
	ReleasePercentage uint16 `json:"release_percentage"`
	UnlockDate        int64  `json:"unlock_date"`
	Released          bool   `json:"released"`
	ReleasedAmount    uint64 `json:"released_amount"`
}

type budgetResponse struct {
	Address       string              `json:"address"`
	Campaign      string              `json:"campaign"`
	TotalAmount   uint64              `json:"total_amount"`
	Description   string              `json:"description"`
	Milestones    []milestoneResponse `json:"milestones"`
	Status        string              `json:"status"`
	VotingEnd     int64               `json:"voting_end"`
	VotesFor      uint64              `json:"votes_for"`
	VotesAgainst  uint64              `json:"votes_against"`
	RevisionCount uint8               `json:"revision_count"`
	CreatedAt     int64               `json:"created_at"`
}

func toBudgetResponse(budget domain.Budget) budgetResponse {
	milestones := make([]milestoneResponse, 0, len(budget.Milestones))
	for _, m := range budget.Milestones {
		milestones = append(milestones, milestoneResponse{
			Description:       m.Description,
			ReleasePercentage: m.ReleasePercentage,
			UnlockDate:        m.UnlockDate,
			Released:          m.Released,
			ReleasedAmount:    m.ReleasedAmount,
		})
	}
	return budgetResponse{
		Address:       budget.Address.String(),
		Campaign:      budget.Campaign.String(),
		TotalAmount:   budget.TotalAmount,
		Description:   budget.Description,
		Milestones:    milestones,
		Status:        budget.Status.String(),
		VotingEnd:     budget.VotingEnd,
		VotesFor:      budget.VotesFor,
		VotesAgainst:  budget.VotesAgainst,
		RevisionCount: budget.RevisionCount,
		CreatedAt:     budget.CreatedAt,
	}
}

type voteResponse struct {
	Address     string `json:"address"`
	Budget      string `json:"budget"`
	Voter       string `json:"voter"`
	Approve     bool   `json:"approve"`
	VotingPower uint64 `json:"voting_power"`
	VotedAt     int64  `json:"voted_at"`
}

func toVoteResponse(vote domain.BudgetVote) voteResponse {
	return voteResponse{
		Address:     vote.Address.String(),
		Budget:      vote.Budget.String(),
		Voter:       vote.Voter.String(),
		Approve:     vote.Approve,
		VotingPower: vote.VotingPower,
		VotedAt:     vote.VotedAt,
	}
}
