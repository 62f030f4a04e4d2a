// Package storage defines persistence contracts for program state. Every
// operation runs against a single transaction so an error rolls back all of
// its mutations as a unit.
package storage

import (
	"context"
	"errors"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInsufficientFunds indicates a debit larger than the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Mint describes one asset mint tracked by the ledger. Ticket mints are
// non-fungible: supply 1, zero decimals.
type Mint struct {
	Address   domain.Address
	Authority domain.Address
	Supply    uint64
	Decimals  uint8
}

// AuditEntry is one append-only structured audit record.
type AuditEntry struct {
	Kind      string
	Entity    domain.Address
	Actor     domain.Address
	Amount    uint64
	Timestamp int64
}

// Audit entry kinds, one per audited operation.
const (
	AuditEventCreated      = "event_created"
	AuditEventUpdated      = "event_updated"
	AuditEventClosed       = "event_closed"
	AuditTierCreated       = "ticket_tier_created"
	AuditTicketPurchased   = "ticket_purchased"
	AuditTicketRegistered  = "ticket_registered"
	AuditTicketTransferred = "ticket_transferred"
	AuditTicketUsed        = "ticket_used"
	AuditTicketRefunded    = "ticket_refunded"
	AuditFundsWithdrawn    = "funds_withdrawn"
	AuditCampaignCreated   = "campaign_created"
	AuditContributed       = "contributed"
	AuditCampaignFinalized = "campaign_finalized"
	AuditRefundClaimed     = "refund_claimed"
	AuditBudgetSubmitted   = "budget_submitted"
	AuditBudgetVoted       = "budget_voted"
	AuditBudgetFinalized   = "budget_finalized"
	AuditMilestoneReleased = "milestone_released"
	AuditDistributionCalc  = "distribution_calculated"
	AuditProfitClaimed     = "profit_claimed"
	AuditDeposited         = "deposited"
	AuditAssetMinted       = "asset_minted"
)

// EventTx persists event and tier records.
type EventTx interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, address domain.Address) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, address domain.Address) error
	CreateTier(ctx context.Context, tier domain.TicketTier) error
	GetTier(ctx context.Context, address domain.Address) (domain.TicketTier, error)
	UpdateTier(ctx context.Context, tier domain.TicketTier) error
}

// TicketTx persists ticket, order, and nonce records.
type TicketTx interface {
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	GetTicket(ctx context.Context, address domain.Address) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket domain.Ticket) error
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, address domain.Address) (domain.Order, error)
	CreateNonce(ctx context.Context, nonce domain.Nonce) error
	UpdateNonce(ctx context.Context, nonce domain.Nonce) error
}

// CampaignTx persists campaign, contribution, budget, and vote records.
type CampaignTx interface {
	CreateCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, address domain.Address) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign domain.Campaign) error
	CreateContribution(ctx context.Context, contribution domain.Contribution) error
	GetContribution(ctx context.Context, address domain.Address) (domain.Contribution, error)
	UpdateContribution(ctx context.Context, contribution domain.Contribution) error
	CreateBudget(ctx context.Context, budget domain.Budget) error
	GetBudget(ctx context.Context, address domain.Address) (domain.Budget, error)
	UpdateBudget(ctx context.Context, budget domain.Budget) error
	CreateVote(ctx context.Context, vote domain.BudgetVote) error
}

// LedgerTx moves fungible value between addresses and tracks asset mints.
// Transfer and Debit fail with ErrInsufficientFunds rather than overdraw.
type LedgerTx interface {
	Balance(ctx context.Context, address domain.Address) (uint64, error)
	Credit(ctx context.Context, address domain.Address, amount uint64) error
	Debit(ctx context.Context, address domain.Address, amount uint64) error
	Transfer(ctx context.Context, from, to domain.Address, amount uint64) error

	CreateMint(ctx context.Context, mint Mint) error
	GetMint(ctx context.Context, address domain.Address) (Mint, error)
	TokenBalance(ctx context.Context, mint, owner domain.Address) (uint64, error)
	CreditToken(ctx context.Context, mint, owner domain.Address, amount uint64) error
	TransferToken(ctx context.Context, mint, from, to domain.Address, amount uint64) error
	BurnToken(ctx context.Context, mint, owner domain.Address, amount uint64) error
}

// AuditTx appends structured audit records.
type AuditTx interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
}

// Tx is the full transactional surface available to one operation.
type Tx interface {
	EventTx
	TicketTx
	CampaignTx
	LedgerTx
	AuditTx
}

// Store opens transactions over persisted program state.
type Store interface {
	// WithinTx runs fn inside a single transaction, committing on nil and
	// rolling back every mutation on error.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}
