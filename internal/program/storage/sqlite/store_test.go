package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "mythra.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func testAddr(b byte) domain.Address {
	var a domain.Address
	a[31] = b
	return a
}

func testEvent() domain.Event {
	event, err := domain.NewEvent(domain.CreateEventInput{
		Organizer:        testAddr(1),
		EventID:          "summer-fest",
		MetadataURI:      "ipfs://event-metadata",
		StartTS:          2_000,
		EndTS:            3_000,
		TotalSupply:      500,
		PlatformSplitBPS: 250,
		Treasury:         testAddr(9),
	}, 1_000)
	if err != nil {
		panic(err)
	}
	return event
}

func mustWithinTx(t *testing.T, store *Store, fn func(ctx context.Context, tx storage.Tx) error) {
	t.Helper()
	if err := store.WithinTx(context.Background(), fn); err != nil {
		t.Fatalf("within tx: %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestEventRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateEvent(ctx, event)
	})

	var got domain.Event
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		got, err = tx.GetEvent(ctx, event.Address)
		return err
	})
	if got != event {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, event)
	}
}

func TestCreateEventReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateEvent(ctx, event)
	})
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateEvent(ctx, event)
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestGetEventReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		_, err := tx.GetEvent(ctx, testAddr(99))
		return err
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()
	failure := fmt.Errorf("operation failed")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		_, err := tx.GetEvent(ctx, event.Address)
		return err
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected rollback to discard the event, got %v", err)
	}
}

func TestUpdateEventPersistsMutableFields(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateEvent(ctx, event)
	})

	event.MetadataURI = "ipfs://updated"
	event.TicketRevenue = 1_000_000
	event.LinkCampaign(domain.CampaignAddress(event.Address))

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.UpdateEvent(ctx, event)
	})

	var got domain.Event
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		got, err = tx.GetEvent(ctx, event.Address)
		return err
	})
	if got != event {
		t.Fatalf("update mismatch:\n got %+v\nwant %+v", got, event)
	}
}

func TestContributionUniquePerContributor(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()
	campaign, err := domain.NewCampaign(event, domain.MinimumFundingGoal, 1_500, 1_000)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	contribution := domain.NewContribution(campaign.Address, testAddr(2), 50_000_000, 1_100)

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}
		if err := tx.CreateCampaign(ctx, campaign); err != nil {
			return err
		}
		return tx.CreateContribution(ctx, contribution)
	})

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateContribution(ctx, contribution)
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestBudgetRoundTripWithMilestones(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()
	campaign, err := domain.NewCampaign(event, domain.MinimumFundingGoal, 1_500, 1_000)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	if err := campaign.AddContribution(domain.MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	budget, err := domain.NewBudget(campaign, 0, campaign.TotalRaised, "season budget", []domain.MilestoneInput{
		{Description: "venue deposit", ReleasePercentage: 5_000, UnlockDate: 3_000},
		{Description: "production", ReleasePercentage: 3_000, UnlockDate: 4_000},
		{Description: "final settlement", ReleasePercentage: 2_000, UnlockDate: 5_000},
	}, 600, 1_200)
	if err != nil {
		t.Fatalf("new budget: %v", err)
	}

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}
		if err := tx.CreateCampaign(ctx, campaign); err != nil {
			return err
		}
		return tx.CreateBudget(ctx, budget)
	})

	var got domain.Budget
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		got, err = tx.GetBudget(ctx, budget.Address)
		return err
	})
	if got != budget {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, budget)
	}

	if err := got.RecordVote(true, 1); err != nil {
		t.Fatalf("record vote: %v", err)
	}
	if _, err := got.FinalizeVote(1_800); err != nil {
		t.Fatalf("finalize vote: %v", err)
	}
	got.Milestones[0].Released = true
	got.Milestones[0].ReleasedAmount = 50_000_000

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.UpdateBudget(ctx, got)
	})
	var updated domain.Budget
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		updated, err = tx.GetBudget(ctx, budget.Address)
		return err
	})
	if updated != got {
		t.Fatalf("update mismatch:\n got %+v\nwant %+v", updated, got)
	}
}

func TestVoteUniquePerVoter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()
	campaign, err := domain.NewCampaign(event, domain.MinimumFundingGoal, 1_500, 1_000)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	if err := campaign.AddContribution(domain.MinimumFundingGoal); err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	budget, err := domain.NewBudget(campaign, 0, campaign.TotalRaised, "season budget", []domain.MilestoneInput{
		{Description: "a", ReleasePercentage: 5_000, UnlockDate: 3_000},
		{Description: "b", ReleasePercentage: 3_000, UnlockDate: 4_000},
		{Description: "c", ReleasePercentage: 2_000, UnlockDate: 5_000},
	}, 600, 1_200)
	if err != nil {
		t.Fatalf("new budget: %v", err)
	}
	contribution := domain.NewContribution(campaign.Address, testAddr(2), 50_000_000, 1_100)
	vote := domain.NewBudgetVote(budget, contribution, true, 1_300)

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}
		if err := tx.CreateCampaign(ctx, campaign); err != nil {
			return err
		}
		if err := tx.CreateBudget(ctx, budget); err != nil {
			return err
		}
		return tx.CreateVote(ctx, vote)
	})

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateVote(ctx, vote)
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestLedgerTransfer(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	buyer := testAddr(2)
	escrow := testAddr(3)

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.Credit(ctx, buyer, 1_000_000)
	})
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.Transfer(ctx, buyer, escrow, 600_000)
	})

	var buyerBalance, escrowBalance uint64
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		if buyerBalance, err = tx.Balance(ctx, buyer); err != nil {
			return err
		}
		escrowBalance, err = tx.Balance(ctx, escrow)
		return err
	})
	if buyerBalance != 400_000 || escrowBalance != 600_000 {
		t.Fatalf("unexpected balances: buyer %d escrow %d", buyerBalance, escrowBalance)
	}

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.Transfer(ctx, buyer, escrow, 500_000)
	})
	if !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestTokenMintTransferBurn(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	mint := testAddr(5)
	owner := testAddr(2)
	recipient := testAddr(6)

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateMint(ctx, storage.Mint{Address: mint, Authority: owner}); err != nil {
			return err
		}
		return tx.CreditToken(ctx, mint, owner, 1)
	})

	var record storage.Mint
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		record, err = tx.GetMint(ctx, mint)
		return err
	})
	if record.Supply != 1 {
		t.Fatalf("expected supply 1, got %d", record.Supply)
	}

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.TransferToken(ctx, mint, owner, recipient, 1)
	})
	var ownerBalance, recipientBalance uint64
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		if ownerBalance, err = tx.TokenBalance(ctx, mint, owner); err != nil {
			return err
		}
		recipientBalance, err = tx.TokenBalance(ctx, mint, recipient)
		return err
	})
	if ownerBalance != 0 || recipientBalance != 1 {
		t.Fatalf("unexpected token balances: owner %d recipient %d", ownerBalance, recipientBalance)
	}

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		return tx.BurnToken(ctx, mint, recipient, 1)
	})
	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		var err error
		record, err = tx.GetMint(ctx, mint)
		return err
	})
	if record.Supply != 0 {
		t.Fatalf("expected supply 0 after burn, got %d", record.Supply)
	}

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.BurnToken(ctx, mint, recipient, 1)
	})
	if !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestNonceDuplicateCollides(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	event := testEvent()
	tier, err := domain.NewTicketTier(domain.CreateTierInput{
		Event:         event.Address,
		TierID:        "vip",
		MetadataURI:   "ipfs://tier",
		PriceLamports: 1_000_000,
		MaxSupply:     10,
	})
	if err != nil {
		t.Fatalf("new tier: %v", err)
	}
	ticket := domain.NewTicket(testAddr(2), event.Address, tier.Address, testAddr(5))
	var hash [32]byte
	hash[0] = 0xAA
	nonce := domain.NewNonce(ticket.Address, hash, 2_000)

	mustWithinTx(t, store, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}
		if err := tx.CreateTier(ctx, tier); err != nil {
			return err
		}
		if err := tx.CreateTicket(ctx, ticket); err != nil {
			return err
		}
		return tx.CreateNonce(ctx, nonce)
	})

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateNonce(ctx, nonce)
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}
