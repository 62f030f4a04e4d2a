// Package service implements the program operations. Each operation loads
// referenced entities, validates preconditions, mutates state, optionally
// moves funds between escrow accounts, and appends an audit entry, all
// inside one storage transaction so an error rolls everything back.
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"

	progerrors "github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/monitoring"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

var tracer = otel.Tracer("mythra/program/service")

// Service executes program operations against a store.
type Service struct {
	store            storage.Store
	clock            func() time.Time
	platformTreasury domain.Address
}

// New creates a Service with default dependencies.
func New(store storage.Store, platformTreasury domain.Address) *Service {
	return &Service{
		store:            store,
		clock:            time.Now,
		platformTreasury: platformTreasury,
	}
}

// PlatformTreasury returns the configured platform treasury address.
func (s *Service) PlatformTreasury() domain.Address {
	return s.platformTreasury
}

func (s *Service) now() int64 {
	return s.clock().UTC().Unix()
}

// run executes one operation inside a transaction and records its outcome.
func (s *Service) run(ctx context.Context, operation string, fn func(ctx context.Context, tx storage.Tx) error) error {
	ctx, span := tracer.Start(ctx, operation)
	defer span.End()

	started := time.Now()
	err := s.store.WithinTx(ctx, fn)
	monitoring.ObserveOperation(operation, err, time.Since(started))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(progerrors.CodeOf(err)))
	}
	return err
}

// mapStorageErr translates storage sentinels into coded errors, leaving
// coded errors untouched.
func mapStorageErr(err error) error {
	var coded *progerrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &coded):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return progerrors.New(progerrors.CodeNotFound, "record not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		return progerrors.New(progerrors.CodeAlreadyExists, "record already exists")
	case errors.Is(err, storage.ErrInsufficientFunds):
		return progerrors.New(progerrors.CodeInsufficientBalance, "insufficient balance")
	default:
		return err
	}
}

func audit(ctx context.Context, tx storage.Tx, kind string, entity, actor domain.Address, amount uint64, ts int64) error {
	return tx.AppendAudit(ctx, storage.AuditEntry{
		Kind:      kind,
		Entity:    entity,
		Actor:     actor,
		Amount:    amount,
		Timestamp: ts,
	})
}

// requireNFT validates that the mint has supply exactly 1 held entirely by
// owner.
func requireNFT(ctx context.Context, tx storage.Tx, mint, owner domain.Address) error {
	record, err := tx.GetMint(ctx, mint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return progerrors.New(progerrors.CodeInvalidSupply, "asset mint does not exist")
		}
		return err
	}
	if record.Supply != 1 {
		return progerrors.Newf(progerrors.CodeInvalidSupply, "asset supply must be exactly 1, got %d", record.Supply)
	}
	balance, err := tx.TokenBalance(ctx, mint, owner)
	if err != nil {
		return err
	}
	if balance != 1 {
		return progerrors.New(progerrors.CodeInvalidMintOwner, "asset is not held by the expected owner")
	}
	return nil
}

// Deposit credits funds to an address. This stands in for the host's native
// funding path so wallets can be seeded.
func (s *Service) Deposit(ctx context.Context, to domain.Address, amount uint64) error {
	err := s.run(ctx, "deposit", func(ctx context.Context, tx storage.Tx) error {
		if amount == 0 {
			return progerrors.New(progerrors.CodeInvalidContributionAmount, "deposit amount must be greater than zero")
		}
		// The ledger stores balances as int64.
		if amount > math.MaxInt64 {
			return progerrors.New(progerrors.CodeInvalidContributionAmount, "deposit amount exceeds ledger capacity")
		}
		if err := tx.Credit(ctx, to, amount); err != nil {
			return err
		}
		return audit(ctx, tx, storage.AuditDeposited, to, to, amount, s.now())
	})
	return mapStorageErr(err)
}

// MintAsset creates a non-fungible mint with supply 1 held by owner. This
// stands in for the host's asset interface so tickets can be purchased and
// registered against real mints.
func (s *Service) MintAsset(ctx context.Context, authority, mint, owner domain.Address) error {
	err := s.run(ctx, "mint_asset", func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateMint(ctx, storage.Mint{Address: mint, Authority: authority}); err != nil {
			return err
		}
		if err := tx.CreditToken(ctx, mint, owner, 1); err != nil {
			return err
		}
		return audit(ctx, tx, storage.AuditAssetMinted, mint, authority, 1, s.now())
	})
	return mapStorageErr(err)
}

// Balance returns the fungible balance of an address.
func (s *Service) Balance(ctx context.Context, address domain.Address) (uint64, error) {
	var balance uint64
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		balance, err = tx.Balance(ctx, address)
		return err
	})
	return balance, mapStorageErr(err)
}
