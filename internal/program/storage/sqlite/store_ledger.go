package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// Balance returns the fungible balance of an address. Unknown addresses
// hold zero.
func (t *Tx) Balance(ctx context.Context, address domain.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	row := t.tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE address = ?`, address.String())
	var balance uint64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// Credit adds funds to an address, creating the account row on first use.
func (t *Tx) Credit(ctx context.Context, address domain.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO accounts (address, balance) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET balance = balance + excluded.balance`,
		address.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	return nil
}

// Debit removes funds from an address, failing with ErrInsufficientFunds
// rather than overdrawing.
func (t *Tx) Debit(ctx context.Context, address domain.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE accounts SET balance = balance - ? WHERE address = ? AND balance >= ?`,
		int64(amount),
		address.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientFunds
	}
	return nil
}

// Transfer moves funds between two addresses atomically within the
// transaction.
func (t *Tx) Transfer(ctx context.Context, from, to domain.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := t.Debit(ctx, from, amount); err != nil {
		return err
	}
	return t.Credit(ctx, to, amount)
}

// CreateMint inserts one asset mint record.
func (t *Tx) CreateMint(ctx context.Context, mint storage.Mint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO mints (address, authority, supply, decimals) VALUES (?, ?, ?, ?)`,
		mint.Address.String(),
		mint.Authority.String(),
		int64(mint.Supply),
		int64(mint.Decimals),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create mint: %w", err)
	}
	return nil
}

// GetMint returns one asset mint by address.
func (t *Tx) GetMint(ctx context.Context, address domain.Address) (storage.Mint, error) {
	if err := ctx.Err(); err != nil {
		return storage.Mint{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, authority, supply, decimals FROM mints WHERE address = ?`,
		address.String(),
	)

	var mint storage.Mint
	var addr, authority string
	if err := row.Scan(&addr, &authority, &mint.Supply, &mint.Decimals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Mint{}, storage.ErrNotFound
		}
		return storage.Mint{}, fmt.Errorf("get mint: %w", err)
	}
	var err error
	if mint.Address, err = domain.ParseAddress(addr); err != nil {
		return storage.Mint{}, fmt.Errorf("get mint: %w", err)
	}
	if mint.Authority, err = domain.ParseAddress(authority); err != nil {
		return storage.Mint{}, fmt.Errorf("get mint: %w", err)
	}
	return mint, nil
}

// TokenBalance returns the balance an owner holds of one mint. Unknown
// holdings are zero.
func (t *Tx) TokenBalance(ctx context.Context, mint, owner domain.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT balance FROM token_accounts WHERE mint = ? AND owner = ?`,
		mint.String(),
		owner.String(),
	)
	var balance uint64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get token balance: %w", err)
	}
	return balance, nil
}

// CreditToken mints amount units of an asset to an owner, growing the mint
// supply in lockstep.
func (t *Tx) CreditToken(ctx context.Context, mint, owner domain.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE mints SET supply = supply + ? WHERE address = ?`,
		int64(amount),
		mint.String(),
	)
	if err != nil {
		return fmt.Errorf("grow mint supply: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("grow mint supply: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	_, err = t.tx.ExecContext(
		ctx,
		`INSERT INTO token_accounts (mint, owner, balance) VALUES (?, ?, ?)
		 ON CONFLICT(mint, owner) DO UPDATE SET balance = balance + excluded.balance`,
		mint.String(),
		owner.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("credit token account: %w", err)
	}
	return nil
}

// TransferToken moves asset units between owners without changing supply.
func (t *Tx) TransferToken(ctx context.Context, mint, from, to domain.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE token_accounts SET balance = balance - ?
		  WHERE mint = ? AND owner = ? AND balance >= ?`,
		int64(amount),
		mint.String(),
		from.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("debit token account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit token account: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientFunds
	}
	_, err = t.tx.ExecContext(
		ctx,
		`INSERT INTO token_accounts (mint, owner, balance) VALUES (?, ?, ?)
		 ON CONFLICT(mint, owner) DO UPDATE SET balance = balance + excluded.balance`,
		mint.String(),
		to.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("credit token account: %w", err)
	}
	return nil
}

// BurnToken destroys asset units held by an owner, shrinking the mint
// supply in lockstep.
func (t *Tx) BurnToken(ctx context.Context, mint, owner domain.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE token_accounts SET balance = balance - ?
		  WHERE mint = ? AND owner = ? AND balance >= ?`,
		int64(amount),
		mint.String(),
		owner.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("burn token account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("burn token account: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientFunds
	}
	result, err = t.tx.ExecContext(
		ctx,
		`UPDATE mints SET supply = supply - ? WHERE address = ? AND supply >= ?`,
		int64(amount),
		mint.String(),
		int64(amount),
	)
	if err != nil {
		return fmt.Errorf("shrink mint supply: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("shrink mint supply: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientFunds
	}
	return nil
}

// AppendAudit inserts one append-only audit record.
func (t *Tx) AppendAudit(ctx context.Context, entry storage.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO audit_log (kind, entity, actor, amount, ts) VALUES (?, ?, ?, ?, ?)`,
		entry.Kind,
		entry.Entity.String(),
		storeAddress(entry.Actor),
		int64(entry.Amount),
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
