package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CreateTicket inserts one ticket record.
func (t *Tx) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO tickets (
		   address, owner, event, tier, mint,
		   used, refunded, checked_in_ts, gate_operator, refund_ts
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.Address.String(),
		ticket.Owner.String(),
		ticket.Event.String(),
		ticket.Tier.String(),
		ticket.Mint.String(),
		boolToInt(ticket.Used),
		boolToInt(ticket.Refunded),
		ticket.CheckedInTS,
		storeAddress(ticket.GateOperator),
		ticket.RefundTS,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// GetTicket returns one ticket by address.
func (t *Tx) GetTicket(ctx context.Context, address domain.Address) (domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ticket{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, owner, event, tier, mint,
		        used, refunded, checked_in_ts, gate_operator, refund_ts
		   FROM tickets
		  WHERE address = ?`,
		address.String(),
	)

	var ticket domain.Ticket
	var addr, owner, event, tier, mint, gateOperator string
	err := row.Scan(
		&addr,
		&owner,
		&event,
		&tier,
		&mint,
		&ticket.Used,
		&ticket.Refunded,
		&ticket.CheckedInTS,
		&gateOperator,
		&ticket.RefundTS,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ticket{}, storage.ErrNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Owner, err = domain.ParseAddress(owner); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Event, err = domain.ParseAddress(event); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Tier, err = domain.ParseAddress(tier); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.Mint, err = domain.ParseAddress(mint); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.GateOperator, err = parseStoredAddress(gateOperator); err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

// UpdateTicket rewrites the mutable fields of one ticket record.
func (t *Tx) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE tickets
		    SET owner = ?, used = ?, refunded = ?,
		        checked_in_ts = ?, gate_operator = ?, refund_ts = ?
		  WHERE address = ?`,
		ticket.Owner.String(),
		boolToInt(ticket.Used),
		boolToInt(ticket.Refunded),
		ticket.CheckedInTS,
		storeAddress(ticket.GateOperator),
		ticket.RefundTS,
		ticket.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateOrder inserts one immutable purchase receipt.
func (t *Tx) CreateOrder(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO orders (
		   address, buyer, event, tier, mint, order_id, amount_paid, ts
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.Address.String(),
		order.Buyer.String(),
		order.Event.String(),
		order.Tier.String(),
		order.Mint.String(),
		order.OrderID,
		int64(order.AmountPaid),
		order.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrder returns one purchase receipt by address.
func (t *Tx) GetOrder(ctx context.Context, address domain.Address) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, buyer, event, tier, mint, order_id, amount_paid, ts
		   FROM orders
		  WHERE address = ?`,
		address.String(),
	)

	var order domain.Order
	var addr, buyer, event, tier, mint string
	err := row.Scan(
		&addr,
		&buyer,
		&event,
		&tier,
		&mint,
		&order.OrderID,
		&order.AmountPaid,
		&order.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, storage.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Buyer, err = domain.ParseAddress(buyer); err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Event, err = domain.ParseAddress(event); err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Tier, err = domain.ParseAddress(tier); err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Mint, err = domain.ParseAddress(mint); err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// CreateNonce inserts one check-in nonce record. A replayed nonce collides
// on its derived primary key.
func (t *Tx) CreateNonce(ctx context.Context, nonce domain.Nonce) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO nonces (
		   address, ticket, nonce_hash, used, created_at, expires_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		nonce.Address.String(),
		nonce.Ticket.String(),
		nonce.NonceHash[:],
		boolToInt(nonce.Used),
		nonce.CreatedAt,
		nonce.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create nonce: %w", err)
	}
	return nil
}

// UpdateNonce rewrites the used flag of one nonce record.
func (t *Tx) UpdateNonce(ctx context.Context, nonce domain.Nonce) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE nonces SET used = ? WHERE address = ?`,
		boolToInt(nonce.Used),
		nonce.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update nonce: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update nonce: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
