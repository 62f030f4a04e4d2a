package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/storage"
)

// CreateEvent inserts one event record.
func (t *Tx) CreateEvent(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO events (
		   address, authority, metadata_uri, start_ts, end_ts,
		   total_supply, allocated_supply, treasury, platform_split_bps,
		   canceled, crowdfunding_enabled, campaign, ticket_revenue, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Address.String(),
		event.Authority.String(),
		event.MetadataURI,
		event.StartTS,
		event.EndTS,
		int64(event.TotalSupply),
		int64(event.AllocatedSupply),
		event.Treasury.String(),
		int64(event.PlatformSplitBPS),
		boolToInt(event.Canceled),
		boolToInt(event.CrowdfundingEnabled),
		storeAddress(event.Campaign),
		int64(event.TicketRevenue),
		event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent returns one event by address.
func (t *Tx) GetEvent(ctx context.Context, address domain.Address) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, authority, metadata_uri, start_ts, end_ts,
		        total_supply, allocated_supply, treasury, platform_split_bps,
		        canceled, crowdfunding_enabled, campaign, ticket_revenue, created_at
		   FROM events
		  WHERE address = ?`,
		address.String(),
	)

	var event domain.Event
	var addr, authority, treasury, campaign string
	err := row.Scan(
		&addr,
		&authority,
		&event.MetadataURI,
		&event.StartTS,
		&event.EndTS,
		&event.TotalSupply,
		&event.AllocatedSupply,
		&treasury,
		&event.PlatformSplitBPS,
		&event.Canceled,
		&event.CrowdfundingEnabled,
		&campaign,
		&event.TicketRevenue,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, storage.ErrNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	if event.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	if event.Authority, err = domain.ParseAddress(authority); err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	if event.Treasury, err = domain.ParseAddress(treasury); err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	if event.Campaign, err = parseStoredAddress(campaign); err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent rewrites the mutable fields of one event record.
func (t *Tx) UpdateEvent(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE events
		    SET metadata_uri = ?, end_ts = ?, allocated_supply = ?,
		        treasury = ?, platform_split_bps = ?, canceled = ?,
		        crowdfunding_enabled = ?, campaign = ?, ticket_revenue = ?
		  WHERE address = ?`,
		event.MetadataURI,
		event.EndTS,
		int64(event.AllocatedSupply),
		event.Treasury.String(),
		int64(event.PlatformSplitBPS),
		boolToInt(event.Canceled),
		boolToInt(event.CrowdfundingEnabled),
		storeAddress(event.Campaign),
		int64(event.TicketRevenue),
		event.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteEvent removes one event record, reclaiming its storage.
func (t *Tx) DeleteEvent(ctx context.Context, address domain.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(ctx, `DELETE FROM events WHERE address = ?`, address.String())
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateTier inserts one ticket tier record.
func (t *Tx) CreateTier(ctx context.Context, tier domain.TicketTier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO ticket_tiers (
		   address, event, price_lamports, max_supply, current_supply,
		   metadata_uri, royalty_bps, resale_enabled, tier_index
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tier.Address.String(),
		tier.Event.String(),
		int64(tier.PriceLamports),
		int64(tier.MaxSupply),
		int64(tier.CurrentSupply),
		tier.MetadataURI,
		int64(tier.RoyaltyBPS),
		boolToInt(tier.ResaleEnabled),
		int64(tier.TierIndex),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create tier: %w", err)
	}
	return nil
}

// GetTier returns one ticket tier by address.
func (t *Tx) GetTier(ctx context.Context, address domain.Address) (domain.TicketTier, error) {
	if err := ctx.Err(); err != nil {
		return domain.TicketTier{}, err
	}
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT address, event, price_lamports, max_supply, current_supply,
		        metadata_uri, royalty_bps, resale_enabled, tier_index
		   FROM ticket_tiers
		  WHERE address = ?`,
		address.String(),
	)

	var tier domain.TicketTier
	var addr, event string
	err := row.Scan(
		&addr,
		&event,
		&tier.PriceLamports,
		&tier.MaxSupply,
		&tier.CurrentSupply,
		&tier.MetadataURI,
		&tier.RoyaltyBPS,
		&tier.ResaleEnabled,
		&tier.TierIndex,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TicketTier{}, storage.ErrNotFound
		}
		return domain.TicketTier{}, fmt.Errorf("get tier: %w", err)
	}
	if tier.Address, err = domain.ParseAddress(addr); err != nil {
		return domain.TicketTier{}, fmt.Errorf("get tier: %w", err)
	}
	if tier.Event, err = domain.ParseAddress(event); err != nil {
		return domain.TicketTier{}, fmt.Errorf("get tier: %w", err)
	}
	return tier, nil
}

// UpdateTier rewrites the mutable fields of one tier record.
func (t *Tx) UpdateTier(ctx context.Context, tier domain.TicketTier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := t.tx.ExecContext(
		ctx,
		`UPDATE ticket_tiers SET current_supply = ? WHERE address = ?`,
		int64(tier.CurrentSupply),
		tier.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("update tier: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tier: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
