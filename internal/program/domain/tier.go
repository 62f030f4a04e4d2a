package domain

import (
	"github.com/Ah-Riz/mythra-program/internal/errors"
)

// TicketTier is a priced allocation bucket within an event.
type TicketTier struct {
	Address       Address
	Event         Address
	PriceLamports uint64
	MaxSupply     uint32
	CurrentSupply uint32
	MetadataURI   string
	RoyaltyBPS    uint16
	ResaleEnabled bool
	TierIndex     uint8
}

// CreateTierInput carries the fields needed to create a tier.
type CreateTierInput struct {
	Event         Address
	TierID        string
	MetadataURI   string
	PriceLamports uint64
	MaxSupply     uint32
	RoyaltyBPS    uint16
	TierIndex     uint8
	ResaleEnabled bool
}

// NewTicketTier validates input and builds a tier record. The caller reserves
// supply on the parent event via Event.AllocateSupply in the same operation.
func NewTicketTier(input CreateTierInput) (TicketTier, error) {
	if len(input.MetadataURI) > MaxMetadataURILength {
		return TicketTier{}, errors.Newf(errors.CodeMetadataURITooLong, "metadata uri is %d chars, max %d", len(input.MetadataURI), MaxMetadataURILength)
	}
	if input.PriceLamports == 0 {
		return TicketTier{}, errors.New(errors.CodeInvalidPrice, "ticket price must be greater than zero")
	}
	return TicketTier{
		Address:       TierAddress(input.Event, input.TierID),
		Event:         input.Event,
		PriceLamports: input.PriceLamports,
		MaxSupply:     input.MaxSupply,
		CurrentSupply: 0,
		MetadataURI:   input.MetadataURI,
		RoyaltyBPS:    input.RoyaltyBPS,
		ResaleEnabled: input.ResaleEnabled,
		TierIndex:     input.TierIndex,
	}, nil
}

// IsAvailable reports whether the tier still has unsold tickets.
func (t *TicketTier) IsAvailable() bool {
	return t.CurrentSupply < t.MaxSupply
}

// Remaining returns the number of unsold tickets.
func (t *TicketTier) Remaining() uint32 {
	if t.CurrentSupply >= t.MaxSupply {
		return 0
	}
	return t.MaxSupply - t.CurrentSupply
}

// TakeOne consumes one unit of supply.
func (t *TicketTier) TakeOne() error {
	if !t.IsAvailable() {
		return errors.Newf(errors.CodeExceedsTotalSupply, "tier is sold out at %d tickets", t.MaxSupply)
	}
	supply, err := CheckedAddU32(t.CurrentSupply, 1)
	if err != nil {
		return errors.New(errors.CodeExceedsTotalSupply, "tier supply counter overflow")
	}
	t.CurrentSupply = supply
	return nil
}

// Royalty computes the resale royalty owed on a sale price.
func (t *TicketTier) Royalty(salePrice uint64) (uint64, error) {
	if t.RoyaltyBPS == 0 || salePrice == 0 {
		return 0, nil
	}
	return MulBps(salePrice, t.RoyaltyBPS)
}
