package domain

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// Address is a 32-byte account address. Wallet addresses are ed25519 public
// keys; program-owned record and escrow addresses are derived from fixed
// seeds so exactly one address exists per logical record.
type Address [32]byte

// ZeroAddress is the all-zero address.
var ZeroAddress Address

// String returns the base58 encoding of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether the address is all zero.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes a base58 address string.
func ParseAddress(value string) (Address, error) {
	raw, err := base58.Decode(value)
	if err != nil {
		return Address{}, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != len(Address{}) {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", len(Address{}), len(raw))
	}
	var addr Address
	copy(addr[:], raw)
	return addr, nil
}

// derivationTag namespaces all derived addresses for this program.
const derivationTag = "mythra-program:v1"

// Derive computes the deterministic address for the given seed parts. The
// same seeds always produce the same address, and distinct seed lists
// produce distinct addresses; holding the seed list is the capability to
// authorize transfers out of the derived account.
func Derive(seeds ...[]byte) Address {
	h := sha256.New()
	h.Write([]byte(derivationTag))
	for _, seed := range seeds {
		// Length-prefix each seed so seed boundaries cannot be shifted.
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}
	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}

// EventAddress derives the record address for an event.
func EventAddress(organizer Address, eventID string) Address {
	return Derive([]byte("event"), organizer.Bytes(), []byte(eventID))
}

// TierAddress derives the record address for a ticket tier.
func TierAddress(event Address, tierID string) Address {
	return Derive([]byte("tier"), event.Bytes(), []byte(tierID))
}

// TicketAddress derives the record address for a ticket, keyed by its mint.
func TicketAddress(mint Address) Address {
	return Derive([]byte("ticket"), mint.Bytes())
}

// EventEscrowAddress derives the single escrow holding account for an event.
func EventEscrowAddress(event Address) Address {
	return Derive([]byte("escrow"), event.Bytes())
}

// CampaignAddress derives the record address for an event's campaign.
func CampaignAddress(event Address) Address {
	return Derive([]byte("campaign"), event.Bytes())
}

// CampaignEscrowAddress derives the escrow holding account for a campaign.
func CampaignEscrowAddress(campaign Address) Address {
	return Derive([]byte("campaign_escrow"), campaign.Bytes())
}

// ContributionAddress derives the record address for one backer's stake.
func ContributionAddress(campaign, contributor Address) Address {
	return Derive([]byte("contribution"), campaign.Bytes(), contributor.Bytes())
}

// BudgetAddress derives the record address for a campaign budget revision.
// Revision 0 is the initially submitted budget.
func BudgetAddress(campaign Address, revision uint8) Address {
	if revision == 0 {
		return Derive([]byte("budget"), campaign.Bytes())
	}
	return Derive([]byte("budget_revision"), campaign.Bytes(), []byte{revision})
}

// VoteAddress derives the record address for one backer's budget vote.
func VoteAddress(budget, voter Address) Address {
	return Derive([]byte("budget_vote"), budget.Bytes(), voter.Bytes())
}

// NonceAddress derives the record address for a check-in nonce.
func NonceAddress(ticket Address, nonceHash [32]byte) Address {
	return Derive([]byte("nonce"), ticket.Bytes(), nonceHash[:])
}

// OrderAddress derives the record address for a purchase order receipt.
func OrderAddress(buyer Address, orderID string) Address {
	return Derive([]byte("order"), buyer.Bytes(), []byte(orderID))
}
