package domain

import (
	"github.com/Ah-Riz/mythra-program/internal/errors"
)

// Ticket is one redeemable position, 1:1 with a non-fungible asset mint.
// used and refunded are mutually exclusive terminal markers.
type Ticket struct {
	Address      Address
	Owner        Address
	Event        Address
	Tier         Address
	Mint         Address
	Used         bool
	Refunded     bool
	CheckedInTS  int64
	GateOperator Address
	RefundTS     int64
}

// NewTicket builds a fresh ticket record keyed by its mint.
func NewTicket(owner, event, tier, mint Address) Ticket {
	return Ticket{
		Address: TicketAddress(mint),
		Owner:   owner,
		Event:   event,
		Tier:    tier,
		Mint:    mint,
	}
}

// MarkUsed flips the ticket to used, recording the check-in time and the
// gate operator. Used and refunded tickets can never be marked.
func (t *Ticket) MarkUsed(gateOperator Address, nowUnix int64) error {
	if t.Used {
		return errors.New(errors.CodeTicketAlreadyUsed, "ticket has already been used")
	}
	if t.Refunded {
		return errors.New(errors.CodeAlreadyRefunded, "ticket has already been refunded")
	}
	t.Used = true
	t.CheckedInTS = nowUnix
	t.GateOperator = gateOperator
	return nil
}

// MarkRefunded flips the ticket to refunded. Used tickets cannot be refunded
// and a ticket can be refunded at most once.
func (t *Ticket) MarkRefunded(nowUnix int64) error {
	if t.Used {
		return errors.New(errors.CodeTicketUsedCannotRefund, "cannot refund a used ticket")
	}
	if t.Refunded {
		return errors.New(errors.CodeAlreadyRefunded, "ticket has already been refunded")
	}
	t.Refunded = true
	t.RefundTS = nowUnix
	return nil
}

// Transferable reports whether the ticket can change owners.
func (t *Ticket) Transferable() error {
	if t.Used {
		return errors.New(errors.CodeTicketAlreadyUsed, "ticket has already been used")
	}
	if t.Refunded {
		return errors.New(errors.CodeAlreadyRefunded, "ticket has already been refunded")
	}
	return nil
}
