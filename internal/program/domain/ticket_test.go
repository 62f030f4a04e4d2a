package domain

import (
	"testing"

	"github.com/Ah-Riz/mythra-program/internal/errors"
)

func testTicket() Ticket {
	event := EventAddress(testAddr(1), "summer-fest")
	return NewTicket(testAddr(2), event, TierAddress(event, "vip"), testAddr(3))
}

func TestMarkUsedOnce(t *testing.T) {
	ticket := testTicket()
	gate := testAddr(4)

	if err := ticket.MarkUsed(gate, 2_100); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if !ticket.Used || ticket.CheckedInTS != 2_100 || ticket.GateOperator != gate {
		t.Fatalf("check-in not recorded: %+v", ticket)
	}
	if err := ticket.MarkUsed(gate, 2_200); !errors.Is(err, errors.CodeTicketAlreadyUsed) {
		t.Fatalf("expected ticket already used, got %v", err)
	}
	if ticket.CheckedInTS != 2_100 {
		t.Fatalf("second check-in must not overwrite timestamp, got %d", ticket.CheckedInTS)
	}
}

func TestMarkRefunded(t *testing.T) {
	ticket := testTicket()

	if err := ticket.MarkRefunded(1_500); err != nil {
		t.Fatalf("mark refunded: %v", err)
	}
	if !ticket.Refunded || ticket.RefundTS != 1_500 {
		t.Fatalf("refund not recorded: %+v", ticket)
	}
	if err := ticket.MarkRefunded(1_600); !errors.Is(err, errors.CodeAlreadyRefunded) {
		t.Fatalf("expected already refunded, got %v", err)
	}
}

func TestMarkUsedRejectsRefundedTicket(t *testing.T) {
	ticket := testTicket()
	if err := ticket.MarkRefunded(1_500); err != nil {
		t.Fatalf("mark refunded: %v", err)
	}
	if err := ticket.MarkUsed(testAddr(4), 2_100); !errors.Is(err, errors.CodeAlreadyRefunded) {
		t.Fatalf("expected already refunded, got %v", err)
	}
	if ticket.Used {
		t.Fatal("refunded ticket must not be marked used")
	}
}

func TestMarkRefundedRejectsUsedTicket(t *testing.T) {
	ticket := testTicket()
	if err := ticket.MarkUsed(testAddr(4), 2_100); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if err := ticket.MarkRefunded(2_200); !errors.Is(err, errors.CodeTicketUsedCannotRefund) {
		t.Fatalf("expected ticket used cannot refund, got %v", err)
	}
}

func TestTransferable(t *testing.T) {
	ticket := testTicket()
	if err := ticket.Transferable(); err != nil {
		t.Fatalf("fresh ticket must be transferable: %v", err)
	}

	used := testTicket()
	if err := used.MarkUsed(testAddr(4), 2_100); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if err := used.Transferable(); !errors.Is(err, errors.CodeTicketAlreadyUsed) {
		t.Fatalf("expected ticket already used, got %v", err)
	}

	refunded := testTicket()
	if err := refunded.MarkRefunded(1_500); err != nil {
		t.Fatalf("mark refunded: %v", err)
	}
	if err := refunded.Transferable(); !errors.Is(err, errors.CodeAlreadyRefunded) {
		t.Fatalf("expected already refunded, got %v", err)
	}
}

func TestNonceExpiry(t *testing.T) {
	ticket := testTicket()
	var hash [32]byte
	hash[0] = 0xAA

	nonce := NewNonce(ticket.Address, hash, 1_000)
	if nonce.ExpiresAt != 1_000+NonceExpirySeconds {
		t.Fatalf("expected expiry at %d, got %d", 1_000+NonceExpirySeconds, nonce.ExpiresAt)
	}
	if nonce.IsExpired(1_000 + NonceExpirySeconds) {
		t.Fatalf("nonce must be valid at the expiry boundary")
	}
	if !nonce.IsExpired(1_001 + NonceExpirySeconds) {
		t.Fatalf("nonce must be expired past the boundary")
	}
}

func TestNewOrderValidation(t *testing.T) {
	buyer := testAddr(2)
	event := EventAddress(testAddr(1), "summer-fest")
	tier := TierAddress(event, "vip")
	mint := testAddr(3)

	order, err := NewOrder(buyer, event, tier, mint, "order-001", 1_000_000, 1_500)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	if order.Address != OrderAddress(buyer, "order-001") {
		t.Fatalf("unexpected order address %s", order.Address)
	}

	longID := make([]byte, MaxOrderIDLength+1)
	for i := range longID {
		longID[i] = 'x'
	}
	if _, err := NewOrder(buyer, event, tier, mint, string(longID), 1_000_000, 1_500); !errors.Is(err, errors.CodeOrderIDTooLong) {
		t.Fatalf("expected order id too long, got %v", err)
	}
}
