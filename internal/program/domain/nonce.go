package domain

// NonceExpirySeconds is the fixed validity window for a check-in nonce.
const NonceExpirySeconds int64 = 300

// Nonce is a single-use proof record binding one check-in authorization.
// Once used it is permanently rejected for reuse; once past ExpiresAt it is
// rejected regardless of the used flag. Nonce records are never deleted.
type Nonce struct {
	Address   Address
	Ticket    Address
	NonceHash [32]byte
	Used      bool
	CreatedAt int64
	ExpiresAt int64
}

// NewNonce builds a fresh nonce record for a check-in attempt.
func NewNonce(ticket Address, nonceHash [32]byte, nowUnix int64) Nonce {
	return Nonce{
		Address:   NonceAddress(ticket, nonceHash),
		Ticket:    ticket,
		NonceHash: nonceHash,
		Used:      false,
		CreatedAt: nowUnix,
		ExpiresAt: nowUnix + NonceExpirySeconds,
	}
}

// IsExpired reports whether the nonce validity window has passed.
func (n *Nonce) IsExpired(nowUnix int64) bool {
	return nowUnix > n.ExpiresAt
}
