// Package checkin verifies owner-authorized ticket check-ins. A gate
// operator presents a proof tuple signed offline by the ticket owner; the
// signed message binds a single-use nonce so the same proof can never
// authorize a second check-in.
package checkin

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/Ah-Riz/mythra-program/internal/errors"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
)

// MessageLength is the exact length of a check-in message: a 32-byte nonce
// hash followed by the 8-byte little-endian nonce value.
const MessageLength = 40

// Proof is the (public key, message, signature) tuple authorizing one
// check-in. The public key must be the ticket owner's wallet key.
type Proof struct {
	PublicKey []byte
	Message   []byte
	Signature []byte
}

// EncodeMessage builds the canonical check-in message for signing.
func EncodeMessage(nonceHash [32]byte, nonceValue uint64) []byte {
	message := make([]byte, MessageLength)
	copy(message[:32], nonceHash[:])
	binary.LittleEndian.PutUint64(message[32:], nonceValue)
	return message
}

// Sign produces a proof over the given nonce with the owner's private key.
// Intended for gate tooling and tests; verification never needs it.
func Sign(privateKey ed25519.PrivateKey, nonceHash [32]byte, nonceValue uint64) Proof {
	message := EncodeMessage(nonceHash, nonceValue)
	return Proof{
		PublicKey: privateKey.Public().(ed25519.PublicKey),
		Message:   message,
		Signature: ed25519.Sign(privateKey, message),
	}
}

// Verify checks a proof against the ticket owner and the caller-supplied
// nonce. It rejects, in order: malformed tuple sizes, a public key that is
// not the owner's, a message that does not embed exactly the supplied nonce
// hash and value, and finally an invalid signature. All rejections fail
// closed with no side effects.
func Verify(proof Proof, owner domain.Address, nonceHash [32]byte, nonceValue uint64) error {
	if len(proof.PublicKey) != ed25519.PublicKeySize {
		return errors.Newf(errors.CodeProofMissing, "public key must be %d bytes, got %d", ed25519.PublicKeySize, len(proof.PublicKey))
	}
	if len(proof.Signature) != ed25519.SignatureSize {
		return errors.Newf(errors.CodeProofMissing, "signature must be %d bytes, got %d", ed25519.SignatureSize, len(proof.Signature))
	}
	if len(proof.Message) != MessageLength {
		return errors.Newf(errors.CodeProofMissing, "message must be %d bytes, got %d", MessageLength, len(proof.Message))
	}

	var signer domain.Address
	copy(signer[:], proof.PublicKey)
	if signer != owner {
		return errors.New(errors.CodeInvalidSignature, "proof public key does not match ticket owner")
	}

	if !bytes.Equal(proof.Message, EncodeMessage(nonceHash, nonceValue)) {
		return errors.New(errors.CodeInvalidSignature, "signed message does not match supplied nonce")
	}

	if !ed25519.Verify(ed25519.PublicKey(proof.PublicKey), proof.Message, proof.Signature) {
		return errors.New(errors.CodeInvalidSignature, "signature verification failed")
	}
	return nil
}
