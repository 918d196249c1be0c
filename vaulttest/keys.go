package vaulttest

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
)

// NewKey returns a fresh ed25519 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a fresh ed25519 key. Each call
// returns a different identity.
func NewCondition() vault.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns a 4 byte big endian encoded index, the format used by
// the multisig proposal keys.
func SequenceID(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// vault.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) vault.Address {
	t.Helper()

	addr, err := vault.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
