package crypto

import (
	"github.com/iov-one/vault"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() vault.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is the serializable form of an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey is the serializable form of an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Signature is the serializable form of an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

func (p *PublicKey) Marshal() ([]byte, error) { return vault.MarshalBinary(p) }

func (p *PublicKey) Unmarshal(raw []byte) error { return vault.UnmarshalBinary(raw, p) }

func (p *PrivateKey) Marshal() ([]byte, error) { return vault.MarshalBinary(p) }

func (p *PrivateKey) Unmarshal(raw []byte) error { return vault.UnmarshalBinary(raw, p) }

func (s *Signature) Marshal() ([]byte, error) { return vault.MarshalBinary(s) }

func (s *Signature) Unmarshal(raw []byte) error { return vault.UnmarshalBinary(raw, s) }

// GetEd25519 returns the raw private key bytes.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// Address is a shortcut for Condition().Address()
func (p *PublicKey) Address() vault.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}
