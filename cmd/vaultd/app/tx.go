package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
)

// Tx is the transaction format of the vault. Exactly one of the message
// fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`

	CreateProposalMsg  *multisig.CreateProposalMsg  `json:"create_proposal_msg,omitempty"`
	ApproveProposalMsg *multisig.ApproveProposalMsg `json:"approve_proposal_msg,omitempty"`
	ExecuteProposalMsg *multisig.ExecuteProposalMsg `json:"execute_proposal_msg,omitempty"`
	SendMsg            *cash.SendMsg                `json:"send_msg,omitempty"`
}

// make sure tx fulfills all interfaces
var _ vault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (vault.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx wraps given message into a transaction.
func NewTx(msg vault.Msg) (*Tx, error) {
	var tx Tx
	switch m := msg.(type) {
	case *multisig.CreateProposalMsg:
		tx.CreateProposalMsg = m
	case *multisig.ApproveProposalMsg:
		tx.ApproveProposalMsg = m
	case *multisig.ExecuteProposalMsg:
		tx.ExecuteProposalMsg = m
	case *cash.SendMsg:
		tx.SendMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return &tx, nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (vault.Msg, error) {
	var msgs []vault.Msg
	if tx.CreateProposalMsg != nil {
		msgs = append(msgs, tx.CreateProposalMsg)
	}
	if tx.ApproveProposalMsg != nil {
		msgs = append(msgs, tx.ApproveProposalMsg)
	}
	if tx.ExecuteProposalMsg != nil {
		msgs = append(msgs, tx.ExecuteProposalMsg)
	}
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if len(msgs) != 1 {
		return nil, errors.Wrapf(errors.ErrInput, "transaction must carry exactly one message, got %d", len(msgs))
	}
	return msgs[0], nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of the
// signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

// Marshal serializes the transaction with the binary codec.
func (tx *Tx) Marshal() ([]byte, error) {
	return vault.MarshalBinary(tx)
}

// Unmarshal loads the transaction from its binary form.
func (tx *Tx) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, tx)
}
