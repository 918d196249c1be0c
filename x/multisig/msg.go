package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	pathCreateProposalMsg  = "multisig/create_proposal"
	pathApproveProposalMsg = "multisig/approve_proposal"
	pathExecuteProposalMsg = "multisig/execute_proposal"
)

// CreateProposalMsg proposes to pay Amount out of the vault to Recipient.
// The proposal is stored under the Index chosen by the sender.
type CreateProposalMsg struct {
	Metadata  *vault.Metadata `json:"metadata"`
	Index     uint32          `json:"index"`
	Recipient vault.Address   `json:"recipient"`
	Amount    uint64          `json:"amount"`
}

var _ vault.Msg = (*CreateProposalMsg)(nil)

func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

func (m *CreateProposalMsg) Marshal() ([]byte, error) {
	return vault.MarshalBinary(m)
}

func (m *CreateProposalMsg) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, m)
}

func (m *CreateProposalMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

// ApproveProposalMsg is sent by an administrator to approve a proposal.
type ApproveProposalMsg struct {
	Metadata *vault.Metadata `json:"metadata"`
	Index    uint32          `json:"index"`
}

var _ vault.Msg = (*ApproveProposalMsg)(nil)

func (ApproveProposalMsg) Path() string {
	return pathApproveProposalMsg
}

func (m *ApproveProposalMsg) Marshal() ([]byte, error) {
	return vault.MarshalBinary(m)
}

func (m *ApproveProposalMsg) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, m)
}

func (m *ApproveProposalMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

// ExecuteProposalMsg pays out an approved proposal.
type ExecuteProposalMsg struct {
	Metadata *vault.Metadata `json:"metadata"`
	Index    uint32          `json:"index"`
}

var _ vault.Msg = (*ExecuteProposalMsg)(nil)

func (ExecuteProposalMsg) Path() string {
	return pathExecuteProposalMsg
}

func (m *ExecuteProposalMsg) Marshal() ([]byte, error) {
	return vault.MarshalBinary(m)
}

func (m *ExecuteProposalMsg) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, m)
}

func (m *ExecuteProposalMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}
