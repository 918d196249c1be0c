package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize int = 128
)

// SendMsg moves tokens between two accounts. Sending to the vault account
// is how the vault gets funded.
type SendMsg struct {
	Metadata    *vault.Metadata `json:"metadata"`
	Source      vault.Address   `json:"source"`
	Destination vault.Address   `json:"destination"`
	Amount      uint64          `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ vault.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return vault.MarshalBinary(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, m)
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "non-positive amount"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}
