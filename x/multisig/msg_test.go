package multisig

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProposalMsgValidation(t *testing.T) {
	cases := map[string]struct {
		msg        *CreateProposalMsg
		wantErrors map[string]*errors.Error
	}{
		"valid message": {
			msg: &CreateProposalMsg{
				Metadata:  &vault.Metadata{Schema: 1},
				Index:     0,
				Recipient: newAddr(),
				Amount:    1,
			},
			wantErrors: map[string]*errors.Error{
				"Metadata":  nil,
				"Recipient": nil,
				"Amount":    nil,
			},
		},
		"everything wrong": {
			msg: &CreateProposalMsg{
				Recipient: vault.Address("bad"),
			},
			wantErrors: map[string]*errors.Error{
				"Metadata":  errors.ErrEmpty,
				"Recipient": errors.ErrInput,
				"Amount":    errors.ErrAmount,
			},
		},
		"missing recipient": {
			msg: &CreateProposalMsg{
				Metadata: &vault.Metadata{Schema: 1},
				Amount:   5,
			},
			wantErrors: map[string]*errors.Error{
				"Metadata":  nil,
				"Recipient": errors.ErrEmpty,
				"Amount":    nil,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrors {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestIndexMsgValidation(t *testing.T) {
	msgs := []vault.Msg{
		&ApproveProposalMsg{Index: 3},
		&ExecuteProposalMsg{Index: 3},
	}
	for _, msg := range msgs {
		assert.FieldError(t, msg.Validate(), "Metadata", errors.ErrEmpty)
	}

	require.NoError(t, (&ApproveProposalMsg{Metadata: &vault.Metadata{Schema: 1}}).Validate())
	require.NoError(t, (&ExecuteProposalMsg{Metadata: &vault.Metadata{Schema: 1}}).Validate())
}

func TestMsgSerialization(t *testing.T) {
	msg := &CreateProposalMsg{
		Metadata:  &vault.Metadata{Schema: 1},
		Index:     77,
		Recipient: newAddr(),
		Amount:    1234,
	}
	raw, err := msg.Marshal()
	require.NoError(t, err)
	var loaded CreateProposalMsg
	require.NoError(t, loaded.Unmarshal(raw))
	require.Equal(t, msg, &loaded)

	require.Equal(t, "multisig/create_proposal", msg.Path())
	require.Equal(t, "multisig/approve_proposal", ApproveProposalMsg{}.Path())
	require.Equal(t, "multisig/execute_proposal", ExecuteProposalMsg{}.Path())
}
