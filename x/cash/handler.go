package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// Gas allocated for a single transfer.
const sendTxCost = 100

// RegisterRoutes binds the transfer message to its handler.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery exposes wallets under "/wallets", keyed by address.
func RegisterQuery(qr vault.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler moves tokens between two accounts. The source account must
// have signed the transaction.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ vault.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

// Check does not look at the balances. A transfer that would overdraw the
// source is accepted here and fails on deliver.
func (h SendHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, err := h.authorized(ctx, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := h.authorized(ctx, tx)
	if err != nil {
		return nil, err
	}
	err = h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{}, nil
}

// authorized loads the message and ensures the source signed it.
func (h SendHandler) authorized(ctx vault.Context, tx vault.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if h.auth.HasAddress(ctx, msg.Source) {
		return &msg, nil
	}
	return nil, errors.Wrapf(errors.ErrUnauthorized, "missing signature of %s", msg.Source)
}
