package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

const (
	creationCost  int64 = 300
	approvalCost  int64 = 100
	executionCost int64 = 500
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r vault.Registry, auth x.Authenticator, engine *Engine) {
	r.Handle(pathCreateProposalMsg, CreateProposalHandler{auth: auth, engine: engine})
	r.Handle(pathApproveProposalMsg, ApproveProposalHandler{auth: auth, engine: engine})
	r.Handle(pathExecuteProposalMsg, ExecuteProposalHandler{engine: engine})
}

// RegisterQuery register queries from buckets in this package
func RegisterQuery(qr vault.QueryRouter) {
	NewProposalRegistry().Register(qr)
	qr.Register("/administrators", administratorsQuery{})
	qr.Register("/approvals_remaining", approvalsRemainingQuery{proposals: NewProposalRegistry()})
}

// CreateProposalHandler creates proposals. The main signer of the
// transaction is the proposer.
type CreateProposalHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var _ vault.Handler = CreateProposalHandler{}

func (h CreateProposalHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: creationCost}, nil
}

func (h CreateProposalHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, proposer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.engine.CreateTransaction(ctx, db, msg.Index, msg.Amount, msg.Recipient, proposer); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{Data: ProposalKey(msg.Index)}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h CreateProposalHandler) validate(ctx vault.Context, tx vault.Tx) (*CreateProposalMsg, vault.Address, error) {
	var msg CreateProposalMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "proposer signature missing")
	}
	return &msg, sender.Address(), nil
}

// ApproveProposalHandler records the approval of the main signer.
type ApproveProposalHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var _ vault.Handler = ApproveProposalHandler{}

func (h ApproveProposalHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: approvalCost}, nil
}

// Deliver returns 0x01 as the result data if this approval completed the
// quorum, 0x00 otherwise.
func (h ApproveProposalHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, voter, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	reached, err := h.engine.Approve(ctx, db, msg.Index, voter)
	if err != nil {
		return nil, err
	}
	res := &vault.DeliverResult{Data: []byte{0}}
	if reached {
		res.Data[0] = 1
	}
	return res, nil
}

func (h ApproveProposalHandler) validate(ctx vault.Context, tx vault.Tx) (*ApproveProposalMsg, vault.Address, error) {
	var msg ApproveProposalMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "administrator signature missing")
	}
	return &msg, sender.Address(), nil
}

// ExecuteProposalHandler pays out approved proposals. Anyone can trigger
// the execution.
type ExecuteProposalHandler struct {
	engine *Engine
}

var _ vault.Handler = ExecuteProposalHandler{}

func (h ExecuteProposalHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg ExecuteProposalMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &vault.CheckResult{GasAllocated: executionCost}, nil
}

func (h ExecuteProposalHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg ExecuteProposalMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.engine.Execute(ctx, db, msg.Index); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{}, nil
}
