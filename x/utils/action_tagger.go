package utils

import (
	"github.com/iov-one/vault"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey tags delivered transactions with the path of their message,
// for example "action=multisig/execute_proposal". Searching by this tag
// lists the history of an operation.
const ActionKey = "action"

// ActionTagger is a decorator adding the action tag to the result of
// every successful deliver. Check results are never tagged.
type ActionTagger struct{}

var _ vault.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger { return ActionTagger{} }

func (ActionTagger) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails without calling the handler when the message of tx
// cannot be read.
func (ActionTagger) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	tag, err := actionTag(tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err == nil {
		res.Tags = append(res.Tags, tag)
	}
	return res, err
}

func actionTag(tx vault.Tx) (common.KVPair, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return common.KVPair{}, err
	}
	return common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())}, nil
}
