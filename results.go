package vault

import (
	"github.com/iov-one/vault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is returned by a handler that accepted a transaction for the
// mempool.
type CheckResult struct {
	Log string
	// GasAllocated is reported to tendermint as the wanted gas.
	GasAllocated int64
}

// DeliverResult is returned by a handler that executed a transaction.
type DeliverResult struct {
	// Data is the machine readable outcome, for example the key of a
	// created proposal.
	Data []byte
	Log  string
	// Tags are indexed by tendermint and allow to search the history.
	Tags []common.KVPair
}

// CheckResponse builds the abci response of a check call. A non nil error
// takes precedence over the result.
func CheckResponse(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := failure("check", err, debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{Log: res.Log, GasWanted: res.GasAllocated}
}

// DeliverResponse builds the abci response of a deliver call. A non nil
// error takes precedence over the result.
func DeliverResponse(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := failure("deliver", err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log, Tags: res.Tags}
}

// QueryError converts any error into a abci.ResponseQuery.
func QueryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

func failure(call string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	return code, "cannot " + call + " tx: " + log
}
