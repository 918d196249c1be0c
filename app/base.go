package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a complete ABCI application. Transactions are decoded with
// the decoder and processed by the handler. State handling and queries are
// provided by the embedded StoreApp.
type BaseApp struct {
	*StoreApp
	decoder vault.TxDecoder
	handler vault.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application processing transactions with handler.
// When debug is set, error responses carry full error details.
func NewBaseApp(store *StoreApp, decoder vault.TxDecoder, handler vault.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx executes the transaction against the state of the current
// block.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, ctx, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return vault.DeliverResponse(nil, err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return vault.DeliverResponse(res, err, b.debug)
}

// CheckTx validates the transaction for the mempool. Writes go to a
// separate view that is dropped on commit.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, ctx, err := b.prepare(raw, "check_tx")
	if err != nil {
		return vault.CheckResponse(nil, err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return vault.CheckResponse(res, err, b.debug)
}

// prepare decodes the transaction and returns the context to process it
// with. A panicking decoder results in an ErrPanic error.
func (b BaseApp) prepare(raw []byte, call string) (tx vault.Tx, ctx vault.Context, err error) {
	defer errors.Recover(&err)

	tx, err = b.decoder(raw)
	if err != nil {
		return nil, nil, err
	}
	ctx = vault.WithLogInfo(b.BlockContext(), "call", call, "path", vault.GetPath(tx))
	return tx, ctx, nil
}
