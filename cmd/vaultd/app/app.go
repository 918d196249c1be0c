/*
Package app assembles the vault node: the transaction format, the
decorator chain, the message routes and the genesis setup.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/utils"
)

// Authenticator accepts the signers of the transaction.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes through before
// reaching its handler, outermost first.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// A failed check leaves no trace in the mempool state.
		utils.NewSavepoint().OnCheck(),
		// Executing an approved proposal needs no signature.
		sigs.NewDecorator().AllowMissingSigs(),
		// Sequences are incremented even if the message fails.
		utils.NewSavepoint().OnDeliver(),
	)
}

// Engine returns the multisig engine paying out of the vault account.
func Engine(metrics *multisig.Metrics) *multisig.Engine {
	ledger := cash.NewLedger(cash.NewController(), multisig.VaultAddress())
	return multisig.NewEngine(ledger, metrics)
}

func Router(auth x.Authenticator, engine *multisig.Engine) *app.Router {
	r := app.NewRouter()
	multisig.RegisterRoutes(r, auth, engine)
	cash.RegisterRoutes(r, auth, cash.NewController())
	return r
}

// QueryRouter serves "/proposals", "/administrators",
// "/approvals_remaining", "/wallets", "/auth" and the raw "/" path.
func QueryRouter() vault.QueryRouter {
	r := vault.NewQueryRouter()
	r.RegisterAll(
		multisig.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack is the complete transaction handler of the node.
func Stack(metrics *multisig.Metrics) vault.Handler {
	return Chain().WithHandler(Router(Authenticator(), Engine(metrics)))
}

// Application returns an ABCI application keeping its state at dbPath.
// An empty dbPath keeps the state in memory.
func Application(name string, h vault.Handler, decoder vault.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, decoder, h, debug), nil
}

// CommitKVStore opens the database at dbPath. A trailing extension such
// as ".db" is ignored.
func CommitKVStore(dbPath string) (vault.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	dir, name := filepath.Split(path)
	return iavl.NewCommitStore(filepath.Clean(dir), name), nil
}
