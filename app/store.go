package app

import (
	"encoding/json"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the abci calls that deal with the state only: the
// handshake, genesis, block boundaries, commits and queries. Embed it and
// add CheckTx and DeliverTx to get a full application.
//
// Failures in calls that cannot return an error to tendermint, like
// InitChain or Commit, leave the node in an unknown state. StoreApp
// panics on them.
type StoreApp struct {
	name        string
	store       *CommitStore
	initializer vault.Initializer
	queries     vault.QueryRouter
	logger      log.Logger
	debug       bool

	// chainID is empty until the genesis is loaded.
	chainID string
	// appContext is valid for the lifetime of the application.
	appContext vault.Context
	// blockContext is replaced on every BeginBlock.
	blockContext vault.Context
}

// NewStoreApp loads the application state from kv. It panics if the
// state cannot be read.
func NewStoreApp(name string, kv vault.CommitKVStore, queries vault.QueryRouter, ctx vault.Context) *StoreApp {
	s := &StoreApp{
		name:       name,
		store:      NewCommitStore(kv),
		queries:    queries,
		appContext: ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.appContext = vault.WithChainID(s.appContext, s.chainID)
	}
	s.blockContext = vault.WithHeight(s.appContext, s.mustCommitInfo().Version)
	return s
}

// GetChainID returns the chain ID, or an empty string before the genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the state initializer run by InitChain.
func (s *StoreApp) WithInit(init vault.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug makes error responses carry the full error details.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger of the application and of every context it
// creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appContext = vault.WithLogger(s.appContext, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext carries the chain ID, the logger and the current block
// header and height.
func (s *StoreApp) BlockContext() vault.Context {
	return s.blockContext
}

// DeliverStore returns the state transactions of the current block write
// to.
func (s *StoreApp) DeliverStore() vault.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the state mempool checks write to.
func (s *StoreApp) CheckStore() vault.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) mustCommitInfo() vault.CommitID {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	return info
}

// loadGenesis saves the chain ID and runs the initializer over the app
// state. A chain is initialized only once.
func (s *StoreApp) loadGenesis(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json")
	}
	var opts vault.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.appContext = vault.WithChainID(s.appContext, chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

// Info returns the last committed height and app hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info := s.mustCommitInfo()
	s.logger.Info("info synced", "height", info.Version, "hash", hexHash(info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain loads the genesis. It is called on the very first start of a
// chain only.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := vault.WithHeader(s.appContext, req.Header)
	s.blockContext = vault.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit synced", "height", id.Version, "hash", hexHash(id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the last committed state. The path selects a registered
// handler, for example "/proposals" or "/proposals/proposer", and may end
// with "?prefix" for a prefix query. Key and Value of the response are
// ResultSets of the same length, see EncodeModels.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	res, err := s.query(req)
	if err != nil {
		return vault.QueryError(err, s.debug)
	}
	return res
}

func (s *StoreApp) query(req abci.RequestQuery) (abci.ResponseQuery, error) {
	var res abci.ResponseQuery
	path, mod := splitPath(req.Path)
	h := s.queries.Handler(path)
	if h == nil {
		return res, errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return res, err
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return res, err
	}
	res.Height = info.Version
	res.Key, res.Value, err = EncodeModels(models)
	return res, err
}

// splitPath separates the query mode following "?" from the path.
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}
