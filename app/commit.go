package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// CommitStore keeps the committed state together with the two pending
// views of the current block. DeliverTx writes to the deliver view, which
// becomes the next committed version. CheckTx writes to the check view,
// which is dropped on every commit.
type CommitStore struct {
	committed vault.CommitKVStore
	deliver   vault.KVCacheWrap
	check     vault.KVCacheWrap
}

// NewCommitStore loads the latest committed version. It panics if the
// store cannot be loaded, because no block can be processed without it.
func NewCommitStore(committed vault.CommitKVStore) *CommitStore {
	if err := committed.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load latest version"))
	}
	cs := &CommitStore{committed: committed}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (vault.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists all delivered writes as a new version. Pending check
// writes are dropped.
func (cs *CommitStore) Commit() (vault.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return vault.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() vault.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() vault.CacheableKVStore {
	return cs.deliver
}

// chainIDKey is stored outside of any bucket namespace. The "_vault:"
// prefix is reserved for the application.
const chainIDKey = "_vault:chainID"

// mustLoadChainID returns the stored chain ID or an empty string before
// genesis.
func mustLoadChainID(db vault.ReadOnlyKVStore) string {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		panic(errors.Wrap(err, "load chain ID"))
	}
	return string(raw)
}

// saveChainID stores the chain ID. It can be set only once.
func saveChainID(db vault.KVStore, chainID string) error {
	if !vault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain ID %q", chainID)
	}
	switch current := mustLoadChainID(db); current {
	case "":
	case chainID:
		return errors.Wrapf(errors.ErrUnauthorized, "chain ID %q already set", chainID)
	default:
		return errors.Wrapf(errors.ErrUnauthorized, "chain ID %q cannot replace %q", chainID, current)
	}
	if err := db.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain ID")
	}
	return nil
}
