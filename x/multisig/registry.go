package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	proposalBucketName = "proposals"
	proposerIndexName  = "proposer"

	rosterBucketName = "roster"
)

var rosterKey = []byte("administrators")

// ProposalRegistry stores proposals by their index. A proposal is never
// overwritten by a new one and never removed.
type ProposalRegistry struct {
	bucket orm.ModelBucket
}

// NewProposalRegistry returns a registry with a secondary index over the
// proposer address.
func NewProposalRegistry() *ProposalRegistry {
	b := orm.NewModelBucket(proposalBucketName, &Proposal{},
		orm.WithIndex(proposerIndexName, proposerIndexer, false))
	return &ProposalRegistry{bucket: b}
}

func proposerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return p.Proposer, nil
}

// Insert saves a new proposal. It fails if a proposal with the same index
// already exists.
func (r *ProposalRegistry) Insert(db vault.KVStore, p *Proposal) error {
	key := ProposalKey(p.Index)
	switch err := r.bucket.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "proposal %d", p.Index)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return r.bucket.Put(db, key, p)
}

// Has reports whether a proposal with given index exists.
func (r *ProposalRegistry) Has(db vault.ReadOnlyKVStore, index uint32) (bool, error) {
	switch err := r.bucket.Has(db, ProposalKey(index)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Get returns the proposal with given index.
func (r *ProposalRegistry) Get(db vault.ReadOnlyKVStore, index uint32) (*Proposal, error) {
	var p Proposal
	if err := r.bucket.One(db, ProposalKey(index), &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %d", index)
	}
	return &p, nil
}

// Update saves an existing proposal.
func (r *ProposalRegistry) Update(db vault.KVStore, p *Proposal) error {
	key := ProposalKey(p.Index)
	if err := r.bucket.Has(db, key); err != nil {
		return errors.Wrapf(err, "proposal %d", p.Index)
	}
	return r.bucket.Put(db, key, p)
}

// ByProposer returns all proposals created by given address.
func (r *ProposalRegistry) ByProposer(db vault.ReadOnlyKVStore, proposer vault.Address) ([]*Proposal, error) {
	var res []*Proposal
	if _, err := r.bucket.ByIndex(db, proposerIndexName, proposer, &res); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// Register exposes the proposals as "/proposals" and the proposer index as
// "/proposals/proposer".
func (r *ProposalRegistry) Register(qr vault.QueryRouter) {
	r.bucket.Register(proposalBucketName, qr)
}

// NewRosterBucket returns the bucket holding the administrator roster.
func NewRosterBucket() orm.ModelBucket {
	return orm.NewModelBucket(rosterBucketName, &AdministratorSet{})
}

// LoadAdministrators returns the roster. It fails with ErrState when the
// roster was never set, so that no proposal can be approved or executed by
// an empty quorum.
func LoadAdministrators(db vault.ReadOnlyKVStore) (*AdministratorSet, error) {
	var set AdministratorSet
	switch err := NewRosterBucket().One(db, rosterKey, &set); {
	case err == nil:
		return &set, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrState, "administrators not initialized")
	default:
		return nil, err
	}
}

// SaveAdministrators stores the roster. The roster can be saved only once.
func SaveAdministrators(db vault.KVStore, set *AdministratorSet) error {
	b := NewRosterBucket()
	switch err := b.Has(db, rosterKey); {
	case err == nil:
		return errors.Wrap(errors.ErrImmutable, "administrators already set")
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return b.Put(db, rosterKey, set)
}
