package multisig

import (
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Ledger holds the funds of the vault.
type Ledger interface {
	// Balance returns the funds currently held by the vault.
	Balance(db vault.ReadOnlyKVStore) (uint64, error)
	// Transfer pays amount out of the vault. It must either succeed or
	// leave the store untouched.
	Transfer(db vault.KVStore, recipient vault.Address, amount uint64) error
}

// Engine runs the proposal lifecycle against the registry, the
// administrator roster and the ledger.
//
// All operations that modify a proposal hold an exclusive lock of that
// proposal for their whole duration. Execute keeps the lock while the
// ledger transfer runs, so a concurrent execution of the same proposal
// always observes the outcome of the first one.
type Engine struct {
	proposals *ProposalRegistry
	ledger    Ledger
	metrics   *Metrics
	locks     *keyLocks

	// Inserts share the proposer index entries.
	insertMu sync.Mutex
}

// NewEngine returns an engine paying out of the given ledger. Metrics are
// optional.
func NewEngine(ledger Ledger, metrics *Metrics) *Engine {
	return &Engine{
		proposals: NewProposalRegistry(),
		ledger:    ledger,
		metrics:   metrics,
		locks:     newKeyLocks(),
	}
}

// CreateTransaction registers a new proposal under the given index. Anyone
// can propose. A taken index fails with ErrDuplicate whatever the other
// arguments are, and the existing proposal is not modified. Only then is
// the new proposal validated.
func (e *Engine) CreateTransaction(ctx vault.Context, db vault.KVStore, index uint32, amount uint64, recipient, proposer vault.Address) error {
	unlock := e.locks.Lock(ProposalKey(index))
	defer unlock()

	switch exists, err := e.proposals.Has(db, index); {
	case err != nil:
		return err
	case exists:
		return errors.Wrapf(errors.ErrDuplicate, "proposal %d", index)
	}

	p := NewProposal(index, amount, recipient, proposer)
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "invalid proposal")
	}

	e.insertMu.Lock()
	err := e.proposals.Insert(db, p)
	e.insertMu.Unlock()
	if err != nil {
		return err
	}

	e.metrics.proposalCreated()
	vault.GetLogger(ctx).Debug("proposal created",
		"module", "multisig", "proposal", index, "amount", amount, "recipient", recipient)
	return nil
}

// Approve records the approval of the voter. Only administrators can
// approve and each of them only once. It returns true if this approval
// made the proposal reach the quorum. Approving never moves funds.
func (e *Engine) Approve(ctx vault.Context, db vault.KVStore, index uint32, voter vault.Address) (bool, error) {
	admins, err := LoadAdministrators(db)
	if err != nil {
		return false, err
	}
	if !admins.IsAdministrator(voter) {
		return false, errors.Wrapf(errors.ErrUnauthorized, "%s is not an administrator", voter)
	}

	unlock := e.locks.Lock(ProposalKey(index))
	defer unlock()

	p, err := e.proposals.Get(db, index)
	if err != nil {
		return false, err
	}
	reached, err := p.RecordVote(voter, admins.QuorumSize())
	if err != nil {
		return false, err
	}
	if err := e.proposals.Update(db, p); err != nil {
		return false, errors.Wrap(err, "save proposal")
	}

	e.metrics.voteRecorded()
	vault.GetLogger(ctx).Debug("proposal approved",
		"module", "multisig", "proposal", index, "voter", voter, "approvals", p.Approvals, "quorum", reached)
	return reached, nil
}

// Execute pays out an approved proposal. The proposal is marked as
// fulfilled before the ledger is called. If the transfer fails, the
// proposal is restored to the state it had before the call and
// ErrTransferFailed is returned.
func (e *Engine) Execute(ctx vault.Context, db vault.KVStore, index uint32) error {
	logger := vault.GetLogger(ctx).With("module", "multisig", "proposal", index)

	unlock := e.locks.Lock(ProposalKey(index))
	defer unlock()

	p, err := e.executable(db, index)
	if err != nil {
		e.metrics.executed(resultRejected)
		return err
	}

	before := p.Copy().(*Proposal)
	if err := p.MarkFulfilled(); err != nil {
		e.metrics.executed(resultRejected)
		return err
	}
	if err := e.proposals.Update(db, p); err != nil {
		e.metrics.executed(resultRejected)
		return errors.Wrap(err, "save proposal")
	}

	if err := e.ledger.Transfer(db, p.Recipient, p.Amount); err != nil {
		e.metrics.executed(resultTransferFailed)
		failure := errors.Wrapf(ErrTransferFailed, "proposal %d: %s", index, err)
		if rerr := e.proposals.Update(db, before); rerr != nil {
			logger.Error("cannot restore proposal after failed transfer", "err", rerr)
			return errors.Append(failure, errors.Wrap(rerr, "restore proposal"))
		}
		logger.Info("transfer failed", "err", err)
		return failure
	}

	e.metrics.executed(resultSuccess)
	logger.Info("proposal executed", "amount", p.Amount, "recipient", p.Recipient)
	return nil
}

// executable loads the proposal and ensures it can be paid out. Checks are
// done in order: existence, quorum, fulfillment and vault balance.
func (e *Engine) executable(db vault.ReadOnlyKVStore, index uint32) (*Proposal, error) {
	p, err := e.proposals.Get(db, index)
	if err != nil {
		return nil, err
	}
	admins, err := LoadAdministrators(db)
	if err != nil {
		return nil, err
	}
	if !p.HasQuorum(admins.QuorumSize()) {
		return nil, errors.Wrapf(ErrNotApproved, "proposal %d has %d of %d approvals",
			index, p.Approvals, admins.QuorumSize())
	}
	if p.Fulfilled {
		return nil, errors.Wrapf(ErrAlreadyFulfilled, "proposal %d", index)
	}
	balance, err := e.ledger.Balance(db)
	if err != nil {
		return nil, errors.Wrap(err, "vault balance")
	}
	if balance < p.Amount {
		return nil, errors.Wrapf(errors.ErrAmount, "insufficient funds: vault holds %d, proposal %d needs %d",
			balance, index, p.Amount)
	}
	return p, nil
}

// Inspect returns a copy of the proposal with given index.
func (e *Engine) Inspect(db vault.ReadOnlyKVStore, index uint32) (*Proposal, error) {
	return e.proposals.Get(db, index)
}

// ListAdministrators returns a copy of the roster.
func (e *Engine) ListAdministrators(db vault.ReadOnlyKVStore) ([]vault.Address, error) {
	admins, err := LoadAdministrators(db)
	if err != nil {
		return nil, err
	}
	return admins.List(), nil
}

// ApprovalsRemaining returns how many approvals the proposal still needs
// to reach the quorum.
func (e *Engine) ApprovalsRemaining(db vault.ReadOnlyKVStore, index uint32) (uint32, error) {
	p, err := e.proposals.Get(db, index)
	if err != nil {
		return 0, err
	}
	admins, err := LoadAdministrators(db)
	if err != nil {
		return 0, err
	}
	return p.ApprovalsRemaining(admins.QuorumSize()), nil
}

// Proposals returns the registry the engine operates on.
func (e *Engine) Proposals() *ProposalRegistry {
	return e.proposals
}
