package multisig

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// AdministratorSet is the roster of addresses allowed to approve
// proposals. It is set once and never changes afterwards.
type AdministratorSet struct {
	Metadata  *vault.Metadata `json:"metadata"`
	Addresses []vault.Address `json:"addresses"`
}

var _ orm.Model = (*AdministratorSet)(nil)

// NewAdministratorSet returns a validated roster. The order of addresses is
// preserved.
func NewAdministratorSet(addrs ...vault.Address) (*AdministratorSet, error) {
	set := &AdministratorSet{
		Metadata:  &vault.Metadata{Schema: 1},
		Addresses: make([]vault.Address, len(addrs)),
	}
	for i, a := range addrs {
		set.Addresses[i] = a.Clone()
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *AdministratorSet) Marshal() ([]byte, error) {
	return vault.MarshalBinary(s)
}

func (s *AdministratorSet) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, s)
}

// Validate ensures the roster is not empty and that every address is
// valid and listed only once.
func (s *AdministratorSet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if len(s.Addresses) == 0 {
		errs = errors.Append(errs, errors.Field("Addresses", errors.ErrEmpty, "at least one administrator required"))
	}
	for i, a := range s.Addresses {
		if err := a.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field(fmt.Sprintf("Addresses.%d", i), err, "invalid address"))
			continue
		}
		for _, prev := range s.Addresses[:i] {
			if a.Equals(prev) {
				errs = errors.Append(errs, errors.Field(fmt.Sprintf("Addresses.%d", i), errors.ErrDuplicate, "administrator %s listed twice", a))
				break
			}
		}
	}
	return errs
}

// Copy returns an independent copy.
func (s *AdministratorSet) Copy() orm.Model {
	return &AdministratorSet{
		Metadata:  s.Metadata.Copy(),
		Addresses: cloneAddresses(s.Addresses),
	}
}

// IsAdministrator returns true if the address belongs to the roster.
func (s *AdministratorSet) IsAdministrator(addr vault.Address) bool {
	for _, a := range s.Addresses {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// QuorumSize is the number of approvals a proposal needs to be executed.
// Every administrator must approve.
func (s *AdministratorSet) QuorumSize() int {
	return len(s.Addresses)
}

// List returns a copy of the roster.
func (s *AdministratorSet) List() []vault.Address {
	return cloneAddresses(s.Addresses)
}

// ProposalState describes where a proposal is in its lifecycle.
type ProposalState int

const (
	// Open proposals are still collecting approvals.
	Open ProposalState = iota
	// Approved proposals were approved by every administrator and wait
	// for the execution.
	Approved
	// Fulfilled proposals were paid out. This is a terminal state.
	Fulfilled
)

func (s ProposalState) String() string {
	switch s {
	case Open:
		return "open"
	case Approved:
		return "approved"
	case Fulfilled:
		return "fulfilled"
	default:
		return fmt.Sprintf("ProposalState(%d)", int(s))
	}
}

// Proposal is a request to pay a fixed amount out of the vault to a fixed
// recipient, together with the approvals it collected so far.
type Proposal struct {
	Metadata *vault.Metadata `json:"metadata"`
	// Index is the caller chosen identifier. It is also the key the
	// proposal is stored under.
	Index     uint32        `json:"index"`
	Amount    uint64        `json:"amount"`
	Recipient vault.Address `json:"recipient"`
	Proposer  vault.Address `json:"proposer"`
	// Voters are kept in the order the approvals were received.
	Voters []vault.Address `json:"voters"`
	// Approvals is always equal to the number of voters.
	Approvals uint32 `json:"approvals"`
	Fulfilled bool   `json:"fulfilled"`
}

var _ orm.Model = (*Proposal)(nil)

// NewProposal returns an open proposal without any approvals.
func NewProposal(index uint32, amount uint64, recipient, proposer vault.Address) *Proposal {
	return &Proposal{
		Metadata:  &vault.Metadata{Schema: 1},
		Index:     index,
		Amount:    amount,
		Recipient: recipient.Clone(),
		Proposer:  proposer.Clone(),
	}
}

func (p *Proposal) Marshal() ([]byte, error) {
	return vault.MarshalBinary(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, p)
}

// Validate checks the proposal fields as well as the vote accounting.
func (p *Proposal) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", p.Metadata.Validate())
	if p.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	errs = errors.AppendField(errs, "Recipient", p.Recipient.Validate())
	errs = errors.AppendField(errs, "Proposer", p.Proposer.Validate())
	if int(p.Approvals) != len(p.Voters) {
		errs = errors.Append(errs, errors.Field("Approvals", errors.ErrState, "%d approvals recorded for %d voters", p.Approvals, len(p.Voters)))
	}
	for i, v := range p.Voters {
		if err := v.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field(fmt.Sprintf("Voters.%d", i), err, "invalid address"))
			continue
		}
		for _, prev := range p.Voters[:i] {
			if v.Equals(prev) {
				errs = errors.Append(errs, errors.Field(fmt.Sprintf("Voters.%d", i), errors.ErrDuplicate, "%s voted twice", v))
				break
			}
		}
	}
	return errs
}

// Copy returns an independent copy.
func (p *Proposal) Copy() orm.Model {
	return &Proposal{
		Metadata:  p.Metadata.Copy(),
		Index:     p.Index,
		Amount:    p.Amount,
		Recipient: p.Recipient.Clone(),
		Proposer:  p.Proposer.Clone(),
		Voters:    cloneAddresses(p.Voters),
		Approvals: p.Approvals,
		Fulfilled: p.Fulfilled,
	}
}

// HasVoted returns true if given address already approved this proposal.
func (p *Proposal) HasVoted(addr vault.Address) bool {
	for _, v := range p.Voters {
		if v.Equals(addr) {
			return true
		}
	}
	return false
}

// RecordVote registers an approval of the voter. It returns true if this
// approval made the proposal reach the quorum. Voting twice is rejected
// and leaves the proposal unchanged.
func (p *Proposal) RecordVote(voter vault.Address, quorumSize int) (bool, error) {
	if p.HasVoted(voter) {
		return false, errors.Wrapf(ErrAlreadyVoted, "%s on proposal %d", voter, p.Index)
	}
	p.Voters = append(p.Voters, voter.Clone())
	p.Approvals++
	return p.HasQuorum(quorumSize), nil
}

// HasQuorum returns true if the number of approvals equals the quorum size.
// The comparison is exact: a roster that shrank after the votes were cast
// would make the quorum unreachable.
func (p *Proposal) HasQuorum(quorumSize int) bool {
	return int(p.Approvals) == quorumSize
}

// MarkFulfilled closes the proposal. A proposal can be fulfilled only once.
func (p *Proposal) MarkFulfilled() error {
	if p.Fulfilled {
		return errors.Wrapf(ErrAlreadyFulfilled, "proposal %d", p.Index)
	}
	p.Fulfilled = true
	return nil
}

// State returns the lifecycle state of the proposal for the given quorum
// size.
func (p *Proposal) State(quorumSize int) ProposalState {
	switch {
	case p.Fulfilled:
		return Fulfilled
	case p.HasQuorum(quorumSize):
		return Approved
	default:
		return Open
	}
}

// ApprovalsRemaining returns how many approvals are still missing.
func (p *Proposal) ApprovalsRemaining(quorumSize int) uint32 {
	if int(p.Approvals) >= quorumSize {
		return 0
	}
	return uint32(quorumSize) - p.Approvals
}

// ProposalKey returns the database key of the proposal with given index.
func ProposalKey(index uint32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, index)
	return key
}

func cloneAddresses(addrs []vault.Address) []vault.Address {
	if addrs == nil {
		return nil
	}
	cpy := make([]vault.Address, len(addrs))
	for i, a := range addrs {
		cpy[i] = a.Clone()
	}
	return cpy
}
