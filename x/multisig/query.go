package multisig

import (
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// administratorsQuery returns the serialized roster under the
// "administrators" key. The query data is ignored.
type administratorsQuery struct{}

var _ vault.QueryHandler = administratorsQuery{}

func (administratorsQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	if mod != vault.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "only key queries are supported")
	}
	admins, err := LoadAdministrators(db)
	if err != nil {
		if errors.ErrState.Is(err) {
			return nil, nil
		}
		return nil, err
	}
	raw, err := admins.Marshal()
	if err != nil {
		return nil, err
	}
	return []vault.Model{vault.Pair(rosterKey, raw)}, nil
}

// approvalsRemainingQuery takes a proposal key and returns the number of
// missing approvals as a 4 byte big endian value.
//
// An unknown proposal gives an empty result, like a key query on any
// bucket. An empty result is not zero remaining approvals: a proposal
// that reached the quorum returns an explicit zero value.
type approvalsRemainingQuery struct {
	proposals *ProposalRegistry
}

var _ vault.QueryHandler = approvalsRemainingQuery{}

func (q approvalsRemainingQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	if mod != vault.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "only key queries are supported")
	}
	if len(data) != 4 {
		return nil, errors.Wrapf(errors.ErrInput, "proposal key must be 4 bytes, got %d", len(data))
	}
	index := binary.BigEndian.Uint32(data)
	p, err := q.proposals.Get(db, index)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		return nil, err
	}
	admins, err := LoadAdministrators(db)
	if err != nil {
		return nil, err
	}
	value := make([]byte, 4)
	binary.BigEndian.PutUint32(value, p.ApprovalsRemaining(admins.QuorumSize()))
	return []vault.Model{vault.Pair(ProposalKey(index), value)}, nil
}
