package orm

import (
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// counter is a minimal model used by the tests of this package.
type counter struct {
	Count int64 `json:"count"`
	Owner []byte
}

var _ Model = (*counter)(nil)

func newCounter(c int64) *counter {
	return &counter{Count: c}
}

func (c *counter) Marshal() ([]byte, error) {
	return vault.MarshalBinary(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, c)
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative counter")
	}
	return nil
}

func (c *counter) Copy() Model {
	cpy := *c
	return &cpy
}

// encodeCount is a big-endian encoded int64
func encodeCount(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}

func byCount(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return encodeCount(c.Count), nil
}

func byOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return c.Owner, nil
}

// notCounter has the counter methods but is a distinct model type.
type notCounter struct {
	counter
}
