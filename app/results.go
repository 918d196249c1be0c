package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ResultSet is the serialized form of the keys or the values of a query
// response. Both sets of one response have the same length.
type ResultSet struct {
	Results [][]byte
}

var _ vault.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	return vault.MarshalBinary(r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return vault.UnmarshalBinary(raw, r)
}

// EncodeModels returns the serialized key set and value set of models.
func EncodeModels(models []vault.Model) (keys, values []byte, err error) {
	var ks, vs ResultSet
	for _, m := range models {
		ks.Results = append(ks.Results, m.Key)
		vs.Results = append(vs.Results, m.Value)
	}
	if keys, err = ks.Marshal(); err != nil {
		return nil, nil, errors.Wrap(err, "keys")
	}
	if values, err = vs.Marshal(); err != nil {
		return nil, nil, errors.Wrap(err, "values")
	}
	return keys, values, nil
}

// DecodeModels is the inverse of EncodeModels.
func DecodeModels(keys, values []byte) ([]vault.Model, error) {
	var ks, vs ResultSet
	if err := ks.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := vs.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	if len(ks.Results) != len(vs.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(ks.Results), len(vs.Results))
	}
	models := make([]vault.Model, len(ks.Results))
	for i, k := range ks.Results {
		models[i] = vault.Pair(k, vs.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult loads the first of the serialized values into dest.
// It returns false if there are none.
func UnmarshalOneResult(values []byte, dest vault.Persistent) (bool, error) {
	var vs ResultSet
	if err := vs.Unmarshal(values); err != nil {
		return false, err
	}
	if len(vs.Results) == 0 {
		return false, nil
	}
	return true, dest.Unmarshal(vs.Results[0])
}
