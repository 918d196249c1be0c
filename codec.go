package vault

import (
	"github.com/iov-one/vault/errors"
	amino "github.com/tendermint/go-amino"
)

// Codec is the binary codec used for all persisted models, messages and
// transactions. No interfaces are registered: every type that is stored is
// a concrete struct.
var Codec = amino.NewCodec()

// MarshalBinary serializes given object using the shared codec.
func MarshalBinary(obj interface{}) ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(obj)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "marshal %T: %s", obj, err)
	}
	return bz, nil
}

// UnmarshalBinary deserializes given data into the pointer.
func UnmarshalBinary(raw []byte, ptr interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshal %T: %s", ptr, err)
	}
	return nil
}
