package vault

import (
	"reflect"

	"github.com/iov-one/vault/errors"
)

// Marshaller is implemented by values with a binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is implemented by pointers to values that can be stored and
// loaded again.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is the request of a transaction, for example to approve a proposal.
// Who sends it is known from the enclosing Tx only.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It is made of
	// [0-9A-Za-z_\-/] characters, for example "multisig/approve".
	Path() string

	// Validate checks the message on its own, without looking at the
	// state.
	Validate() error
}

// Tx is a message together with everything needed to authenticate its
// sender.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// TxDecoder reads a transaction from its binary form.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath returns the route of the message of tx, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into dest and validates it. dest must
// be a pointer of the same type as the message.
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrInput, "transaction has no message")
	}

	to := reflect.ValueOf(dest)
	if to.Kind() != reflect.Ptr || to.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a non nil pointer, got %T", dest)
	}
	from := reflect.ValueOf(msg)
	if from.Type() != to.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", dest, msg)
	}
	to.Elem().Set(from.Elem())

	return errors.Wrap(msg.Validate(), "invalid message")
}

// Metadata is carried by every message and model. Schema is the version
// of the binary layout, starting at 1.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

func (m *Metadata) Validate() error {
	switch {
	case m == nil:
		return errors.Wrap(errors.ErrEmpty, "metadata")
	case m.Schema == 0:
		return errors.Wrap(errors.ErrInput, "invalid schema version")
	}
	return nil
}

func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
