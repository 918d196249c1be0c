package vaulttest

import "github.com/iov-one/vault"

// Calls counts the Check and Deliver invocations of a mock. Every call is
// counted, whatever its result.
type Calls struct {
	check   int
	deliver int
}

func (c *Calls) CheckCallCount() int   { return c.check }
func (c *Calls) DeliverCallCount() int { return c.deliver }
func (c *Calls) CallCount() int        { return c.check + c.deliver }

// Handler is a vault.Handler mock returning preconfigured results. An error
// takes precedence over the result.
type Handler struct {
	Calls

	CheckResult vault.CheckResult
	CheckErr    error

	DeliverResult vault.DeliverResult
	DeliverErr    error
}

var _ vault.Handler = (*Handler)(nil)

func (h *Handler) Check(vault.Context, vault.KVStore, vault.Tx) (*vault.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(vault.Context, vault.KVStore, vault.Tx) (*vault.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// WriteHandler stores Key/Value in both phases and then fails with Err, if
// set. It is used to test that failed transactions are rolled back.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ vault.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(_ vault.Context, db vault.KVStore, _ vault.Tx) (*vault.CheckResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(_ vault.Context, db vault.KVStore, _ vault.Tx) (*vault.DeliverResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{}, nil
}

func (h *WriteHandler) write(db vault.KVStore) error {
	if err := db.Set(h.Key, h.Value); err != nil {
		return err
	}
	return h.Err
}

// PanicHandler panics with Value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ vault.Handler = PanicHandler{}

func (p PanicHandler) Check(vault.Context, vault.KVStore, vault.Tx) (*vault.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(vault.Context, vault.KVStore, vault.Tx) (*vault.DeliverResult, error) {
	panic(p.Value)
}
