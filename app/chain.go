package app

import (
	"reflect"

	"github.com/iov-one/vault"
)

// Decorators is an ordered list of decorators waiting for the final
// handler. The first decorator is the outermost one.
type Decorators struct {
	chain []vault.Decorator
}

// ChainDecorators builds the middleware stack of an application. Nil
// decorators are skipped, so optional ones can be passed unconditionally:
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//     utils.NewSavepoint().OnDeliver(),
//   ).WithHandler(router)
func ChainDecorators(chain ...vault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new list with the given decorators appended.
func (d Decorators) Chain(chain ...vault.Decorator) Decorators {
	joined := make([]vault.Decorator, 0, len(d.chain)+len(chain))
	joined = append(joined, d.chain...)
	joined = append(joined, cutoffNil(chain)...)
	return Decorators{chain: joined}
}

// cutoffNil removes nil values, including typed nil pointers, in place.
func cutoffNil(ds []vault.Decorator) []vault.Decorator {
	kept := ds[:0]
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h vault.Handler) vault.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = layer{decorator: d.chain[i], next: h}
	}
	return h
}

// layer is a handler that runs one decorator around the rest of the stack.
type layer struct {
	decorator vault.Decorator
	next      vault.Handler
}

var _ vault.Handler = layer{}

func (l layer) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	return l.decorator.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	return l.decorator.Deliver(ctx, db, tx, l.next)
}
