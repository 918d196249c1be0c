// Package x holds what is shared by the application extensions. Every
// extension receives an Authenticator instead of reading the signatures
// itself, so the signature scheme can be replaced.
package x

import "github.com/iov-one/vault"

// Authenticator tells which conditions, and so which addresses, have
// authorized the current transaction.
type Authenticator interface {
	GetConditions(vault.Context) []vault.Condition
	HasAddress(vault.Context, vault.Address) bool
}

// MultiAuth accepts a condition if any of its authenticators does.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth combines authenticators. Conditions are reported in the order
// of the authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetConditions(ctx vault.Context) []vault.Condition {
	var conds []vault.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated condition, or nil. Its
// address is the identity of the caller, for example the proposer of a
// payment or the administrator approving it.
func MainSigner(ctx vault.Context, auth Authenticator) vault.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
