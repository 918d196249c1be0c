package vaulttest

import (
	"context"
	"fmt"

	"github.com/iov-one/vault"
)

// Auth is an x.Authenticator that always authenticates the same
// conditions. Signer is a shortcut for a single signer and is listed last.
type Auth struct {
	Signer  vault.Condition
	Signers []vault.Condition
}

func (a *Auth) GetConditions(vault.Context) []vault.Condition {
	conds := append([]vault.Condition(nil), a.Signers...)
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

func (a *Auth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	return anyAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator that reads the conditions from the context.
// Use SetConditions to authenticate signers for a single call.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx vault.Context, conds ...vault.Condition) vault.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx vault.Context) []vault.Condition {
	switch val := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []vault.Condition:
		return val
	default:
		panic(fmt.Sprintf("context value %q: want []vault.Condition, got %T", a.Key, val))
	}
}

func (a *CtxAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	return anyAddress(a.GetConditions(ctx), addr)
}

func anyAddress(conds []vault.Condition, addr vault.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
