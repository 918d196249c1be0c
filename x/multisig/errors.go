package multisig

import (
	"github.com/iov-one/vault/errors"
)

// multisig takes 1030-1033
var (
	ErrAlreadyVoted     = errors.Register(1030, "already voted")
	ErrNotApproved      = errors.Register(1031, "not approved")
	ErrAlreadyFulfilled = errors.Register(1032, "already fulfilled")
	ErrTransferFailed   = errors.Register(1033, "transfer failed")
)
