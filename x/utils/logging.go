package utils

import (
	"time"

	"github.com/iov-one/vault"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one log entry for every processed transaction. Failures
// are logged at error level, delivered transactions at info and checked
// transactions at debug level.
type Logging struct{}

var _ vault.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("tx check failed", "err", err)
	default:
		logger.Debug("tx checked", "log", res.Log, "gas", res.GasAllocated)
	}
	return res, err
}

func (Logging) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("tx delivery failed", "err", err)
	default:
		logger.Info("tx delivered", "log", res.Log, "tags", len(res.Tags))
	}
	return res, err
}

func txLogger(ctx vault.Context, tx vault.Tx, start time.Time) log.Logger {
	return vault.GetLogger(ctx).With(
		"path", vault.GetPath(tx),
		"elapsed_us", int64(time.Since(start)/time.Microsecond))
}
