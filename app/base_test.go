package app

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/utils"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// pathDecoder builds a transaction routed to the path given as raw bytes.
func pathDecoder(raw []byte) (vault.Tx, error) {
	switch string(raw) {
	case "":
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	case "panic":
		panic("cannot decode")
	}
	return &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: string(raw)}}, nil
}

func TestBaseApp(t *testing.T) {
	r := NewRouter()
	r.Handle("test/write", &vaulttest.WriteHandler{
		Key:   []byte("written"),
		Value: []byte("yes"),
	})
	r.Handle("test/fail", &vaulttest.WriteHandler{
		Key:   []byte("failed"),
		Value: []byte("yes"),
		Err:   errors.ErrUnauthorized,
	})
	handler := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)

	qr := vault.NewQueryRouter()
	qr.RegisterAll(orm.RegisterQuery)
	store := NewStoreApp("vault-test", iavl.NewMemCommitStore(), qr, context.Background())
	base := NewBaseApp(store, pathDecoder, handler, false)

	base.InitChain(abci.RequestInitChain{ChainId: "vault-chain", AppStateBytes: []byte(`{}`)})
	base.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	chres := base.CheckTx([]byte("test/write"))
	require.Equal(t, uint32(0), chres.Code, chres.Log)

	chres = base.CheckTx([]byte("test/missing"))
	require.Equal(t, errors.ErrNotFound.ABCICode(), chres.Code)

	chres = base.CheckTx(nil)
	require.Equal(t, errors.ErrInput.ABCICode(), chres.Code)

	dres := base.DeliverTx([]byte("panic"))
	require.NotEqual(t, uint32(0), dres.Code)

	dres = base.DeliverTx([]byte("test/fail"))
	require.Equal(t, errors.ErrUnauthorized.ABCICode(), dres.Code)

	dres = base.DeliverTx([]byte("test/write"))
	require.Equal(t, uint32(0), dres.Code, dres.Log)

	base.EndBlock(abci.RequestEndBlock{})
	base.Commit()

	// Only the successful delivery is persisted.
	abciStore := NewABCIStore(base)
	val, err := abciStore.Get([]byte("written"))
	require.NoError(t, err)
	require.Equal(t, []byte("yes"), val)

	has, err := abciStore.Has([]byte("failed"))
	require.NoError(t, err)
	require.False(t, has)

	itr, err := abciStore.Iterator(nil, nil)
	require.NoError(t, err)
	defer itr.Release()
	var keys []string
	for {
		k, _, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		keys = append(keys, string(k))
	}
	require.Equal(t, []string{chainIDKey, "written"}, keys)
}
