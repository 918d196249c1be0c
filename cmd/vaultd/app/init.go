package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// initialFunds is issued at genesis to the first administrator, so that
// the vault can be funded right away.
const initialFunds uint64 = 1000000

type multisigGenesis struct {
	Administrators []vault.Address `json:"administrators"`
}

type appState struct {
	Cash     []cash.GenesisAccount `json:"cash"`
	Multisig multisigGenesis       `json:"multisig"`
}

// GenInitOptions produces the genesis app_state. Every argument is the
// address of an administrator. When no address is given a new key is
// generated, printed out and used as the only administrator.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var admins []vault.Address
	for _, enc := range args {
		addr, err := vault.ParseAddress(enc)
		if err != nil {
			return nil, errors.Wrapf(err, "administrator %q", enc)
		}
		admins = append(admins, addr)
	}
	if len(admins) == 0 {
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		admins = append(admins, addr)
	}

	// The roster is checked the same way it is on chain start.
	if _, err := multisig.NewAdministratorSet(admins...); err != nil {
		return nil, err
	}

	state := appState{
		Cash: []cash.GenesisAccount{
			{Address: admins[0], Amount: initialFunds},
		},
		Multisig: multisigGenesis{Administrators: admins},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Initializers returns all genesis initializers of the application.
func Initializers() vault.Initializer {
	return vault.ChainInitializers(
		cash.Initializer{},
		multisig.Initializer{},
	)
}

// GenerateApp builds the node application. The state is kept under home,
// or in memory when home is empty. Engine metrics are registered with reg
// unless it is nil.
func GenerateApp(home string, logger log.Logger, reg prometheus.Registerer, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "vault.db")
	}

	var metrics *multisig.Metrics
	if reg != nil {
		var err error
		if metrics, err = multisig.NewMetrics(reg); err != nil {
			return nil, errors.Wrap(errors.ErrHuman, err.Error())
		}
	}

	node, err := Application("vault", Stack(metrics), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	node.WithInit(Initializers())
	node.WithLogger(logger)
	return node, nil
}

// keyFile is the printed form of a freshly generated key pair.
type keyFile struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey creates a new ed25519 key. It returns the address of
// the key and the key pair as indented JSON.
func GenerateCoinKey() (vault.Address, string, error) {
	priv := crypto.GenPrivKeyEd25519()
	kf := keyFile{Pubkey: priv.PublicKey(), Secret: priv}
	raw, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return kf.Pubkey.Address(), string(raw), nil
}
