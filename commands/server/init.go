package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/vault/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line arguments to generate the app_state
// for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the genesis file inside of the
// home directory, as tendermint lays it out.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the app_state produced by gen into the genesis file of
// the given home directory. A missing genesis file is created. An already
// present app_state is only replaced when force is set.
func InitCmd(gen GenOptions, logger log.Logger, home string, force bool, args []string) error {
	genFile := GenesisPath(home)

	doc, err := loadGenesisDoc(genFile)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = GenesisDoc{}
		chainID, _ := json.Marshal(fmt.Sprintf("vault-%s", cmn.RandStr(6)))
		doc["chain_id"] = chainID
		genTime, _ := json.Marshal(time.Now().UTC())
		doc["genesis_time"] = genTime
		logger.Info("Creating genesis file", "path", genFile)
	}
	if state, ok := doc["app_state"]; ok && !isEmptyJSON(state) && !force {
		return errors.Wrapf(errors.ErrImmutable, "app_state already set in %s", genFile)
	}

	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "cannot generate app_state")
	}
	doc["app_state"] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// loadGenesisDoc returns nil and no error if the file does not exist.
func loadGenesisDoc(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return doc, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := string(raw)
	return s == "" || s == "null" || s == "{}"
}
