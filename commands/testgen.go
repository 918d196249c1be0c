package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Example is a sample object written as <Filename>.json and <Filename>.bin.
// Filename is a bare name without directory or extension.
type Example struct {
	Filename string
	Obj      vault.Marshaller
}

// TestGenCmd writes the JSON and binary encodings of every example, so
// that clients can test their codecs against them. The output directory
// is the first argument, "testdata" by default.
func TestGenCmd(examples []Example, args []string) error {
	dir := "testdata"
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	for _, ex := range examples {
		if err := writeExample(dir, ex); err != nil {
			return errors.Wrap(err, ex.Filename)
		}
	}
	return nil
}

func writeExample(dir string, ex Example) error {
	js, err := json.MarshalIndent(ex.Obj, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bin, err := ex.Obj.Marshal()
	if err != nil {
		return err
	}
	files := map[string][]byte{".json": js, ".bin": bin}
	for ext, content := range files {
		path := filepath.Join(dir, ex.Filename+ext)
		if err := ioutil.WriteFile(path, content, 0644); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}
