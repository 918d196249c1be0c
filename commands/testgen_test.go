package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/vault"
	"github.com/stretchr/testify/require"
)

func TestTestGenCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "testgen")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	meta := &vault.Metadata{Schema: 1}
	examples := []Example{
		{Filename: "metadata", Obj: binaryMetadata{meta}},
	}
	out := filepath.Join(dir, "out")
	require.NoError(t, TestGenCmd(examples, []string{out}))

	js, err := ioutil.ReadFile(filepath.Join(out, "metadata.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"schema": 1}`, string(js))

	bin, err := ioutil.ReadFile(filepath.Join(out, "metadata.bin"))
	require.NoError(t, err)
	var loaded vault.Metadata
	require.NoError(t, vault.UnmarshalBinary(bin, &loaded))
	require.Equal(t, *meta, loaded)
}

type binaryMetadata struct {
	*vault.Metadata
}

func (m binaryMetadata) Marshal() ([]byte, error) {
	return vault.MarshalBinary(m.Metadata)
}
