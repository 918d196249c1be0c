/*
Package vault defines all common interfaces shared by the
subpackages of the multisig vault, as well as implementations
of some of the simpler components (when interfaces would be
too much overhead).

The vault holds funds on behalf of a fixed set of
administrators. Anyone may propose a transfer out of the
vault, every administrator must approve it, and once the
quorum is reached the transfer can be executed exactly once.
The state machine lives in x/multisig, the funds in x/cash,
and the app package exposes everything as an ABCI application.

We pass context through context.Context between
app, middleware, and handlers. To do so, vault defines
some common keys to store info, such as block height and
chain id. Each extension, such as sigs, may add its own
keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set
to avoid lower-level modules overwriting the value
(eg. height, header)
*/
package vault

// Version is the version of the application binary. It is set at build
// time with -ldflags "-X github.com/iov-one/vault.Version=..."
var Version = "dev"
