package app

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/commands"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
)

// Keys are fixed so that every run produces the same output. They are not
// secure, the only point is to check the encoding.
var (
	admin     = makePrivKey("1234567890")
	recipient = makePrivKey("F00BA411").PublicKey().Address()
)

// makePrivKey repeats the seed as long as needed to get 64 hex digits and
// uses the decoded value as the private key seed.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	addr := admin.PublicKey().Address()

	roster, err := multisig.NewAdministratorSet(addr)
	if err != nil {
		panic(err)
	}

	proposal := multisig.NewProposal(1, 100, recipient, addr)
	if _, err := proposal.RecordVote(addr, roster.QuorumSize()); err != nil {
		panic(err)
	}

	wallet := &cash.Wallet{
		Metadata: &vault.Metadata{Schema: 1},
		Amount:   150,
	}

	user := &sigs.UserData{
		Metadata: &vault.Metadata{Schema: 1},
		Pubkey:   admin.PublicKey(),
		Sequence: 17,
	}

	create := &multisig.CreateProposalMsg{
		Metadata:  &vault.Metadata{Schema: 1},
		Index:     1,
		Recipient: recipient,
		Amount:    100,
	}
	approve := &multisig.ApproveProposalMsg{
		Metadata: &vault.Metadata{Schema: 1},
		Index:    1,
	}
	execute := &multisig.ExecuteProposalMsg{
		Metadata: &vault.Metadata{Schema: 1},
		Index:    1,
	}
	send := &cash.SendMsg{
		Metadata:    &vault.Metadata{Schema: 1},
		Source:      addr,
		Destination: multisig.VaultAddress(),
		Amount:      250,
		Memo:        "Vault deposit",
	}

	unsigned, err := NewTx(create)
	if err != nil {
		panic(err)
	}
	tx := *unsigned
	sig, err := sigs.SignTx(admin, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "administrators", Obj: roster},
		{Filename: "proposal", Obj: proposal},
		{Filename: "wallet", Obj: wallet},
		{Filename: "user", Obj: user},
		{Filename: "create_proposal_msg", Obj: create},
		{Filename: "approve_proposal_msg", Obj: approve},
		{Filename: "execute_proposal_msg", Obj: execute},
		{Filename: "send_msg", Obj: send},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: &tx},
		{Filename: "priv_key", Obj: admin},
		{Filename: "pub_key", Obj: admin.PublicKey()},
	}
}
