/*
Package sigs authenticates transactions by their ed25519 signatures.

Every signer account keeps a sequence number. A signature is valid only
for the chain it was made for and only with the sequence the account
expects next, which is then incremented. This prevents replaying an
accepted transaction.

The sign bytes are

	version | len(chainID) | chainID | sequence         | payload
	4 bytes | uint8        | ascii   | int64 big endian | serialized tx

hashed with sha512 before signing.
*/
package sigs
