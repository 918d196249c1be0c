/*
Package cash keeps single asset balances of accounts and exposes them as the
ledger the vault pays out of.

Anyone can fund the vault by sending tokens to the vault account with a
SendMsg. Only the multisig engine moves tokens out of it, through Ledger.
*/
package cash
