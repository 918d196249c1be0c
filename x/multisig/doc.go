/*
Package multisig implements a vault that pays out only after every
administrator approved the payment.

Anyone may propose a transfer under an index of their choice. Each
administrator can approve a proposal once. When all of them approved, the
proposal can be executed: the amount is moved from the vault account to the
recipient and the proposal is closed for good. A failed payment leaves the
proposal exactly as it was before the execution attempt.

The administrator roster is loaded from the genesis file and cannot be
changed afterwards.
*/
package multisig
