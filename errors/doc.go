/*
Package errors provides the error values returned by the vault.

Each failure wraps a root error declared with Register. The root error
carries an ABCI code, which is what a client receives to tell failures
apart, for example an unauthorized approval from an already fulfilled
proposal. x/multisig registers the roots that only make sense for
proposals.

Wrap the root where the failure is detected:

	return errors.Wrapf(errors.ErrNotFound, "proposal %d", index)

The first wrap records a stack trace. Print the error with %+v to see it,
or with %v for the message and the file and line of origin.

Validation collects every problem of a model at once with Field, AppendField
and Append.
*/
package errors
