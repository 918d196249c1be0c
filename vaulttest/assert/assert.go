// Package assert extends testify with checks for the registered vault
// errors. Every check stops the test on failure.
package assert

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/require"
)

// Nil requires value to be nil. Typed nil pointers are nil too.
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	require.Nil(t, value, "%+v", value)
}

// Equal requires both values to be deeply equal.
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	require.Equal(t, want, got)
}

// Panics requires fn to panic.
func Panics(t testing.TB, fn func()) {
	t.Helper()
	require.Panics(t, fn)
}

// IsErr requires got to be, or to wrap, want. A nil want, including a nil
// *errors.Error, only matches a nil got.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if matches(want, got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}

func matches(want, got error) bool {
	if want == got {
		return true
	}
	if e, ok := want.(interface{ Is(error) bool }); ok {
		return e.Is(got)
	}
	return false
}

// FieldError requires err to carry exactly one error for the given field,
// matching want. With a nil want the field must have no error at all.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()

	found := errors.FieldErrors(err, field)
	if want == nil {
		if len(found) != 0 {
			t.Fatalf("want no %q field error, got %q", field, found)
		}
		return
	}
	if len(found) != 1 {
		t.Fatalf("want one %q field error, got %d: %q", field, len(found), found)
	}
	if !want.Is(found[0]) {
		t.Fatalf("want %q field error to be %q, got %q", field, want, found[0])
	}
}
