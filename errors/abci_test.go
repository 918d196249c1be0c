package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type selfCoded struct{}

func (selfCoded) ABCICode() uint32 { return 999 }
func (selfCoded) Error() string    { return "self coded" }

func TestABCIInfo(t *testing.T) {
	type response struct {
		code uint32
		log  string
	}

	cases := []struct {
		name  string
		err   error
		debug bool
		want  response
	}{
		{name: "nil", err: nil, want: response{SuccessABCICode, ""}},
		{name: "typed nil", err: (*Error)(nil), want: response{SuccessABCICode, ""}},
		{name: "root error", err: ErrUnauthorized, want: response{2, "unauthorized"}},
		{
			name: "wrapped twice",
			err:  Wrap(Wrapf(ErrNotFound, "proposal %d", 7), "approve"),
			want: response{3, "approve: proposal 7: not found"},
		},
		{
			name: "unregistered error is hidden",
			err:  Wrap(io.EOF, "read roster"),
			want: response{internalABCICode, internalABCILog},
		},
		{
			name:  "unregistered error in debug mode",
			err:   io.EOF,
			debug: true,
			want:  response{internalABCICode, "EOF"},
		},
		{
			name: "multi error takes the first code",
			err:  Append(ErrAmount, ErrNotFound),
			want: response{12, "2 errors occurred:\n\t* invalid amount\n\t* not found\n"},
		},
		{name: "own code", err: selfCoded{}, want: response{999, "self coded"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			assert.Equal(t, tc.want, response{code, log})
		})
	}
}
