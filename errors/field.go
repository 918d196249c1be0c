package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field marks err as caused by the named attribute of a message or model.
// Use Go names, with dots for nesting, for example Administrators.2. Nil
// errors stay nil.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

// FieldErrors returns the errors of err that were created for the named
// field. Collections are searched recursively.
func FieldErrors(err error, name string) []error {
	if isNilErr(err) {
		return nil
	}
	if u, ok := err.(unpacker); ok {
		var found []error
		for _, inner := range u.Unpack() {
			found = append(found, FieldErrors(inner, name)...)
		}
		return found
	}
	for e := err; e != nil; {
		if f, ok := e.(*fieldError); ok && f.field == name {
			return []error{e}
		}
		c, ok := e.(causer)
		if !ok {
			break
		}
		e = c.Cause()
	}
	return nil
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	msg := fmt.Sprintf("field %q: ", e.field)
	if e.desc != "" {
		msg += e.desc + ": "
	}
	return msg + e.parent.Error()
}

func (e *fieldError) Cause() error { return e.parent }

// Field returns the attribute name.
func (e *fieldError) Field() string { return e.field }
