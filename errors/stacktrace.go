package errors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the stack trace of the first error in the chain that
// carries one, or nil.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return nil
}

// Frames of this package, other than its tests, and of the runtime are
// not interesting to the reader of a trace. Functions are matched by name,
// so the result does not depend on where the sources are checked out.
const pkgPrefix = "github.com/iov-one/vault/errors."

func isInner(f errors.Frame) bool {
	name := funcName(f)
	if strings.HasPrefix(name, pkgPrefix) {
		return !strings.HasPrefix(name[len(pkgPrefix):], "Test")
	}
	return isRuntime(f)
}

func isRuntime(f errors.Frame) bool {
	return strings.HasPrefix(funcName(f), "runtime.")
}

// trimInternal cuts the frames of this package and of the runtime, so that
// the trace starts where the error was created.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && isInner(st[0]) {
		st = st[1:]
	}
	for len(st) > 1 && isRuntime(st[len(st)-1]) {
		st = st[:len(st)-1]
	}
	return st
}

func funcName(f errors.Frame) string {
	if fn := runtime.FuncForPC(uintptr(f) - 1); fn != nil {
		return fn.Name()
	}
	return ""
}

// fileLine decodes a frame the same way pkg/errors does.
func fileLine(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

// shortFrame returns the frame location as " [repo/path/file.go:line]".
func shortFrame(f errors.Frame) string {
	file, line := fileLine(f)
	if i := strings.Index(file, "github.com/"); i >= 0 {
		file = file[i+len("github.com/"):]
	}
	return fmt.Sprintf(" [%s:%d]", file, line)
}

// Format prints the message for %s. %v adds the location where the error
// was created and %+v the whole stack trace.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	stack := trimInternal(stackTrace(e))
	switch {
	case s.Flag('+'):
		fmt.Fprintf(s, "%+v\n%s", stack, e.Error())
	case len(stack) > 0:
		fmt.Fprint(s, e.Error()+shortFrame(stack[0]))
	default:
		fmt.Fprint(s, e.Error())
	}
}
