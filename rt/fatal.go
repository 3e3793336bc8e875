package rt

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Fatal conditions
// ---------------------------------------------------------------------------

// FatalKind identifies why an invocation was forced to exit.
type FatalKind int

const (
	// OutOfEnergy means the energy ledger went negative.
	OutOfEnergy FatalKind = iota + 1
	// OutOfStack means a stack limit was exceeded or the stack bookkeeping
	// is corrupt.
	OutOfStack
	// HostFatalError means the host raised an unrecoverable condition.
	HostFatalError
)

// String returns a lower-case description of k.
func (k FatalKind) String() string {
	switch k {
	case OutOfEnergy:
		return "out of energy"
	case OutOfStack:
		return "out of stack"
	case HostFatalError:
		return "host fatal error"
	default:
		return fmt.Sprintf("FatalKind(%d)", int(k))
	}
}

// Sentinels for errors.Is against a *Fatal.
var (
	ErrOutOfEnergy = errors.New("out of energy")
	ErrOutOfStack  = errors.New("out of stack")
	ErrHostFatal   = errors.New("host fatal error")
)

// ErrInternal marks internal-consistency violations: a broken embedding of
// the runtime rather than anything the contract did.
var ErrInternal = errors.New("rt: internal consistency violation")

// Fatal is a terminal condition of the current invocation. Once latched it
// is returned by every guarded entry point until a snapshot restore or a
// fresh invocation clears it. Fatal values are never catchable by contract
// code.
type Fatal struct {
	Kind  FatalKind
	Cause error // host cause for HostFatalError, detail otherwise
}

// Error implements error.
func (f *Fatal) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("rt: %s: %v", f.Kind, f.Cause)
	}
	return "rt: " + f.Kind.String()
}

// Unwrap returns the cause.
func (f *Fatal) Unwrap() error { return f.Cause }

// Is matches the sentinel for the fatal kind.
func (f *Fatal) Is(target error) bool {
	switch target {
	case ErrOutOfEnergy:
		return f.Kind == OutOfEnergy
	case ErrOutOfStack:
		return f.Kind == OutOfStack
	case ErrHostFatal:
		return f.Kind == HostFatalError
	}
	return false
}

// IsFatal reports whether err carries a *Fatal.
func IsFatal(err error) bool {
	var f *Fatal
	return errors.As(err, &f)
}

func internalError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternal}, args...)...)
}
