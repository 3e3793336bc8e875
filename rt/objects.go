package rt

import (
	"errors"
	"fmt"
	"runtime"
)

// ---------------------------------------------------------------------------
// Sandbox object model
// ---------------------------------------------------------------------------

// Object is a value of the sandboxed (post-rename) type hierarchy.
type Object interface {
	// ClassName is the post-rename class name of the value.
	ClassName() string
}

// Class is a host class handle. Implementations must be comparable (pointer
// types in practice) because class wrappers are interned by identity.
type Class interface {
	// Name is the host class name.
	Name() string
}

// ClassWrapper is the sandbox view of a host class.
type ClassWrapper struct {
	className string
	class     Class
}

// ClassName implements Object.
func (w *ClassWrapper) ClassName() string { return w.className }

// Underlying returns the wrapped host class.
func (w *ClassWrapper) Underlying() Class { return w.class }

// String is a sandbox string value.
type String struct {
	className string
	value     string
}

// ClassName implements Object.
func (s *String) ClassName() string { return s.className }

// Value returns the host string.
func (s *String) Value() string { return s.value }

// String returns the host string.
func (s *String) String() string { return s.value }

// Throwable is a sandbox exception value of a runtime-library or user
// exception class.
type Throwable struct {
	Class   string  // post-rename class name
	Message *String // may be nil
	Cause   Object  // may be nil
}

// ClassName implements Object.
func (t *Throwable) ClassName() string { return t.Class }

// ---------------------------------------------------------------------------
// Values crossing the boundary
// ---------------------------------------------------------------------------

// SandboxThrowable is an error raised by instrumented code: an exception
// wrapper carrying a sandbox object so it can travel through host control
// flow.
type SandboxThrowable interface {
	error
	// Wrapped returns the sandbox object the wrapper carries.
	Wrapped() Object
}

// WrappedObject is the standard exception wrapper.
type WrappedObject struct {
	Class  string // exception wrapper class name
	Object Object
}

// Error names the wrapper and the class of the carried object.
func (w *WrappedObject) Error() string {
	if w.Object == nil {
		return w.Class
	}
	return fmt.Sprintf("%s: %s", w.Class, w.Object.ClassName())
}

// Wrapped implements SandboxThrowable.
func (w *WrappedObject) Wrapped() Object { return w.Object }

// HostException is an ordinary exception raised natively by the host
// environment, for example by an arithmetic or array-index check. Class is
// the pre-rename runtime-library exception name.
type HostException struct {
	Class string
	// Message is the detail message. The host does not distinguish an empty
	// message from a missing one, so "" converts to a nil sandbox message.
	Message string
	Cause   *HostException
}

// Error returns the class name and the message, if any.
func (e *HostException) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return e.Class + ": " + e.Message
}

// Unwrap returns the cause, if any.
func (e *HostException) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// HostFatal marks host conditions no invocation may recover from, such as
// the host running out of memory.
type HostFatal interface {
	error
	HostFatal()
}

// VirtualMachineError is the standard HostFatal value.
type VirtualMachineError struct {
	Reason string
}

// Error implements error.
func (e *VirtualMachineError) Error() string { return "virtual machine error: " + e.Reason }

// HostFatal implements HostFatal.
func (*VirtualMachineError) HostFatal() {}

// isHostFatal reports whether err is an unrecoverable host condition. Go
// runtime panics surfacing from host code count as host fatal.
func isHostFatal(err error) bool {
	var hf HostFatal
	if errors.As(err, &hf) {
		return true
	}
	var re runtime.Error
	return errors.As(err, &re)
}
