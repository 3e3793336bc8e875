package rt

import (
	"errors"

	"github.com/chazu/shadowvm/naming"
)

// ---------------------------------------------------------------------------
// Exception bridging
// ---------------------------------------------------------------------------

// UnwrapThrowable converts a value caught at the sandbox boundary into the
// sandbox object contract code may handle.
//
// A *Fatal passes through unchanged and host fatal errors latch
// HostFatalError; both come back as the error result and are never catchable.
// A SandboxThrowable yields the object it carries. A *HostException is
// rebuilt as a shadow exception, cause chain included. An empty host message
// becomes a nil sandbox message.
func (r *Runtime) UnwrapThrowable(thrown error) (Object, error) {
	if f := r.state.forcedExit; f != nil {
		return nil, f
	}
	if thrown == nil {
		return nil, internalError("unwrap of nil throwable")
	}
	var f *Fatal
	if errors.As(thrown, &f) {
		return nil, f
	}
	if isHostFatal(thrown) {
		return nil, r.latch(&Fatal{Kind: HostFatalError, Cause: thrown})
	}
	var st SandboxThrowable
	if errors.As(thrown, &st) {
		obj := st.Wrapped()
		if obj == nil {
			return nil, internalError("exception wrapper %T carries no object", st)
		}
		return obj, nil
	}
	var he *HostException
	if errors.As(thrown, &he) {
		return r.shadowException(he)
	}
	return nil, internalError("unexpected throwable %T: %v", thrown, thrown)
}

func (r *Runtime) shadowException(he *HostException) (Object, error) {
	if r.state.loader == nil {
		return nil, internalError("unwrap on an uninitialized runtime")
	}
	var cause Object
	if he.Cause != nil {
		c, err := r.shadowException(he.Cause)
		if err != nil {
			return nil, err
		}
		cause = c
	}
	name := r.renamer.Style().Normalize(he.Class)
	c, err := r.renamer.ClassifyPreRename(name, naming.NoArrayType)
	if err != nil {
		return nil, internalError("host exception %s: %v", he.Class, err)
	}
	if c != naming.RuntimeLibraryException {
		return nil, internalError("host exception %s is %s", he.Class, c)
	}
	shadow, err := r.renamer.ToPostRename(name, naming.NoArrayType)
	if err != nil {
		return nil, internalError("host exception %s: %v", he.Class, err)
	}
	factory, ok := r.state.loader.ShadowThrowable(shadow)
	if !ok {
		return nil, internalError("no shadow class for %s", shadow)
	}
	var message *String
	if he.Message != "" {
		message = r.NewString(he.Message)
	}
	return factory(message, cause), nil
}

// WrapAsThrowable returns the exception wrapper that carries obj through
// host control flow. Only runtime-library and user objects can be thrown.
func (r *Runtime) WrapAsThrowable(obj Object) (SandboxThrowable, error) {
	if obj == nil {
		return nil, internalError("wrap of nil object")
	}
	if r.state.loader == nil {
		return nil, internalError("wrap on an uninitialized runtime")
	}
	name := r.renamer.Style().Normalize(obj.ClassName())
	c, err := r.renamer.ClassifyPostRename(name)
	if err != nil {
		return nil, internalError("wrap %s: %v", name, err)
	}
	if !c.IsRuntimeLibrary() && c != naming.UserDefinedClass {
		return nil, internalError("wrap %s: %s objects cannot be thrown", name, c)
	}
	original, err := r.renamer.ToPreRename(name)
	if err != nil {
		return nil, internalError("wrap %s: %v", name, err)
	}
	wrapper, err := r.renamer.ToExceptionWrapper(original)
	if err != nil {
		return nil, internalError("wrap %s: %v", name, err)
	}
	factory, ok := r.state.loader.ExceptionWrapper(wrapper)
	if !ok {
		return nil, internalError("no exception wrapper %s", wrapper)
	}
	return factory(obj), nil
}
