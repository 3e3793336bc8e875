package rt

import (
	"fmt"

	"github.com/chazu/shadowvm/naming"
)

// ---------------------------------------------------------------------------
// Class loader: factory tables for boundary conversions
// ---------------------------------------------------------------------------

// ThrowableFactory constructs a sandbox exception of one shadow class from a
// message and an already converted cause.
type ThrowableFactory func(message *String, cause Object) Object

// WrapperFactory constructs the exception wrapper of one class around a
// sandbox object.
type WrapperFactory func(obj Object) SandboxThrowable

// ClassLoader resolves the generated classes the exception bridge needs.
// Names are in the renamer's style.
type ClassLoader interface {
	// ShadowThrowable returns the factory for a post-rename runtime-library
	// exception class.
	ShadowThrowable(shadowName string) (ThrowableFactory, bool)
	// ExceptionWrapper returns the factory for an exception wrapper class.
	ExceptionWrapper(wrapperName string) (WrapperFactory, bool)
}

// Registry is a ClassLoader backed by factory tables. It is filled once
// before an invocation starts and is read-only afterwards.
type Registry struct {
	throwables map[string]ThrowableFactory
	wrappers   map[string]WrapperFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		throwables: make(map[string]ThrowableFactory),
		wrappers:   make(map[string]WrapperFactory),
	}
}

// RegisterThrowable binds a shadow exception class to its factory.
func (r *Registry) RegisterThrowable(shadowName string, f ThrowableFactory) {
	r.throwables[shadowName] = f
}

// RegisterWrapper binds an exception wrapper class to its factory.
func (r *Registry) RegisterWrapper(wrapperName string, f WrapperFactory) {
	r.wrappers[wrapperName] = f
}

// ShadowThrowable implements ClassLoader.
func (r *Registry) ShadowThrowable(shadowName string) (ThrowableFactory, bool) {
	f, ok := r.throwables[shadowName]
	return f, ok
}

// ExceptionWrapper implements ClassLoader.
func (r *Registry) ExceptionWrapper(wrapperName string) (WrapperFactory, bool) {
	f, ok := r.wrappers[wrapperName]
	return f, ok
}

// NewThrowableFactory returns a factory producing *Throwable values of
// shadowName.
func NewThrowableFactory(shadowName string) ThrowableFactory {
	return func(message *String, cause Object) Object {
		return &Throwable{Class: shadowName, Message: message, Cause: cause}
	}
}

// NewWrapperFactory returns a factory producing *WrappedObject values of
// wrapperName.
func NewWrapperFactory(wrapperName string) WrapperFactory {
	return func(obj Object) SandboxThrowable {
		return &WrappedObject{Class: wrapperName, Object: obj}
	}
}

// StandardRegistry derives the factory tables from the renamer's category
// model. Every runtime-library exception gets a shadow factory and a
// wrapper factory; every user class listed in throwableUserClasses gets a
// wrapper factory. Names are pre-rename, in either style.
func StandardRegistry(r *naming.Renamer, runtimeExceptions, throwableUserClasses []string) (*Registry, error) {
	reg := NewRegistry()
	for _, name := range runtimeExceptions {
		name = r.Style().Normalize(name)
		c, err := r.ClassifyPreRename(name, naming.NoArrayType)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		if c != naming.RuntimeLibraryException {
			return nil, fmt.Errorf("registry: %s is %s, not a runtime-library exception", name, c)
		}
		shadow, err := r.ToPostRename(name, naming.NoArrayType)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		reg.RegisterThrowable(shadow, NewThrowableFactory(shadow))
		if err := registerWrapper(r, reg, name); err != nil {
			return nil, err
		}
	}
	for _, name := range throwableUserClasses {
		name = r.Style().Normalize(name)
		c, err := r.ClassifyPreRename(name, naming.NoArrayType)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		if c != naming.UserDefinedClass {
			return nil, fmt.Errorf("registry: %s is %s, not a user class", name, c)
		}
		if err := registerWrapper(r, reg, name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func registerWrapper(r *naming.Renamer, reg *Registry, preRename string) error {
	w, err := r.ToExceptionWrapper(preRename)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	reg.RegisterWrapper(w, NewWrapperFactory(w))
	return nil
}
