package rt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userObject struct{ class string }

func (o *userObject) ClassName() string { return o.class }

func TestUnwrapHostFatal(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	cause := &VirtualMachineError{Reason: "heap exhausted"}

	obj, err := vm.UnwrapThrowable(cause)
	assert.Nil(t, obj)
	require.ErrorIs(t, err, ErrHostFatal)
	var vme *VirtualMachineError
	require.ErrorAs(t, err, &vme)
	assert.Same(t, cause, vme)

	assert.ErrorIs(t, vm.ChargeEnergy(0), ErrHostFatal)
	assert.ErrorIs(t, vm.EnterMethod(0), ErrHostFatal)
}

func TestUnwrapGoRuntimePanicIsHostFatal(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	recovered := func() (err error) {
		defer func() { err = recover().(error) }()
		var m map[string]int
		m["x"] = 1
		return nil
	}()

	_, err := vm.UnwrapThrowable(recovered)
	assert.ErrorIs(t, err, ErrHostFatal)
}

func TestUnwrapFatalPassesThrough(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	f := &Fatal{Kind: OutOfEnergy}

	_, err := vm.UnwrapThrowable(fmt.Errorf("nested call: %w", f))
	assert.Same(t, f, err)
	assert.Nil(t, vm.ForcedExit(), "a foreign fatal is not latched here")
}

func TestUnwrapSandboxThrowable(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	tok := &userObject{class: "org.shadowvm.user.com.example.TokenError"}
	w := &WrappedObject{Class: "org.shadowvm.exceptionwrapper.com.example.TokenError", Object: tok}

	obj, err := vm.UnwrapThrowable(w)
	require.NoError(t, err)
	assert.Same(t, tok, obj)

	obj, err = vm.UnwrapThrowable(fmt.Errorf("invoke: %w", w))
	require.NoError(t, err)
	assert.Same(t, tok, obj)

	_, err = vm.UnwrapThrowable(&WrappedObject{Class: "x"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUnwrapHostExceptionConvertsCauseChain(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	thrown := &HostException{
		Class:   "java.lang.IllegalStateException",
		Message: "bad state",
		Cause:   &HostException{Class: "java.lang.ArithmeticException", Message: "/ by zero"},
	}

	obj, err := vm.UnwrapThrowable(thrown)
	require.NoError(t, err)
	th, ok := obj.(*Throwable)
	require.True(t, ok)
	assert.Equal(t, "org.shadowvm.shadow.java.lang.IllegalStateException", th.ClassName())
	require.NotNil(t, th.Message)
	assert.Equal(t, "bad state", th.Message.Value())
	assert.Equal(t, "org.shadowvm.shadow.java.lang.String", th.Message.ClassName())

	cause, ok := th.Cause.(*Throwable)
	require.True(t, ok)
	assert.Equal(t, "org.shadowvm.shadow.java.lang.ArithmeticException", cause.ClassName())
	assert.Equal(t, "/ by zero", cause.Message.Value())
	assert.Nil(t, cause.Cause)
}

func TestUnwrapHostExceptionSlashName(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	obj, err := vm.UnwrapThrowable(&HostException{Class: "java/lang/NullPointerException"})
	require.NoError(t, err)
	th := obj.(*Throwable)
	assert.Equal(t, "org.shadowvm.shadow.java.lang.NullPointerException", th.ClassName())
	assert.Nil(t, th.Message)
}

func TestUnwrapHostExceptionEmptyMessage(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	obj, err := vm.UnwrapThrowable(&HostException{
		Class:   "java.lang.IllegalStateException",
		Message: "",
		Cause:   &HostException{Class: "java.lang.ArithmeticException", Message: " "},
	})
	require.NoError(t, err)
	th := obj.(*Throwable)
	assert.Nil(t, th.Message)

	cause := th.Cause.(*Throwable)
	require.NotNil(t, cause.Message)
	assert.Equal(t, " ", cause.Message.Value())
}

func TestUnwrapRejectsUnexpected(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	tests := []struct {
		name   string
		thrown error
	}{
		{"plain error", errors.New("boom")},
		{"non exception class", &HostException{Class: "java.lang.String"}},
		{"unknown class", &HostException{Class: "com.unknown.Failure"}},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vm.UnwrapThrowable(tt.thrown)
			assert.ErrorIs(t, err, ErrInternal)
		})
	}
	assert.Nil(t, vm.ForcedExit())
}

func TestUnwrapMissingShadowFactory(t *testing.T) {
	r := testRenamer(t)
	vm, err := New(r, DefaultLimits())
	require.NoError(t, err)
	require.NoError(t, vm.Initialize(NewRegistry(), 10, InitialHashCode))

	_, err = vm.UnwrapThrowable(&HostException{Class: "java.lang.ArithmeticException"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestWrapAsThrowable(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	tests := []struct {
		name    string
		obj     Object
		wrapper string
	}{
		{
			"user class",
			&userObject{class: "org.shadowvm.user.com.example.TokenError"},
			"org.shadowvm.exceptionwrapper.com.example.TokenError",
		},
		{
			"shadow exception",
			&Throwable{Class: "org.shadowvm.shadow.java.lang.ArithmeticException"},
			"org.shadowvm.exceptionwrapper.java.lang.ArithmeticException",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := vm.WrapAsThrowable(tt.obj)
			require.NoError(t, err)
			w, ok := st.(*WrappedObject)
			require.True(t, ok)
			assert.Equal(t, tt.wrapper, w.Class)
			assert.Same(t, tt.obj, st.Wrapped())

			back, err := vm.UnwrapThrowable(st)
			require.NoError(t, err)
			assert.Same(t, tt.obj, back)
		})
	}
}

func TestWrapAsThrowableRejects(t *testing.T) {
	vm, _ := newTestRuntime(t, DefaultLimits(), 100)
	tests := []struct {
		name string
		obj  Object
	}{
		{"api class", &userObject{class: "org.shadowvm.shadowapi.org.shadowvm.api.Address"}},
		{"array", &userObject{class: "org.shadowvm.arraywrapper.IntArray"}},
		{"no wrapper registered", &userObject{class: "org.shadowvm.user.com.example.Token"}},
		{"unknown", &userObject{class: "com.unknown.Thing"}},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vm.WrapAsThrowable(tt.obj)
			assert.ErrorIs(t, err, ErrInternal)
		})
	}
}

func TestStandardRegistryRejectsWrongCategory(t *testing.T) {
	r := testRenamer(t)
	_, err := StandardRegistry(r, []string{"java.lang.String"}, nil)
	assert.Error(t, err)
	_, err = StandardRegistry(r, nil, []string{"java.lang.ArithmeticException"})
	assert.Error(t, err)

	reg, err := StandardRegistry(r, []string{"java/lang/Throwable"}, nil)
	require.NoError(t, err)
	_, ok := reg.ShadowThrowable("org.shadowvm.shadow.java.lang.Throwable")
	assert.True(t, ok)
	_, ok = reg.ExceptionWrapper("org.shadowvm.exceptionwrapper.java.lang.Throwable")
	assert.True(t, ok)
}

func TestFatalErrorStrings(t *testing.T) {
	assert.Equal(t, "rt: out of energy", (&Fatal{Kind: OutOfEnergy}).Error())
	f := &Fatal{Kind: HostFatalError, Cause: errors.New("oom")}
	assert.Equal(t, "rt: host fatal error: oom", f.Error())
	assert.False(t, errors.Is(f, ErrOutOfStack))
	assert.Equal(t, "FatalKind(9)", FatalKind(9).String())
}
