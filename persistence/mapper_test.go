package persistence

import (
	"testing"

	"github.com/chazu/shadowvm/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userClasses = []string{
	"org/shadowvm/user/com/example/Token",
	"org/shadowvm/user/com/example/Token$Ledger",
}

func newMapper(t *testing.T) *StandardNameMapper {
	t.Helper()
	m, err := NewStandardNameMapper(userClasses, false)
	require.NoError(t, err)
	return m
}

func TestStorageNames(t *testing.T) {
	m := newMapper(t)
	tests := []struct {
		internal string
		storage  string
	}{
		{"org.shadowvm.user.com.example.Token", "com.example.Token"},
		{"org.shadowvm.user.com.example.Token$Ledger", "com.example.Token$Ledger"},
		{"org.shadowvm.shadow.java.lang.String", "java.lang.String"},
		{"org.shadowvm.shadow.java.math.BigInteger", "java.math.BigInteger"},
		{"org.shadowvm.shadowapi.org.shadowvm.api.Address", "org.shadowvm.api.Address"},
		{"org.shadowvm.arraywrapper.IntArray", "[I"},
		{"org.shadowvm.arraywrapper.$$J", "[[J"},
		{"org.shadowvm.arraywrapper.$Lorg.shadowvm.user.com.example.Token", "[Lcom.example.Token"},
	}
	for _, tt := range tests {
		t.Run(tt.storage, func(t *testing.T) {
			got, err := m.StorageClassName(tt.internal)
			require.NoError(t, err)
			assert.Equal(t, tt.storage, got)

			back, err := m.InternalClassName(tt.storage)
			require.NoError(t, err)
			assert.Equal(t, tt.internal, back)
		})
	}
}

func TestObjectArraySupertypeIsOneWay(t *testing.T) {
	m := newMapper(t)
	storage, err := m.StorageClassName("org.shadowvm.arraywrapper.ObjectArray")
	require.NoError(t, err)
	assert.Equal(t, "[Ljava.lang.Object", storage)

	internal, err := m.InternalClassName(storage)
	require.NoError(t, err)
	assert.Equal(t, "org.shadowvm.arraywrapper.$Lorg.shadowvm.shadow.java.lang.Object", internal)
}

func TestProhibitedNamesNeverReachStorage(t *testing.T) {
	m := newMapper(t)

	_, err := m.StorageClassName("org.shadowvm.exceptionwrapper.java.lang.Throwable")
	assert.ErrorIs(t, err, naming.ErrProhibitedCategory)

	_, err = m.StorageClassName("org.shadowvm.arraywrapper.interface._Lorg.shadowvm.user.com.example.Token")
	assert.ErrorIs(t, err, naming.ErrProhibitedCategory)

	_, err = m.StorageClassName("org.shadowvm.arraywrapper.IArray")
	assert.ErrorIs(t, err, naming.ErrAmbiguousName)

	_, err = m.InternalClassName("com.example.Unknown")
	assert.ErrorIs(t, err, naming.ErrUnrecognizedName)
}

func TestMapperCachesSuccessesOnly(t *testing.T) {
	m, err := NewStandardNameMapperSize(userClasses, false, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := m.StorageClassName("org.shadowvm.user.com.example.Token")
		require.NoError(t, err)
	}
	_, err = m.StorageClassName("org.shadowvm.user.com.example.Missing")
	require.Error(t, err)
	storage, internal := m.Cached()
	assert.Equal(t, 1, storage)
	assert.Zero(t, internal)

	for _, n := range []string{"[I", "[J", "[D"} {
		_, err := m.InternalClassName(n)
		require.NoError(t, err)
	}
	_, internal = m.Cached()
	assert.Equal(t, 2, internal, "bounded by cache size")
}

func TestDebugMapperKeepsUserNames(t *testing.T) {
	m, err := NewStandardNameMapper([]string{"com/example/Token"}, true)
	require.NoError(t, err)

	got, err := m.InternalClassName("com.example.Token")
	require.NoError(t, err)
	assert.Equal(t, "com.example.Token", got)
}

func TestMapperRejectsBadInput(t *testing.T) {
	_, err := NewStandardNameMapper([]string{"com/example/Token"}, false)
	assert.ErrorIs(t, err, naming.ErrInvalidName)

	_, err = NewStandardNameMapperSize(userClasses, false, 0)
	assert.Error(t, err)
}
