// Package persistence maps class names between the internal (post-rename)
// form used by running contracts and the storage form written to the
// account store, and encodes the class manifest kept with deployed code.
package persistence

import (
	"fmt"

	"github.com/chazu/shadowvm/naming"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("shadowvm.persistence")

// DefaultCacheSize bounds each direction's memoization cache.
const DefaultCacheSize = 4096

// NameMapper translates class names for storage.
type NameMapper interface {
	// StorageClassName returns the storage name of an internal class name.
	StorageClassName(internalName string) (string, error)
	// InternalClassName returns the internal class name of a storage name.
	InternalClassName(storageName string) (string, error)
}

// StandardNameMapper is the NameMapper used for contract storage. Names are
// dot style. Exception wrappers and unifying arrays never reach storage and
// are rejected. It is safe for concurrent use.
type StandardNameMapper struct {
	renamer *naming.Renamer
	// The directions are cached separately: the handwritten object-array
	// supertypes make the mapping many-to-one.
	storage  *lru.Cache[string, string] // internal -> storage
	internal *lru.Cache[string, string] // storage -> internal
}

// NewStandardNameMapper builds the mapper for a contract whose user classes
// are given post-rename, in either style.
func NewStandardNameMapper(postRenameUserClasses []string, preserveDebugInfo bool) (*StandardNameMapper, error) {
	return NewStandardNameMapperSize(postRenameUserClasses, preserveDebugInfo, DefaultCacheSize)
}

// NewStandardNameMapperSize is NewStandardNameMapper with an explicit cache
// size.
func NewStandardNameMapperSize(postRenameUserClasses []string, preserveDebugInfo bool, cacheSize int) (*StandardNameMapper, error) {
	r, err := naming.NewBuilder(naming.DotStyle, preserveDebugInfo).
		LoadPostRenameUserClasses(postRenameUserClasses).
		LoadPreRenameRuntimeExceptions(naming.StandardExceptions()).
		ProhibitExceptionWrappers().
		ProhibitUnifyingArrays().
		Build()
	if err != nil {
		return nil, fmt.Errorf("persistence: build renamer: %w", err)
	}
	storage, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("persistence: cache: %w", err)
	}
	internal, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("persistence: cache: %w", err)
	}
	log.Debug("name mapper ready", "users", len(postRenameUserClasses), "debug", preserveDebugInfo)
	return &StandardNameMapper{renamer: r, storage: storage, internal: internal}, nil
}

// Renamer returns the underlying renamer.
func (m *StandardNameMapper) Renamer() *naming.Renamer { return m.renamer }

// StorageClassName implements NameMapper.
func (m *StandardNameMapper) StorageClassName(internalName string) (string, error) {
	if name, ok := m.storage.Get(internalName); ok {
		return name, nil
	}
	name, err := m.renamer.ToPreRename(internalName)
	if err != nil {
		return "", fmt.Errorf("persistence: storage name: %w", err)
	}
	m.storage.Add(internalName, name)
	return name, nil
}

// InternalClassName implements NameMapper. Arrays map to precise wrappers.
func (m *StandardNameMapper) InternalClassName(storageName string) (string, error) {
	if name, ok := m.internal.Get(storageName); ok {
		return name, nil
	}
	name, err := m.renamer.ToPostRename(storageName, naming.PreciseType)
	if err != nil {
		return "", fmt.Errorf("persistence: internal name: %w", err)
	}
	m.internal.Add(storageName, name)
	return name, nil
}

// Cached returns the number of memoized names in each direction.
func (m *StandardNameMapper) Cached() (storage, internal int) {
	return m.storage.Len(), m.internal.Len()
}
