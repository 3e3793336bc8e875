package persistence

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/shadowvm/naming"
	"github.com/fxamacker/cbor/v2"
)

// ManifestVersion is the current class manifest encoding version.
const ManifestVersion byte = 1

// ErrManifestVersion is returned for manifests of an unknown version.
var ErrManifestVersion = errors.New("persistence: unsupported manifest version")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("persistence: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ClassManifest is stored next to deployed code. It lists the contract's user
// classes in post-rename slash form and carries what is needed to rebuild
// the contract's name mapper.
type ClassManifest struct {
	Version   byte     `cbor:"1,keyasint"`
	MainClass string   `cbor:"2,keyasint"` // post-rename, slash style
	Classes   []string `cbor:"3,keyasint"` // post-rename, slash style, sorted
	DebugInfo bool     `cbor:"4,keyasint,omitempty"`
}

// NewClassManifest returns a manifest over classes, normalized to slash style
// and sorted.
func NewClassManifest(mainClass string, classes []string, debugInfo bool) *ClassManifest {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = naming.ToSlashName(c)
	}
	sort.Strings(out)
	return &ClassManifest{
		Version:   ManifestVersion,
		MainClass: naming.ToSlashName(mainClass),
		Classes:   out,
		DebugInfo: debugInfo,
	}
}

// NameMapper builds the storage name mapper the manifest describes.
func (m *ClassManifest) NameMapper() (*StandardNameMapper, error) {
	return NewStandardNameMapper(m.Classes, m.DebugInfo)
}

// MarshalManifest serializes a ClassManifest to CBOR bytes.
func MarshalManifest(m *ClassManifest) ([]byte, error) {
	return cborEncMode.Marshal(m)
}

// UnmarshalManifest deserializes a ClassManifest from CBOR bytes.
func UnmarshalManifest(data []byte) (*ClassManifest, error) {
	var m ClassManifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("persistence: unmarshal manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: %d", ErrManifestVersion, m.Version)
	}
	return &m, nil
}
