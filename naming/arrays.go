package naming

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Array descriptor mapping
// ---------------------------------------------------------------------------
//
// Pre-rename array names are JVM-style descriptors without the trailing
// semicolon: "[I", "[[J", "[Ljava/lang/String". Post-rename names live under
// ArrayWrapperPackage:
//
//	[I                   -> IntArray
//	[[I                  -> $$I
//	[Ljava/lang/String   -> $Lorg/shadowvm/shadow/java/lang/String        (precise)
//	[Ljava/lang/String   -> interface/_Lorg/shadowvm/shadow/java/lang/String (unifying)
//
// Primitive arrays have a single wrapper form regardless of strategy.

// ArrayMapper performs the mechanical descriptor transform for array
// wrapper types. All names are slash style.
type ArrayMapper interface {
	PreciseWrapper(slashArrayName string) (string, error)
	UnifyingWrapper(slashArrayName string) (string, error)
	OriginalName(slashWrapperName string) (string, error)
}

// ElementMapping renames the element class of an object array. Both
// functions take and return slash-style names.
type ElementMapping struct {
	ToPostRename func(slashName string) (string, error)
	ToPreRename  func(slashName string) (string, error)
}

// Handwritten array supertypes, relative to ArrayWrapperPackage.
const (
	ArrayMarker            = "Array"
	ArrayInterface         = "IArray"
	ObjectArrayMarker      = "ObjectArray"
	ObjectArrayInterface   = "IObjectArray"
	unifyingArrayNamespace = "interface/"
)

var primitiveWrappers = map[byte]string{
	'Z': "BooleanArray",
	'B': "ByteArray",
	'C': "CharArray",
	'S': "ShortArray",
	'I': "IntArray",
	'J': "LongArray",
	'F': "FloatArray",
	'D': "DoubleArray",
}

var primitiveByWrapper = func() map[string]byte {
	m := make(map[string]byte, len(primitiveWrappers))
	for c, w := range primitiveWrappers {
		m[w] = c
	}
	return m
}()

func isPrimitiveDescriptor(c byte) bool {
	_, ok := primitiveWrappers[c]
	return ok
}

// arrayShape is a parsed pre-rename array descriptor.
type arrayShape struct {
	dims      int
	primitive byte   // set for primitive element types
	element   string // slash-style class name for object element types
}

func parseArrayDescriptor(name string) (arrayShape, error) {
	dims := 0
	for dims < len(name) && name[dims] == '[' {
		dims++
	}
	if dims == 0 {
		return arrayShape{}, fmt.Errorf("%q is not an array descriptor", name)
	}
	rest := name[dims:]
	switch {
	case len(rest) == 1 && isPrimitiveDescriptor(rest[0]):
		return arrayShape{dims: dims, primitive: rest[0]}, nil
	case len(rest) > 1 && rest[0] == 'L' && !strings.ContainsAny(rest, ";["):
		return arrayShape{dims: dims, element: rest[1:]}, nil
	default:
		return arrayShape{}, fmt.Errorf("bad element type in array descriptor %q", name)
	}
}

// wrapperKind classifies the part of a post-rename array name that follows
// ArrayWrapperPackage.
type wrapperKind int

const (
	wrapperUnknown         wrapperKind = iota
	wrapperAmbiguous                   // Array, IArray
	wrapperObjectSupertype             // ObjectArray, IObjectArray
	wrapperPrimitive
	wrapperPrecise
	wrapperUnifying
)

func classifyWrapper(rest string) wrapperKind {
	switch rest {
	case ArrayMarker, ArrayInterface:
		return wrapperAmbiguous
	case ObjectArrayMarker, ObjectArrayInterface:
		return wrapperObjectSupertype
	}
	if _, ok := primitiveByWrapper[rest]; ok {
		return wrapperPrimitive
	}
	if strings.HasPrefix(rest, unifyingArrayNamespace+"_") {
		return wrapperUnifying
	}
	if strings.HasPrefix(rest, "$") {
		tail := strings.TrimLeft(rest, "$")
		switch {
		case len(tail) == 1 && isPrimitiveDescriptor(tail[0]):
			return wrapperPrimitive
		case len(tail) > 1 && tail[0] == 'L':
			return wrapperPrecise
		}
	}
	return wrapperUnknown
}

// StandardArrayMapper is the default ArrayMapper.
type StandardArrayMapper struct {
	elements ElementMapping
}

// NewStandardArrayMapper returns a mapper that renames object element types
// through elements.
func NewStandardArrayMapper(elements ElementMapping) *StandardArrayMapper {
	return &StandardArrayMapper{elements: elements}
}

// PreciseWrapper returns the precise wrapper name for a pre-rename array.
func (m *StandardArrayMapper) PreciseWrapper(slashArrayName string) (string, error) {
	shape, err := parseArrayDescriptor(slashArrayName)
	if err != nil {
		return "", err
	}
	if shape.primitive != 0 {
		return primitiveWrapperName(shape), nil
	}
	elem, err := m.elements.ToPostRename(shape.element)
	if err != nil {
		return "", err
	}
	return ArrayWrapperPackage + strings.Repeat("$", shape.dims) + "L" + elem, nil
}

// UnifyingWrapper returns the unifying wrapper name for a pre-rename array.
func (m *StandardArrayMapper) UnifyingWrapper(slashArrayName string) (string, error) {
	shape, err := parseArrayDescriptor(slashArrayName)
	if err != nil {
		return "", err
	}
	if shape.primitive != 0 {
		return primitiveWrapperName(shape), nil
	}
	elem, err := m.elements.ToPostRename(shape.element)
	if err != nil {
		return "", err
	}
	return ArrayWrapperPackage + unifyingArrayNamespace + strings.Repeat("_", shape.dims) + "L" + elem, nil
}

// OriginalName reverses PreciseWrapper and UnifyingWrapper. It does not
// handle the handwritten supertypes.
func (m *StandardArrayMapper) OriginalName(slashWrapperName string) (string, error) {
	rest, ok := strings.CutPrefix(slashWrapperName, ArrayWrapperPackage)
	if !ok {
		return "", fmt.Errorf("%q is not an array wrapper", slashWrapperName)
	}
	if c, ok := primitiveByWrapper[rest]; ok {
		return "[" + string(c), nil
	}

	var marker string
	if tail, ok := strings.CutPrefix(rest, unifyingArrayNamespace); ok {
		rest, marker = tail, "_"
	} else {
		marker = "$"
	}
	tail := strings.TrimLeft(rest, marker)
	dims := len(rest) - len(tail)
	if dims == 0 {
		return "", fmt.Errorf("%q is not an array wrapper", slashWrapperName)
	}
	if marker == "$" && len(tail) == 1 && isPrimitiveDescriptor(tail[0]) {
		return strings.Repeat("[", dims) + tail, nil
	}
	if len(tail) < 2 || tail[0] != 'L' {
		return "", fmt.Errorf("bad element type in array wrapper %q", slashWrapperName)
	}
	elem, err := m.elements.ToPreRename(tail[1:])
	if err != nil {
		return "", err
	}
	return strings.Repeat("[", dims) + "L" + elem, nil
}

func primitiveWrapperName(shape arrayShape) string {
	if shape.dims == 1 {
		return ArrayWrapperPackage + primitiveWrappers[shape.primitive]
	}
	return ArrayWrapperPackage + strings.Repeat("$", shape.dims) + string(shape.primitive)
}
