package naming

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// ClassCategory: the closed set of class categories
// ---------------------------------------------------------------------------

// ClassCategory identifies which part of the sandbox namespace a class
// belongs to.
type ClassCategory int

const (
	// RuntimeLibraryClass is a shadowed runtime-library class that is not
	// an exception.
	RuntimeLibraryClass ClassCategory = iota
	// RuntimeLibraryException is a shadowed runtime-library exception.
	RuntimeLibraryException
	// PublicAPIClass is a class of the blockchain-facing API.
	PublicAPIClass
	// ExceptionWrapper is a generated wrapper carrying a sandbox object as
	// a host exception.
	ExceptionWrapper
	// PreciseArray is an array wrapper that keeps its element type.
	PreciseArray
	// UnifyingArray is an array wrapper shared by related element types.
	UnifyingArray
	// UserDefinedClass is a class deployed with the contract.
	UserDefinedClass

	numCategories
)

var categoryNames = [numCategories]string{
	RuntimeLibraryClass:     "runtime-library-class",
	RuntimeLibraryException: "runtime-library-exception",
	PublicAPIClass:          "api",
	ExceptionWrapper:        "exception-wrapper",
	PreciseArray:            "precise-array",
	UnifyingArray:           "unifying-array",
	UserDefinedClass:        "user",
}

// AllCategories returns every category in declaration order.
func AllCategories() []ClassCategory {
	all := make([]ClassCategory, numCategories)
	for i := range all {
		all[i] = ClassCategory(i)
	}
	return all
}

// String returns the name ParseCategory accepts.
func (c ClassCategory) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("ClassCategory(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories.
func (c ClassCategory) Valid() bool {
	return c >= 0 && c < numCategories
}

// IsRuntimeLibrary reports whether c is either runtime-library category.
func (c ClassCategory) IsRuntimeLibrary() bool {
	return c == RuntimeLibraryClass || c == RuntimeLibraryException
}

// IsArray reports whether c is either array category.
func (c ClassCategory) IsArray() bool {
	return c == PreciseArray || c == UnifyingArray
}

// ParseCategory parses the names returned by ClassCategory.String.
// "runtime" and "runtime-library" expand to both runtime-library
// categories.
func ParseCategory(s string) ([]ClassCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "runtime" || s == "runtime-library" {
		return []ClassCategory{RuntimeLibraryClass, RuntimeLibraryException}, nil
	}
	for i, name := range categoryNames {
		if name == s {
			return []ClassCategory{ClassCategory(i)}, nil
		}
	}
	return nil, fmt.Errorf("naming: unknown class category %q", s)
}

// NameCategory says whether a set of names is given in pre- or post-rename
// form.
type NameCategory int

const (
	// PreRename names are original class names.
	PreRename NameCategory = iota
	// PostRename names carry the sandbox prefixes.
	PostRename
)

// String returns "pre-rename" or "post-rename".
func (n NameCategory) String() string {
	if n == PostRename {
		return "post-rename"
	}
	return "pre-rename"
}

// ArrayType selects the wrapper strategy when renaming an array name.
type ArrayType int

const (
	// NoArrayType is the hint to pass for names that are not arrays.
	NoArrayType ArrayType = iota
	// PreciseType keeps the exact element type.
	PreciseType
	// UnifyingType maps related element types onto one interface.
	UnifyingType
)

// String returns "none", "precise" or "unifying".
func (a ArrayType) String() string {
	switch a {
	case PreciseType:
		return "precise"
	case UnifyingType:
		return "unifying"
	default:
		return "none"
	}
}
