package naming

import "sort"

// ClassLibrary answers whether a slash-style name belongs to the runtime
// library surface that is shadowed for sandboxed code.
type ClassLibrary interface {
	Contains(slashName string) bool
}

// LibrarySet is a ClassLibrary backed by a fixed set of names.
type LibrarySet map[string]struct{}

// NewLibrarySet builds a set from names in either style.
func NewLibrarySet(names ...string) LibrarySet {
	s := make(LibrarySet, len(names))
	for _, n := range names {
		s[ToSlashName(n)] = struct{}{}
	}
	return s
}

// Contains implements ClassLibrary.
func (s LibrarySet) Contains(slashName string) bool {
	_, ok := s[slashName]
	return ok
}

// Names returns the members in sorted order.
func (s LibrarySet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// standardLibraryNames are the non-exception runtime-library classes exposed
// to contracts. Exception types are supplied separately to the Renamer.
var standardLibraryNames = []string{
	"java/lang/Object",
	"java/lang/Class",
	"java/lang/String",
	"java/lang/StringBuilder",
	"java/lang/StringBuffer",
	"java/lang/CharSequence",
	"java/lang/Comparable",
	"java/lang/Iterable",
	"java/lang/AutoCloseable",
	"java/lang/Runnable",
	"java/lang/Number",
	"java/lang/Boolean",
	"java/lang/Byte",
	"java/lang/Character",
	"java/lang/Short",
	"java/lang/Integer",
	"java/lang/Long",
	"java/lang/Float",
	"java/lang/Double",
	"java/lang/Void",
	"java/lang/Enum",
	"java/lang/Math",
	"java/lang/StrictMath",
	"java/lang/System",
	"java/lang/invoke/LambdaMetafactory",
	"java/lang/invoke/StringConcatFactory",
	"java/math/BigInteger",
	"java/math/BigDecimal",
	"java/math/MathContext",
	"java/math/RoundingMode",
	"java/util/Arrays",
	"java/util/Collection",
	"java/util/Iterator",
	"java/util/List",
	"java/util/ListIterator",
	"java/util/Map",
	"java/util/Map$Entry",
	"java/util/Set",
	"java/util/function/Function",
	"java/util/function/BiFunction",
	"java/util/function/Supplier",
	"java/util/function/Consumer",
}

// StandardLibrary returns the default runtime-library class set.
func StandardLibrary() LibrarySet {
	return NewLibrarySet(standardLibraryNames...)
}

// standardExceptionNames are the runtime-library throwables that get both a
// shadow class and an exception wrapper.
var standardExceptionNames = []string{
	"java/lang/Throwable",
	"java/lang/Error",
	"java/lang/AssertionError",
	"java/lang/Exception",
	"java/lang/RuntimeException",
	"java/lang/ArithmeticException",
	"java/lang/ArrayIndexOutOfBoundsException",
	"java/lang/ArrayStoreException",
	"java/lang/ClassCastException",
	"java/lang/ClassNotFoundException",
	"java/lang/CloneNotSupportedException",
	"java/lang/IllegalArgumentException",
	"java/lang/IllegalStateException",
	"java/lang/IndexOutOfBoundsException",
	"java/lang/InterruptedException",
	"java/lang/NegativeArraySizeException",
	"java/lang/NoSuchFieldException",
	"java/lang/NullPointerException",
	"java/lang/NumberFormatException",
	"java/lang/StringIndexOutOfBoundsException",
	"java/lang/UnsupportedOperationException",
	"java/util/NoSuchElementException",
	"java/util/ConcurrentModificationException",
}

// StandardExceptions returns the default pre-rename, slash-style runtime
// exception names.
func StandardExceptions() []string {
	out := make([]string, len(standardExceptionNames))
	copy(out, standardExceptionNames)
	return out
}
