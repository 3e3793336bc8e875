// Package naming implements the class namespace renamer.
//
// Every class name the sandbox can observe exists in two forms: the
// pre-rename form that contract authors and the runtime library use, and the
// post-rename form that instrumented code is loaded under. The mapping is
// deterministic and reversible, and every name falls into exactly one
// ClassCategory in each direction:
//   - runtime-library classes (non-exception and exception) under the shadow prefix
//   - public API classes under the shadow API prefix
//   - exception wrappers under the exception wrapper prefix
//   - precise and unifying array wrappers under the array wrapper package
//   - user-defined classes under the user prefix (no prefix in debug mode)
//
// A Renamer is built once per sandbox from a Policy and two explicit name
// sets, and is safe for concurrent use since it is never mutated after
// construction.
package naming
