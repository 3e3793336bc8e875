package naming

import "fmt"

// Builder assembles a Renamer step by step.
//
//	r, err := naming.NewBuilder(naming.DotStyle, false).
//		LoadPreRenameRuntimeExceptions(naming.StandardExceptions()).
//		LoadPostRenameUserClasses(userClasses).
//		ProhibitExceptionWrappers().
//		Build()
type Builder struct {
	style      NameStyle
	debug      bool
	exceptions *NameSet
	users      *NameSet
	prohibited []ClassCategory
	opts       []Option
	err        error
}

// NewBuilder starts a builder for the given style and debug mode.
func NewBuilder(style NameStyle, preserveDebugInfo bool) *Builder {
	return &Builder{style: style, debug: preserveDebugInfo}
}

func (b *Builder) loadExceptions(names []string, c NameCategory) *Builder {
	if b.exceptions != nil {
		b.fail("runtime exceptions loaded twice")
		return b
	}
	b.exceptions = &NameSet{Names: names, Category: c}
	return b
}

func (b *Builder) loadUsers(names []string, c NameCategory) *Builder {
	if b.users != nil {
		b.fail("user classes loaded twice")
		return b
	}
	b.users = &NameSet{Names: names, Category: c}
	return b
}

func (b *Builder) fail(msg string) {
	if b.err == nil {
		b.err = fmt.Errorf("naming: builder: %s", msg)
	}
}

// LoadPreRenameRuntimeExceptions sets the runtime exception classes from
// their original names.
func (b *Builder) LoadPreRenameRuntimeExceptions(names []string) *Builder {
	return b.loadExceptions(names, PreRename)
}

// LoadPostRenameRuntimeExceptions sets the runtime exception classes from
// their shadow names.
func (b *Builder) LoadPostRenameRuntimeExceptions(names []string) *Builder {
	return b.loadExceptions(names, PostRename)
}

// LoadPreRenameUserClasses sets the user-defined classes from their
// original names.
func (b *Builder) LoadPreRenameUserClasses(names []string) *Builder {
	return b.loadUsers(names, PreRename)
}

// LoadPostRenameUserClasses sets the user-defined classes from their
// renamed form.
func (b *Builder) LoadPostRenameUserClasses(names []string) *Builder {
	return b.loadUsers(names, PostRename)
}

// Prohibit disables the given categories.
func (b *Builder) Prohibit(cats ...ClassCategory) *Builder {
	b.prohibited = append(b.prohibited, cats...)
	return b
}

// ProhibitRuntimeLibrary disables both runtime-library categories.
func (b *Builder) ProhibitRuntimeLibrary() *Builder {
	return b.Prohibit(RuntimeLibraryClass, RuntimeLibraryException)
}

// ProhibitAPI disables PublicAPIClass.
func (b *Builder) ProhibitAPI() *Builder { return b.Prohibit(PublicAPIClass) }

// ProhibitExceptionWrappers disables ExceptionWrapper.
func (b *Builder) ProhibitExceptionWrappers() *Builder { return b.Prohibit(ExceptionWrapper) }

// ProhibitPreciseArrays disables PreciseArray.
func (b *Builder) ProhibitPreciseArrays() *Builder { return b.Prohibit(PreciseArray) }

// ProhibitUnifyingArrays disables UnifyingArray.
func (b *Builder) ProhibitUnifyingArrays() *Builder { return b.Prohibit(UnifyingArray) }

// ProhibitUserClasses disables UserDefinedClass.
func (b *Builder) ProhibitUserClasses() *Builder { return b.Prohibit(UserDefinedClass) }

// WithLibrary overrides the runtime-library class set.
func (b *Builder) WithLibrary(lib ClassLibrary) *Builder {
	b.opts = append(b.opts, WithLibrary(lib))
	return b
}

// WithArrayMapper overrides the array descriptor collaborator.
func (b *Builder) WithArrayMapper(m ArrayMapper) *Builder {
	b.opts = append(b.opts, WithArrayMapper(m))
	return b
}

// Build returns the Renamer. Sets that were never loaded are empty.
func (b *Builder) Build() (*Renamer, error) {
	if b.err != nil {
		return nil, b.err
	}
	var exceptions, users NameSet
	if b.exceptions != nil {
		exceptions = *b.exceptions
	}
	if b.users != nil {
		users = *b.users
	}
	return New(NewPolicy(b.style, b.debug, b.prohibited...), exceptions, users, b.opts...)
}
